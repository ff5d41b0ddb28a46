package apierrors

import (
	"net/http"
)

// Machine-readable error codes
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeInvalidConfirmation  = "INVALID_CONFIRMATION_CODE"
	CodeConfirmationRequired = "CONFIRMATION_NOT_STARTED"
	CodeConfirmationExpired  = "CONFIRMATION_EXPIRED"
	CodeAdLoadFailed         = "AD_LOAD_FAILED"
	CodeAdInFlight           = "AD_IN_FLIGHT"
	CodePopupNotDue          = "POPUP_NOT_DUE"
	CodePersistenceFailure   = "PERSISTENCE_FAILURE"
	CodeReferralLimitReached = "REFERRAL_LIMIT_REACHED"
	CodeInvalidReferral      = "INVALID_REFERRAL"
	CodeSelfReferral         = "SELF_REFERRAL"
	CodeAlreadyReferred      = "ALREADY_REFERRED"
	CodeInvalidSettings      = "INVALID_SETTINGS"
	CodeAdNetworkError       = "AD_NETWORK_ERROR"
	CodeReferralUnavailable  = "REFERRAL_CODE_UNAVAILABLE"
	CodeRequestCancelled     = "REQUEST_CANCELLED"
)

// APIError is an error with the HTTP status and code it is reported with.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(status int, code, message string, err error) *APIError {
	return &APIError{StatusCode: status, Code: code, Message: message, Err: err}
}

func BadRequest(code, message string) *APIError {
	return newAPIError(http.StatusBadRequest, code, message, nil)
}

func Unauthorized(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFound(code, message string) *APIError {
	return newAPIError(http.StatusNotFound, code, message, nil)
}

func Conflict(code, message string) *APIError {
	return newAPIError(http.StatusConflict, code, message, nil)
}

func TooManyRequests(code, message string) *APIError {
	return newAPIError(http.StatusTooManyRequests, code, message, nil)
}

// BadGateway reports a failure of an upstream dependency the user can retry.
func BadGateway(code, message string, err error) *APIError {
	return newAPIError(http.StatusBadGateway, code, message, err)
}

func ServiceUnavailable(code, message string, err error) *APIError {
	return newAPIError(http.StatusServiceUnavailable, code, message, err)
}

// InternalError never exposes the cause to the client.
func InternalError(err error) *APIError {
	return newAPIError(http.StatusInternalServerError, CodeInternalError, "An internal error occurred. Please try again later.", err)
}
