package apierrors

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/kv"
	"earn-server/internal/ledger"
	referralProcessor "earn-server/internal/referral/processor"
	rewardsProcessor "earn-server/internal/rewards/processor"
	withdrawalProcessor "earn-server/internal/withdrawal/processor"
	"errors"
)

// MapError converts domain/processor errors to APIErrors.
// Unknown errors become a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Ad reward workflow
	case errors.Is(err, rewardsProcessor.ErrAdInFlight):
		return Conflict(CodeAdInFlight, "An ad is already in progress")

	case errors.Is(err, rewardsProcessor.ErrPopupNotDue):
		return TooManyRequests(CodePopupNotDue, "Popup ad is not available yet")

	case errors.Is(err, rewardsProcessor.ErrAdLoadFailed):
		return BadGateway(CodeAdLoadFailed, "Ad canceled - no reward given", err)

	// Withdrawal workflow
	case errors.Is(err, withdrawalProcessor.ErrAdInFlight):
		return Conflict(CodeAdInFlight, "A withdrawal ad is already in progress")

	case errors.Is(err, withdrawalProcessor.ErrAdLoadFailed):
		return BadGateway(CodeAdLoadFailed, "Withdrawal canceled - ad not completed", err)

	case errors.Is(err, withdrawalProcessor.ErrConfirmationNotStarted):
		return Conflict(CodeConfirmationRequired, "Watch the withdrawal ad before entering your code")

	case errors.Is(err, withdrawalProcessor.ErrConfirmationExpired):
		return Conflict(CodeConfirmationExpired, "Withdrawal confirmation expired. Please start again")

	// Ledger
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return BadRequest(CodeInsufficientBalance, "Insufficient balance for withdrawal")

	case errors.Is(err, ledger.ErrInvalidConfirmationCode):
		return BadRequest(CodeInvalidConfirmation, "Please enter a valid confirmation code")

	case errors.Is(err, ledger.ErrPersistenceFailure), errors.Is(err, kv.ErrCorrupt):
		return ServiceUnavailable(CodePersistenceFailure, "Could not save your progress. Please try again", err)

	case errors.Is(err, ledger.ErrInvalidSettings):
		return BadRequest(CodeInvalidSettings, err.Error())

	// Referrals
	case errors.Is(err, ledger.ErrReferralLimitReached):
		return Conflict(CodeReferralLimitReached, "Referral limit reached")

	case errors.Is(err, ledger.ErrSelfReferral):
		return BadRequest(CodeSelfReferral, "You cannot use your own referral code")

	case errors.Is(err, ledger.ErrAlreadyReferred), errors.Is(err, ledger.ErrReferrerAlreadySet):
		return Conflict(CodeAlreadyReferred, "Referral already recorded")

	case errors.Is(err, referralProcessor.ErrInvalidReferral),
		errors.Is(err, referralProcessor.ErrReferralCodeEmpty),
		errors.Is(err, ledger.ErrInvalidReferralCode):
		return BadRequest(CodeInvalidReferral, "Invalid referral code")

	case errors.Is(err, referralProcessor.ErrCodeUnavailable):
		return ServiceUnavailable(CodeReferralUnavailable, "Could not create a referral code. Please try again", err)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ServiceUnavailable(CodeRequestCancelled, "Request was cancelled", err)

	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError maps failures of the ad network that escaped the
// workflows.
func mapExternalServiceError(err error) *APIError {
	if errors.Is(err, adnetwork.ErrThrottled) || errors.Is(err, adnetwork.ErrAdNotCompleted) {
		return ServiceUnavailable(CodeAdNetworkError, "Ad service is temporarily unavailable. Please try again later.", err)
	}
	return InternalError(err)
}
