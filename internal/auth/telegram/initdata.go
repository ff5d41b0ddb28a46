package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingInitData = errors.New("init data is missing")
	ErrInvalidHash     = errors.New("init data signature mismatch")
	ErrExpired         = errors.New("init data is too old")
	ErrMissingUser     = errors.New("init data has no user")
)

// Identity is the launch identity of a webapp session.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	// StartParam carries the inbound referral code of a deep link.
	StartParam string    `json:"-"`
	AuthDate   time.Time `json:"-"`
}

func (i Identity) UserID() string {
	return strconv.FormatInt(i.ID, 10)
}

// Validator checks the signature of webapp init data.
type Validator struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewValidator(botToken string, maxAge time.Duration) *Validator {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return &Validator{
		secret: mac.Sum(nil),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Sign computes the hash for values. Used to build init data in tests and
// local tooling.
func (v *Validator) Sign(values url.Values) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(dataCheckString(values)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate parses initData, verifies its hash and age, and returns the user.
func (v *Validator) Validate(initData string) (Identity, error) {
	if strings.TrimSpace(initData) == "" {
		return Identity{}, ErrMissingInitData
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse init data: %w", err)
	}

	hash := values.Get("hash")
	values.Del("hash")
	expected := v.Sign(values)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return Identity{}, ErrInvalidHash
	}

	authUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid auth_date: %w", err)
	}
	authDate := time.Unix(authUnix, 0)
	if v.maxAge > 0 && v.now().Sub(authDate) > v.maxAge {
		return Identity{}, ErrExpired
	}

	raw := values.Get("user")
	if raw == "" {
		return Identity{}, ErrMissingUser
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, fmt.Errorf("invalid user payload: %w", err)
	}
	if id.ID == 0 {
		return Identity{}, ErrMissingUser
	}
	id.StartParam = values.Get("start_param")
	id.AuthDate = authDate
	return id, nil
}

func dataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, val := range values[k] {
			lines = append(lines, k+"="+val)
		}
	}
	return strings.Join(lines, "\n")
}
