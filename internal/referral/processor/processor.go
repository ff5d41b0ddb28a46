package processor

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"earn-server/internal/bridge"
	"earn-server/internal/kv"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidReferral   = errors.New("invalid referral code")
	ErrCodeUnavailable   = errors.New("could not allocate a referral code")
	ErrReferralCodeEmpty = errors.New("referral code is required")
)

const (
	keyDeviceID      = "device_id"
	codeLength       = 8
	maxCodeAttempts  = 5
	registryPrefix   = ledger.KeyAccount + "_"
	deviceCodePrefix = "referral_code_"
)

// registration is stored at userData_<code> and points at the owner's scope.
type registration struct {
	OwnerID string `json:"ownerId"`
}

// Launch is the inbound part of the webapp launch parameters.
type Launch struct {
	UserID     string
	FirstName  string
	StartParam string
}

// AcceptResult reports whether an inbound code was applied.
type AcceptResult struct {
	Accepted     bool   `json:"accepted"`
	ReferrerCode string `json:"referrerCode,omitempty"`
}

// Summary is the referral view of one account.
type Summary struct {
	Code       string          `json:"code"`
	ShareLink  string          `json:"shareLink,omitempty"`
	ReferredBy string          `json:"referredBy,omitempty"`
	Count      int             `json:"count"`
	Cap        int             `json:"cap"`
	Earnings   decimal.Decimal `json:"earnings"`
	Bonus      decimal.Decimal `json:"bonus"`
	Members    []ledger.Member `json:"members"`
}

type ReferralProcessor struct {
	ledger    LedgerService
	bridge    HostBridge
	bonus     decimal.Decimal
	cap       int
	shareBase string
	newCode   func(deviceID string) (string, error)
	logger    *observability.Logger
}

func New(ledgerSvc LedgerService, hostBridge HostBridge, bonus decimal.Decimal, referralCap int, shareBase string, logger *observability.Logger) *ReferralProcessor {
	return &ReferralProcessor{
		ledger:    ledgerSvc,
		bridge:    hostBridge,
		bonus:     bonus,
		cap:       referralCap,
		shareBase: shareBase,
		newCode:   generateCode,
		logger:    logger,
	}
}

// generateCode hashes the device id with a random salt into 8 base32 characters.
func generateCode(deviceID string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	sum := sha256.Sum256(append([]byte(deviceID), salt...))
	return base32.StdEncoding.EncodeToString(sum[:])[:codeLength], nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DeviceID returns the user's device id, creating it on first use.
func (p *ReferralProcessor) DeviceID(ctx context.Context, userID string) (string, error) {
	var id string
	err := p.ledger.WithLedger(ctx, userID, func(*ledger.Ledger) error {
		var err error
		id, err = p.ensureDeviceID(ctx, p.ledger.Scope(userID))
		return err
	})
	return id, err
}

func (p *ReferralProcessor) ensureDeviceID(ctx context.Context, scope kv.Store) (string, error) {
	id, err := kv.Load(ctx, scope, keyDeviceID, "")
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := kv.Save(ctx, scope, keyDeviceID, id); err != nil {
		return "", fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
	}
	return id, nil
}

// ReferralCode returns the user's code, generating and registering it once.
func (p *ReferralProcessor) ReferralCode(ctx context.Context, userID string) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID})

	var code string
	err := p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		if code = l.ReferralCode(); code != "" {
			return nil
		}

		scope := p.ledger.Scope(userID)
		deviceID, err := p.ensureDeviceID(ctx, scope)
		if err != nil {
			return err
		}
		deviceKey := deviceCodePrefix + deviceID
		if code, err = kv.Load(ctx, scope, deviceKey, ""); err != nil {
			return err
		}
		if code == "" {
			if code, err = p.allocate(ctx, userID, deviceID); err != nil {
				return err
			}
		} else if err := p.register(ctx, code, userID); err != nil {
			return err
		}

		l.SetReferralCode(code)
		if err := kv.Save(ctx, scope, deviceKey, code); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}
		if err := l.Save(ctx); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}
		p.logger.Info(ctx, "referral code created")
		return nil
	})
	return code, err
}

// allocate finds a code nobody else owns and registers it for userID.
func (p *ReferralProcessor) allocate(ctx context.Context, userID, deviceID string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := p.newCode(deviceID)
		if err != nil {
			return "", err
		}
		owner, err := p.owner(ctx, code)
		switch {
		case errors.Is(err, ErrInvalidReferral):
		case err != nil:
			return "", err
		case owner != userID:
			continue
		}
		if err := p.register(ctx, code, userID); err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeUnavailable
}

func (p *ReferralProcessor) register(ctx context.Context, code, userID string) error {
	if err := kv.Save(ctx, p.ledger.Root(), registryPrefix+code, registration{OwnerID: userID}); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
	}
	return nil
}

// owner resolves a code to the user id that owns it.
func (p *ReferralProcessor) owner(ctx context.Context, code string) (string, error) {
	reg, err := kv.Load(ctx, p.ledger.Root(), registryPrefix+code, registration{})
	if err != nil {
		return "", err
	}
	if reg.OwnerID == "" {
		return "", ErrInvalidReferral
	}
	return reg.OwnerID, nil
}

// AcceptInbound applies the referral code the user launched with. A user is
// referred at most once; later launches are no-ops.
func (p *ReferralProcessor) AcceptInbound(ctx context.Context, launch Launch) (AcceptResult, error) {
	code := normalizeCode(launch.StartParam)
	if code == "" {
		return AcceptResult{}, nil
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: launch.UserID},
		observability.Field{Key: "referral_code", Value: code},
	)

	referrerID, err := p.owner(ctx, code)
	if err != nil {
		return AcceptResult{}, err
	}
	if referrerID == launch.UserID {
		return AcceptResult{}, ledger.ErrSelfReferral
	}

	ownCode, err := p.ReferralCode(ctx, launch.UserID)
	if err != nil {
		return AcceptResult{}, err
	}

	// The referee's referrer is reserved before the bonus is paid so that two
	// codes racing for the same referee cannot both be credited.
	var (
		member   ledger.Member
		deviceID string
		already  bool
	)
	err = p.ledger.WithLedger(ctx, launch.UserID, func(l *ledger.Ledger) error {
		if l.ReferredByCode() != "" {
			already = true
			return nil
		}
		snap := l.Snapshot()
		member = ledger.Member{
			ID:           launch.UserID,
			DisplayName:  launch.FirstName,
			JoinedAt:     snap.Account.JoinedAt,
			LastActiveAt: snap.Account.LastActiveAt,
			TotalEarned:  snap.Account.TotalEarned,
		}
		var err error
		if deviceID, err = p.ensureDeviceID(ctx, p.ledger.Scope(launch.UserID)); err != nil {
			return err
		}
		if err := l.SetReferrer(code); err != nil {
			return err
		}
		if err := l.Save(ctx); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}
		return nil
	})
	if err != nil {
		p.logger.Error(ctx, "failed to record referrer", err)
		return AcceptResult{}, err
	}
	if already {
		return AcceptResult{}, nil
	}

	if err := p.Credit(ctx, code, member); err != nil && !errors.Is(err, ledger.ErrAlreadyReferred) {
		p.releaseReferrer(ctx, launch.UserID, code)
		return AcceptResult{}, err
	}

	p.bridge.SendData(ctx, launch.UserID, bridge.Referral(code, bridge.NewUser{
		Code:     ownCode,
		DeviceID: deviceID,
		Name:     launch.FirstName,
		ID:       launch.UserID,
	}))
	p.logger.Info(ctx, "inbound referral accepted")
	return AcceptResult{Accepted: true, ReferrerCode: code}, nil
}

// releaseReferrer undoes the reservation made by AcceptInbound after the
// referrer could not be credited.
func (p *ReferralProcessor) releaseReferrer(ctx context.Context, userID, code string) {
	err := p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		l.ClearReferrer(code)
		return l.Save(ctx)
	})
	if err != nil {
		p.logger.Error(ctx, "failed to release referrer", err)
	}
}

// Credit pays the referral bonus to the owner of code for member. The
// referrer's ledger is locked for the whole update.
func (p *ReferralProcessor) Credit(ctx context.Context, code string, member ledger.Member) error {
	code = normalizeCode(code)
	if code == "" {
		return ErrReferralCodeEmpty
	}
	referrerID, err := p.owner(ctx, code)
	if err != nil {
		return err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "referrer_id", Value: referrerID})

	err = p.ledger.WithLedger(ctx, referrerID, func(l *ledger.Ledger) error {
		if err := l.CreditReferral(member, p.bonus); err != nil {
			return err
		}
		if err := l.Save(ctx); err != nil {
			return fmt.Errorf("%w: %w", ledger.ErrPersistenceFailure, err)
		}
		return nil
	})

	switch {
	case err == nil:
		observability.ReferralCredits.WithLabelValues("ok").Inc()
		p.logger.Info(ctx, fmt.Sprintf("referral bonus %s credited", p.bonus))
	case errors.Is(err, ledger.ErrReferralLimitReached):
		observability.ReferralCredits.WithLabelValues("limit_reached").Inc()
		p.logger.Warn(ctx, "referral limit reached")
	case errors.Is(err, ledger.ErrAlreadyReferred):
		observability.ReferralCredits.WithLabelValues("duplicate").Inc()
	default:
		observability.ReferralCredits.WithLabelValues("error").Inc()
		p.logger.Error(ctx, "failed to credit referral", err)
	}
	return err
}

// Summary lists the user's code, referral count, earnings and members.
func (p *ReferralProcessor) Summary(ctx context.Context, userID string) (Summary, error) {
	code, err := p.ReferralCode(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	err = p.ledger.WithLedger(ctx, userID, func(l *ledger.Ledger) error {
		acc := l.Snapshot().Account
		s = Summary{
			Code:       code,
			ShareLink:  p.ShareLink(code),
			ReferredBy: acc.ReferredByCode,
			Count:      acc.ReferralCount,
			Cap:        p.cap,
			Earnings:   acc.ReferralEarnings,
			Bonus:      p.bonus,
			Members:    acc.ReferralMembers,
		}
		return nil
	})
	if s.Members == nil {
		s.Members = []ledger.Member{}
	}
	return s, err
}

// ShareLink is the deep link that launches the webapp with code.
func (p *ReferralProcessor) ShareLink(code string) string {
	if p.shareBase == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(p.shareBase, "?") {
		sep = "&"
	}
	return p.shareBase + sep + "startapp=" + code
}
