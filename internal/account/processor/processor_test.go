package processor

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/config"
	"earn-server/internal/kv"
	"earn-server/internal/ledger"
	"earn-server/internal/observability"
	referral "earn-server/internal/referral/processor"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	processor *AccountProcessor
	referrals *MockReferrals
	inApp     *MockInAppSource
	ledger    *ledger.Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	referrals := NewMockReferrals(ctrl)
	inApp := NewMockInAppSource(ctrl)
	logger := observability.NewNopLogger()
	rules := ledger.RulesFromConfig(config.DefaultRewards())

	svc := ledger.NewService(kv.NewMemoryStore(), rules, logger).WithClock(func() time.Time { return now })
	return fixture{
		processor: New(svc, referrals, inApp, rules, logger),
		referrals: referrals,
		inApp:     inApp,
		ledger:    svc,
	}
}

func TestLaunch_NewUser(t *testing.T) {
	f := newFixture(t)
	f.referrals.EXPECT().ReferralCode(gomock.Any(), "42").Return("ABCD2345", nil)
	f.inApp.EXPECT().InAppConfig().Return(adnetwork.DefaultInAppConfig())

	result, err := f.processor.Launch(context.Background(), referral.Launch{UserID: "42", FirstName: "Ann"})

	require.NoError(t, err)
	assert.Equal(t, "ABCD2345", result.ReferralCode)
	assert.Nil(t, result.Referral)
	assert.True(t, result.Account.Balance.IsZero())
	assert.Equal(t, "light", result.Settings.Theme)
	assert.Equal(t, "0.0015", result.Economics.PopupReward.String())
	assert.False(t, result.CanWithdraw)
	assert.Equal(t, 2, result.InApp.FrequencyPerSession)
}

func TestLaunch_AppliesInboundReferral(t *testing.T) {
	f := newFixture(t)
	launch := referral.Launch{UserID: "42", FirstName: "Ann", StartParam: "REF22222"}
	f.referrals.EXPECT().AcceptInbound(gomock.Any(), launch).
		Return(referral.AcceptResult{Accepted: true, ReferrerCode: "REF22222"}, nil)
	f.referrals.EXPECT().ReferralCode(gomock.Any(), "42").Return("ABCD2345", nil)
	f.inApp.EXPECT().InAppConfig().Return(adnetwork.DefaultInAppConfig())

	result, err := f.processor.Launch(context.Background(), launch)

	require.NoError(t, err)
	require.NotNil(t, result.Referral)
	assert.True(t, result.Referral.Accepted)
}

func TestLaunch_BadReferralDoesNotFailLaunch(t *testing.T) {
	f := newFixture(t)
	launch := referral.Launch{UserID: "42", StartParam: "NOPE2222"}
	f.referrals.EXPECT().AcceptInbound(gomock.Any(), launch).Return(referral.AcceptResult{}, referral.ErrInvalidReferral)
	f.referrals.EXPECT().ReferralCode(gomock.Any(), "42").Return("ABCD2345", nil)
	f.inApp.EXPECT().InAppConfig().Return(adnetwork.DefaultInAppConfig())

	result, err := f.processor.Launch(context.Background(), launch)

	require.NoError(t, err)
	assert.Nil(t, result.Referral)
}

func TestLaunch_CanWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := ledger.Account{Balance: decimal.RequireFromString("5.00"), JoinedAt: now}
	require.NoError(t, kv.Save(ctx, f.ledger.Scope("42"), ledger.KeyAccount, acc))
	f.referrals.EXPECT().ReferralCode(gomock.Any(), "42").Return("ABCD2345", nil)
	f.inApp.EXPECT().InAppConfig().Return(adnetwork.DefaultInAppConfig())

	result, err := f.processor.Launch(ctx, referral.Launch{UserID: "42"})

	require.NoError(t, err)
	assert.True(t, result.CanWithdraw)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dark := "dark"
	lang := " RU "
	off := false

	settings, err := f.processor.UpdateSettings(ctx, "42", ledger.SettingsPatch{Theme: &dark, Language: &lang, NotificationsEnabled: &off})
	require.NoError(t, err)
	assert.Equal(t, ledger.Settings{NotificationsEnabled: false, Theme: "dark", Language: "ru"}, settings)

	stored, err := f.processor.Settings(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, settings, stored)

	bad := "sepia"
	_, err = f.processor.UpdateSettings(ctx, "42", ledger.SettingsPatch{Theme: &bad})
	assert.ErrorIs(t, err, ledger.ErrInvalidSettings)

	stored, err = f.processor.Settings(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Theme)
}
