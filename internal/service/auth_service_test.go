package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"souqy/config"
	"souqy/internal/auth"
	"souqy/internal/database"
	"souqy/internal/domain"
	"souqy/internal/repository"
	"souqy/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeOTPStore keeps codes in memory with the single-use semantics of the
// redis-backed store.
type fakeOTPStore struct {
	codes map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[string]string)}
}

func (s *fakeOTPStore) Create(_ context.Context, phone, otpType string) (string, error) {
	code := "123456"
	s.codes[otpType+":"+phone] = code
	return code, nil
}

func (s *fakeOTPStore) Verify(_ context.Context, phone, otpType, code string) (bool, error) {
	key := otpType + ":" + phone
	stored, ok := s.codes[key]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, key)
	return true, nil
}

func newAuthEnv(t *testing.T) (*service.AuthService, *fakeOTPStore, *config.Config) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiry = time.Hour
	cfg.JWT.Issuer = "souqy-test"

	store := newFakeOTPStore()
	return service.NewAuthService(cfg, repository.NewUserRepository(db), store), store, cfg
}

func TestSendOTP(t *testing.T) {
	svc, _, _ := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "", domain.OTPTypeVerification)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.SendOTP(ctx, "0501234567", "magic")
	assert.True(t, domain.IsValidation(err))

	// Nobody with this phone yet, so reset has no target.
	_, err = svc.SendOTP(ctx, "0501234567", domain.OTPTypePasswordReset)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	code, err := svc.SendOTP(ctx, "0501234567", domain.OTPTypeVerification)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestRegisterUser(t *testing.T) {
	svc, _, cfg := newAuthEnv(t)
	ctx := context.Background()

	code, err := svc.SendOTP(ctx, "0501234567", domain.OTPTypeVerification)
	require.NoError(t, err)

	_, _, err = svc.RegisterUser(ctx, "Salim", "0501234567", "secret123", "000000")
	assert.True(t, domain.IsValidation(err))

	u, token, err := svc.RegisterUser(ctx, "Salim", "0501234567", "secret123", code)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsVerified)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	claims, err := auth.ParseToken(&cfg.JWT, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	// The code is burned on first use.
	_, _, err = svc.RegisterUser(ctx, "Salim", "0501234567", "secret123", code)
	assert.True(t, domain.IsValidation(err))

	// A registered phone cannot request another verification code.
	_, err = svc.SendOTP(ctx, "0501234567", domain.OTPTypeVerification)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterAdvertiser(t *testing.T) {
	svc, _, _ := newAuthEnv(t)
	ctx := context.Background()

	code, err := svc.SendOTP(ctx, "0509876543", domain.OTPTypeVerification)
	require.NoError(t, err)

	_, _, err = svc.RegisterAdvertiser(ctx, "Nora", "0509876543", "secret123", "", "", code)
	assert.True(t, domain.IsValidation(err))

	u, token, err := svc.RegisterAdvertiser(ctx, "Nora", "0509876543", "secret123", "Nora Sweets", "home bakery", code)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdvertiser, u.Role)
	assert.NotEmpty(t, token)
	require.NotNil(t, u.AdvertiserProfile)
	assert.Equal(t, "Nora Sweets", u.AdvertiserProfile.StoreName)
	assert.Equal(t, u.ID, u.AdvertiserProfile.UserID)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthEnv(t)
	ctx := context.Background()

	code, err := svc.SendOTP(ctx, "0501234567", domain.OTPTypeVerification)
	require.NoError(t, err)
	_, _, err = svc.RegisterUser(ctx, "Salim", "0501234567", "secret123", code)
	require.NoError(t, err)

	_, token, err := svc.Login("0501234567", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login("0501234567", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
	_, _, err = svc.Login("0500000000", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newAuthEnv(t)
	ctx := context.Background()

	code, err := svc.SendOTP(ctx, "0501234567", domain.OTPTypeVerification)
	require.NoError(t, err)
	_, _, err = svc.RegisterUser(ctx, "Salim", "0501234567", "secret123", code)
	require.NoError(t, err)

	resetCode, err := svc.SendOTP(ctx, "0501234567", domain.OTPTypePasswordReset)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, "0501234567", "000000", "newpass123")
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, svc.ResetPassword(ctx, "0501234567", resetCode, "newpass123"))

	_, _, err = svc.Login("0501234567", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCreds)
	_, _, err = svc.Login("0501234567", "newpass123")
	assert.NoError(t, err)
}
