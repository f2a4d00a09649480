package service

import (
	"context"
	"errors"

	"souqy/config"
	"souqy/internal/auth"
	"souqy/internal/domain"
	"souqy/internal/models"
	"souqy/internal/repository"

	"souqy/pkg/otp"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCreds = errors.New("invalid phone or password")

// AuthService handles phone/OTP registration and login. OTP delivery over SMS
// is an external concern; in development the code is echoed back to the caller.
type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	otpStore otp.Store
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, otpStore otp.Store) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, otpStore: otpStore}
}

// SendOTP issues a code for registration or password reset. Registration
// requires an unregistered phone, reset a registered one.
func (s *AuthService) SendOTP(ctx context.Context, phone, otpType string) (string, error) {
	if phone == "" {
		return "", domain.Validation("phone number is required")
	}
	if otpType != domain.OTPTypeVerification && otpType != domain.OTPTypePasswordReset {
		return "", domain.Validation(`type must be either "verification" or "password_reset"`)
	}
	exists, err := s.userRepo.PhoneExists(phone)
	if err != nil {
		return "", err
	}
	if otpType == domain.OTPTypeVerification && exists {
		return "", domain.Conflict("user already exists with this phone number")
	}
	if otpType == domain.OTPTypePasswordReset && !exists {
		return "", domain.NotFound("user not found with this phone number")
	}
	return s.otpStore.Create(ctx, phone, otpType)
}

// RegisterUser verifies the OTP and creates a verified user account.
func (s *AuthService) RegisterUser(ctx context.Context, fullName, phone, password, code string) (*models.User, string, error) {
	if fullName == "" || phone == "" || password == "" || code == "" {
		return nil, "", domain.Validation("full name, phone, password and otp are required")
	}
	if err := s.verifyOTP(ctx, phone, domain.OTPTypeVerification, code); err != nil {
		return nil, "", err
	}
	u := &models.User{
		FullName:   fullName,
		Phone:      phone,
		Role:       domain.RoleUser,
		IsVerified: true,
	}
	if err := s.createWithPassword(u, password, nil); err != nil {
		return nil, "", err
	}
	return s.withToken(u)
}

// RegisterAdvertiser verifies the OTP and creates a verified advertiser with
// its store profile in one transaction.
func (s *AuthService) RegisterAdvertiser(ctx context.Context, fullName, phone, password, storeName, description, code string) (*models.User, string, error) {
	if fullName == "" || phone == "" || password == "" || storeName == "" || code == "" {
		return nil, "", domain.Validation("full name, phone, password, store name and otp are required")
	}
	if err := s.verifyOTP(ctx, phone, domain.OTPTypeVerification, code); err != nil {
		return nil, "", err
	}
	u := &models.User{
		FullName:   fullName,
		Phone:      phone,
		Role:       domain.RoleAdvertiser,
		IsVerified: true,
	}
	profile := &models.AdvertiserProfile{StoreName: storeName, Description: description}
	if err := s.createWithPassword(u, password, profile); err != nil {
		return nil, "", err
	}
	u.AdvertiserProfile = profile
	return s.withToken(u)
}

func (s *AuthService) Login(phone, password string) (*models.User, string, error) {
	if phone == "" || password == "" {
		return nil, "", domain.Validation("phone and password are required")
	}
	u, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCreds
	}
	return s.withToken(u)
}

// ResetPassword sets a new password after verifying a password-reset OTP.
func (s *AuthService) ResetPassword(ctx context.Context, phone, code, newPassword string) error {
	if phone == "" || code == "" || newPassword == "" {
		return domain.Validation("phone, otp and new password are required")
	}
	if err := s.verifyOTP(ctx, phone, domain.OTPTypePasswordReset, code); err != nil {
		return err
	}
	u, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("user not found with this phone number")
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(u.ID, string(hash))
}

func (s *AuthService) verifyOTP(ctx context.Context, phone, otpType, code string) error {
	ok, err := s.otpStore.Verify(ctx, phone, otpType, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Validation("invalid or expired OTP")
	}
	return nil
}

func (s *AuthService) createWithPassword(u *models.User, password string, profile *models.AdvertiserProfile) error {
	exists, err := s.userRepo.PhoneExists(u.Phone)
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict("user already exists with this phone number")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	if profile != nil {
		return s.userRepo.CreateAdvertiser(u, profile)
	}
	return s.userRepo.Create(u)
}

func (s *AuthService) withToken(u *models.User) (*models.User, string, error) {
	token, err := auth.GenerateToken(&s.cfg.JWT, u.ID, u.Phone, u.Role)
	if err != nil {
		return u, "", err
	}
	return u, token, nil
}
