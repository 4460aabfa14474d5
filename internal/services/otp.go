package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
	"github.com/siamware/chatshop-backend/internal/utils"
)

// OTP verification rules. A request issues a fresh token with a short
// expiry; three wrong codes burn the token and the user must restart.
const (
	otpExpiry      = 5 * time.Minute
	otpMaxAttempts = 3
)

var (
	ErrNoPendingOTP    = errors.New("no pending OTP request")
	ErrOTPExpired      = errors.New("OTP expired")
	ErrOTPMismatch     = errors.New("OTP code does not match")
	ErrTooManyAttempts = errors.New("too many OTP attempts")
)

// SMSSender delivers the OTP code to the user's phone.
type SMSSender interface {
	SendSMS(to string, body string) error
}

// OTPService issues and verifies one-time passcodes against the
// auth linkage record of a messaging-platform user.
type OTPService struct {
	store storage.Store
	sms   SMSSender
}

// NewOTPService creates a new OTP service
func NewOTPService(store storage.Store, sms SMSSender) *OTPService {
	return &OTPService{store: store, sms: sms}
}

// RequestOTP generates a code, sends it by SMS and persists the pending
// token on the user's linkage. A new request replaces any previous one.
func (s *OTPService) RequestOTP(psid string, phone string) error {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if s.sms != nil {
		msg := fmt.Sprintf("Your ChatShop verification code is %s. It expires in 5 minutes.", code)
		if err := s.sms.SendSMS(phone, msg); err != nil {
			return fmt.Errorf("failed to send OTP: %w", err)
		}
	} else {
		log.Printf("⚠️  SMS not configured - OTP for %s: %s", phone, code)
	}

	linkage, err := s.store.GetLinkage(psid)
	if err != nil {
		linkage = &models.AuthLinkage{PSID: psid}
	}

	expiry := time.Now().Add(otpExpiry)
	linkage.Phone = phone
	linkage.OTPToken = uuid.NewString()
	linkage.OTPCode = code
	linkage.OTPExpiresAt = &expiry
	linkage.OTPAttempts = 0

	return s.store.SaveLinkage(linkage)
}

// VerifyOTP checks the submitted code against the pending token.
// On success the transient OTP state is cleared and the linkage marked
// verified. Wrong codes keep the token intact until the attempt cap.
func (s *OTPService) VerifyOTP(psid string, code string) error {
	linkage, err := s.store.GetLinkage(psid)
	if err != nil || linkage.OTPToken == "" {
		return ErrNoPendingOTP
	}

	if linkage.OTPExpiresAt == nil || time.Now().After(*linkage.OTPExpiresAt) {
		linkage.ClearOTP()
		_ = s.store.SaveLinkage(linkage)
		return ErrOTPExpired
	}

	linkage.OTPAttempts++
	if linkage.OTPAttempts > otpMaxAttempts {
		linkage.ClearOTP()
		_ = s.store.SaveLinkage(linkage)
		return ErrTooManyAttempts
	}

	if linkage.OTPCode != code {
		if err := s.store.SaveLinkage(linkage); err != nil {
			return fmt.Errorf("failed to record OTP attempt: %w", err)
		}
		return ErrOTPMismatch
	}

	now := time.Now()
	linkage.ClearOTP()
	linkage.VerifiedAt = &now
	return s.store.SaveLinkage(linkage)
}

// LinkAccount records the resolved customer account on the linkage.
func (s *OTPService) LinkAccount(psid string, customerID string) error {
	linkage, err := s.store.GetLinkage(psid)
	if err != nil {
		return fmt.Errorf("linkage not found for %s", psid)
	}
	linkage.CustomerID = customerID
	return s.store.SaveLinkage(linkage)
}

// VerifiedLinkage returns the linkage if the user completed verification.
func (s *OTPService) VerifiedLinkage(psid string) (*models.AuthLinkage, bool) {
	linkage, err := s.store.GetLinkage(psid)
	if err != nil || !linkage.Verified() {
		return nil, false
	}
	return linkage, true
}
