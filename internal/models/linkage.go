package models

import (
	"time"

	"gorm.io/gorm"
)

// AuthLinkage maps a messaging-platform sender id to a phone number and,
// once OTP-verified, to a customer account. It also carries the transient
// OTP state while verification is in flight.
type AuthLinkage struct {
	gorm.Model
	PSID       string `gorm:"column:psid;uniqueIndex;not null"` // messaging-platform sender id
	Phone      string `gorm:"index"`
	CustomerID string

	// Transient OTP state; cleared after successful verification.
	OTPToken     string
	OTPCode      string
	OTPExpiresAt *time.Time
	OTPAttempts  int `gorm:"default:0"`

	VerifiedAt *time.Time
}

// Verified reports whether this linkage has completed phone verification.
func (l *AuthLinkage) Verified() bool {
	return l.VerifiedAt != nil && l.CustomerID != ""
}

// ClearOTP drops the pending OTP state.
func (l *AuthLinkage) ClearOTP() {
	l.OTPToken = ""
	l.OTPCode = ""
	l.OTPExpiresAt = nil
	l.OTPAttempts = 0
}
