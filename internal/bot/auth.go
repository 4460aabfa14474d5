package bot

import (
	"errors"

	"github.com/siamware/chatshop-backend/internal/services"
	"github.com/siamware/chatshop-backend/internal/utils"
)

// startAuth begins phone verification. Checkout always requires a
// verified phone, so this is the gate into the checkout sub-flow.
func (e *Engine) startAuth(session *Session) {
	session.Step = StepAwaitPhone
	e.send(session.UserID, services.PhoneRequestMessage(
		"To place your order we need to verify your phone number. Tap to share it, or type it in (e.g. 0812345678)."))
}

// handlePhone normalizes the number and requests an OTP. A provider
// failure keeps the user in await_phone with a retry prompt.
func (e *Engine) handlePhone(session *Session, raw string) {
	phone, err := utils.NormalizePhone(raw)
	if err != nil {
		e.send(session.UserID, services.TextMessage(
			"That doesn't look like a phone number. Please try again (e.g. 0812345678)."))
		return
	}

	if err := e.otp.RequestOTP(session.UserID, phone); err != nil {
		e.send(session.UserID, services.TextMessage(
			"We couldn't send a verification code right now. Please send your number again in a moment."))
		return
	}

	session.Step = StepAwaitOTP
	e.send(session.UserID, services.TextMessage(
		"We sent a 6-digit code to "+phone+". Please enter it here. It expires in 5 minutes."))
}

// handleOTP verifies the submitted code. A wrong code stays in
// await_otp with the stored token intact; expiry or too many attempts
// require restarting from the phone share.
func (e *Engine) handleOTP(session *Session, code string) {
	err := e.otp.VerifyOTP(session.UserID, code)
	switch {
	case err == nil:
		e.completeAuth(session)
	case errors.Is(err, services.ErrNoPendingOTP):
		e.send(session.UserID, services.TextMessage(
			"There's no verification in progress. Tap Checkout to start again."))
	case errors.Is(err, services.ErrOTPMismatch):
		e.send(session.UserID, services.TextMessage(
			"That code doesn't match. Please check the SMS and try again."))
	case errors.Is(err, services.ErrOTPExpired):
		session.Step = StepAwaitPhone
		e.send(session.UserID, services.PhoneRequestMessage(
			"That code has expired. Please share your phone number again to get a new one."))
	case errors.Is(err, services.ErrTooManyAttempts):
		session.Step = StepAwaitPhone
		e.send(session.UserID, services.PhoneRequestMessage(
			"Too many wrong attempts. Please share your phone number again to get a new code."))
	default:
		// Provider outage: state untouched so a retry is safe.
		e.send(session.UserID, services.TextMessage(
			"We couldn't verify the code right now. Please try again in a moment."))
	}
}

// completeAuth links the verified phone to a customer account and moves
// the user on to shipping details.
func (e *Engine) completeAuth(session *Session) {
	linkage, ok := e.otp.VerifiedLinkage(session.UserID)
	if !ok || linkage.Phone == "" {
		// Verification said yes but the linkage is gone; restart rather
		// than guessing.
		session.Step = StepAwaitPhone
		e.send(session.UserID, services.PhoneRequestMessage(
			"Something went wrong with verification. Please share your phone number again."))
		return
	}

	customer, err := e.accounts.FindOrCreateByPhone(linkage.Phone)
	if err != nil {
		e.send(session.UserID, services.TextMessage(
			"We couldn't look up your account right now. Please tap Checkout again in a moment."))
		return
	}
	if err := e.otp.LinkAccount(session.UserID, customer.CustomerID); err != nil {
		e.send(session.UserID, services.TextMessage(
			"We couldn't link your account right now. Please tap Checkout again in a moment."))
		return
	}

	session.Step = StepAskNameAddress
	e.askNameAddress(session)
}

func (e *Engine) askNameAddress(session *Session) {
	e.send(session.UserID, services.TextMessage(
		"Phone verified ✅\n\nPlease send your name and delivery address in one message, like:\n\nSomchai J.\n123 Sukhumvit Rd, Khlong Toei, Bangkok 10110"))
}
