package bot

import (
	"strings"
	"testing"

	"github.com/siamware/chatshop-backend/internal/models"
)

func addLine(rig *testRig, userID string) {
	rig.sessions.AddCartLine(userID, models.CartLine{
		ProductID: "PRD00001", Name: "Cold Brew Bottle", Price: 120, Quantity: 1, ShippingFee: 20,
	})
}

func TestCheckoutWithUnverifiedPhoneEntersAuth(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitPhone {
		t.Errorf("step = %s, want %s", step, StepAwaitPhone)
	}
}

func TestPhoneOtpRoundTrip(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitOTP {
		t.Fatalf("after phone: step = %s, want %s", step, StepAwaitOTP)
	}

	linkage, err := rig.store.GetLinkage("u1")
	if err != nil {
		t.Fatalf("linkage not persisted: %v", err)
	}
	if linkage.Phone != "+66812345678" {
		t.Errorf("phone not normalized: %q", linkage.Phone)
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", Text: linkage.OTPCode})

	if step := rig.sessions.Get("u1").Step; step != StepAskNameAddress {
		t.Fatalf("after OTP: step = %s, want %s", step, StepAskNameAddress)
	}

	linkage, _ = rig.store.GetLinkage("u1")
	if linkage.OTPToken != "" || linkage.OTPCode != "" {
		t.Error("OTP token must be cleared after verification")
	}
	if linkage.CustomerID == "" {
		t.Error("customer account not linked")
	}

	customer, err := rig.store.GetCustomerByPhone("+66812345678")
	if err != nil {
		t.Fatalf("account not created: %v", err)
	}
	if customer.Name != models.DefaultCustomerName {
		t.Errorf("new account name = %q, want default", customer.Name)
	}
}

func TestWrongOtpDoesNotAdvance(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})

	linkage, _ := rig.store.GetLinkage("u1")
	wrong := "000000"
	if wrong == linkage.OTPCode {
		wrong = "000001"
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", Text: wrong})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitOTP {
		t.Errorf("wrong code moved step to %s", step)
	}
	linkage, _ = rig.store.GetLinkage("u1")
	if linkage.OTPToken == "" {
		t.Fatal("token must survive a wrong code")
	}

	// The correct code still works afterwards.
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: linkage.OTPCode})
	if step := rig.sessions.Get("u1").Step; step != StepAskNameAddress {
		t.Errorf("correct code after a miss should advance, step = %s", step)
	}
}

func TestOtpWithoutPendingRequest(t *testing.T) {
	rig := newTestRig(t, simpleProduct())

	session := rig.sessions.Get("u1")
	session.Step = StepAwaitOTP
	rig.sessions.Save(session)

	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "123456"})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitOTP {
		t.Errorf("no-pending case must not auto-transition, step = %s", step)
	}
	if !strings.Contains(rig.sender.lastText(), "no verification") {
		t.Errorf("expected a no-request message, got %q", rig.sender.lastText())
	}
}

func TestOtpRequestFailureStaysInAwaitPhone(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")
	rig.engine.otp = &failingOTP{OTPProvider: rig.otp}

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitPhone {
		t.Errorf("failed OTP request must stay in await_phone, step = %s", step)
	}
	if !strings.Contains(rig.sender.lastText(), "couldn't send") {
		t.Errorf("expected a retry prompt, got %q", rig.sender.lastText())
	}
}

func TestInvalidPhoneReprompts(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "not a phone"})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitPhone {
		t.Errorf("invalid phone must stay in await_phone, step = %s", step)
	}
}

func TestVerifiedUserSkipsAuthOnCheckout(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	addLine(rig, "u1")

	// Verify once.
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})
	linkage, _ := rig.store.GetLinkage("u1")
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: linkage.OTPCode})

	// A later checkout goes straight to shipping details.
	session := rig.sessions.Get("u1")
	session.Step = StepSummary
	rig.sessions.Save(session)

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	if step := rig.sessions.Get("u1").Step; step != StepAskNameAddress {
		t.Errorf("verified user should skip auth, step = %s", step)
	}
}
