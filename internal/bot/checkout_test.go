package bot

import (
	"strings"
	"testing"
)

// driveToConfirm walks a user through cart, auth, shipping and payment
// so the session sits at the confirmation prompt.
func driveToConfirm(t *testing.T, rig *testRig, userID string) {
	t.Helper()

	rig.engine.HandleEvent(Event{SenderID: userID, Payload: "PRODUCT_PRD00001", IsPostback: true})
	rig.engine.HandleEvent(Event{SenderID: userID, Text: "2"})
	rig.engine.HandleEvent(Event{SenderID: userID, Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: userID, Text: "0812345678"})
	linkage, err := rig.store.GetLinkage(userID)
	if err != nil {
		t.Fatalf("linkage missing: %v", err)
	}
	rig.engine.HandleEvent(Event{SenderID: userID, Text: linkage.OTPCode})
	rig.engine.HandleEvent(Event{SenderID: userID, Text: "Somchai J.\n123 Sukhumvit Rd, Bangkok 10110"})
	rig.engine.HandleEvent(Event{SenderID: userID, Payload: "PAY_cod", IsQuickReply: true})

	if step := rig.sessions.Get(userID).Step; step != StepConfirmOrder {
		t.Fatalf("setup failed: step = %s, want %s", step, StepConfirmOrder)
	}
}

func TestEmptyCartCheckoutDoesNotTransition(t *testing.T) {
	rig := newTestRig(t, simpleProduct())

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})

	if step := rig.sessions.Get("u1").Step; step != StepBrowse {
		t.Errorf("empty-cart checkout must not transition, step = %s", step)
	}
	if !strings.Contains(rig.sender.lastText(), "empty") {
		t.Errorf("expected empty-cart message, got %q", rig.sender.lastText())
	}
}

func TestOrderFailurePreservesCartAndStep(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	driveToConfirm(t, rig, "u1")

	rig.orders.fail = true
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadConfirmOrder, IsQuickReply: true})

	session := rig.sessions.Get("u1")
	if len(session.Cart) != 1 || session.Cart[0].Quantity != 2 {
		t.Errorf("failed order must preserve the cart, got %+v", session.Cart)
	}
	if session.Step != StepConfirmOrder {
		t.Errorf("failed order must preserve the step, got %s", session.Step)
	}
	if !strings.Contains(rig.sender.lastText(), "cart is safe") {
		t.Errorf("expected a retry-able failure message, got %q", rig.sender.lastText())
	}

	// Retry after the outage succeeds.
	rig.orders.fail = false
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadConfirmOrder, IsQuickReply: true})
	if len(rig.sessions.Get("u1").Cart) != 0 {
		t.Error("successful retry should clear the cart")
	}
}

func TestOrderSuccessClearsCartAndResetsStep(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	driveToConfirm(t, rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadConfirmOrder, IsQuickReply: true})

	session := rig.sessions.Get("u1")
	if len(session.Cart) != 0 {
		t.Errorf("cart not cleared after success: %+v", session.Cart)
	}
	if session.Step != StepBrowse {
		t.Errorf("step = %s, want %s", session.Step, StepBrowse)
	}
	if rig.orders.created != 1 {
		t.Errorf("expected exactly one order, got %d", rig.orders.created)
	}
	if !strings.Contains(rig.sender.lastText(), "ORD-TEST01") {
		t.Errorf("confirmation should carry the order reference, got %q", rig.sender.lastText())
	}
}

func TestOrderPayloadContents(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	driveToConfirm(t, rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadConfirmOrder, IsQuickReply: true})

	payload := rig.orders.last
	if payload == nil {
		t.Fatal("no payload captured")
	}
	if payload.CustomerName != "Somchai J." {
		t.Errorf("customer name = %q", payload.CustomerName)
	}
	if payload.CustomerPhone != "+66812345678" {
		t.Errorf("customer phone = %q", payload.CustomerPhone)
	}
	if payload.CustomerAddress != "123 Sukhumvit Rd, Bangkok 10110" {
		t.Errorf("customer address = %q", payload.CustomerAddress)
	}
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 2 {
		t.Errorf("items wrong: %+v", payload.Items)
	}
	// 2 × 120 + 2 × 20 shipping
	if payload.ShippingFee != 40 || payload.TotalAmount != 280 {
		t.Errorf("totals wrong: shipping=%v total=%v", payload.ShippingFee, payload.TotalAmount)
	}
	if payload.PaymentMethod != "cod" {
		t.Errorf("payment method = %q", payload.PaymentMethod)
	}
	if payload.AccountID == "" {
		t.Error("account id missing from payload")
	}
}

func TestNameAddressParsing(t *testing.T) {
	rig := newTestRig(t, simpleProduct())

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "PRODUCT_PRD00001", IsPostback: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "1"})
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})
	linkage, _ := rig.store.GetLinkage("u1")
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: linkage.OTPCode})

	// Unparseable: one token with no separator.
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "Somchai"})
	if step := rig.sessions.Get("u1").Step; step != StepAskNameAddress {
		t.Errorf("unparseable input must re-prompt in place, step = %s", step)
	}

	// Comma form works too.
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "Somchai J., 123 Sukhumvit Rd"})
	session := rig.sessions.Get("u1")
	if session.Step != StepAskPayment {
		t.Fatalf("step = %s, want %s", session.Step, StepAskPayment)
	}
	if session.Pending.Name != "Somchai J." || session.Pending.Address != "123 Sukhumvit Rd" {
		t.Errorf("parsed name=%q address=%q", session.Pending.Name, session.Pending.Address)
	}
}

func TestBankTransferRequiresSlip(t *testing.T) {
	rig := newTestRig(t, simpleProduct())

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "PRODUCT_PRD00001", IsPostback: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "1"})
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "0812345678"})
	linkage, _ := rig.store.GetLinkage("u1")
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: linkage.OTPCode})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "Somchai J.\n123 Sukhumvit Rd"})
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "PAY_transfer", IsQuickReply: true})

	if step := rig.sessions.Get("u1").Step; step != StepAwaitSlip {
		t.Fatalf("transfer should await a slip, step = %s", step)
	}

	// Free text while awaiting the slip re-prompts.
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "done"})
	if step := rig.sessions.Get("u1").Step; step != StepAwaitSlip {
		t.Errorf("text must not satisfy the slip step, step = %s", step)
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", AttachmentURL: "https://cdn.example/slip.jpg"})
	session := rig.sessions.Get("u1")
	if session.Step != StepConfirmOrder {
		t.Fatalf("slip upload should reach confirmation, step = %s", session.Step)
	}
	if session.Pending.SlipRef == "" {
		t.Error("slip reference not recorded")
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadConfirmOrder, IsQuickReply: true})
	if rig.orders.last == nil || rig.orders.last.PaymentSlipRef == "" {
		t.Error("slip reference missing from order payload")
	}
}

func TestCancelKeepsCart(t *testing.T) {
	rig := newTestRig(t, simpleProduct())
	driveToConfirm(t, rig, "u1")

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCancelOrder, IsQuickReply: true})

	session := rig.sessions.Get("u1")
	if len(session.Cart) != 1 {
		t.Errorf("cancel must keep the cart, got %d lines", len(session.Cart))
	}
	if session.Step != StepSummary {
		t.Errorf("step = %s, want %s", session.Step, StepSummary)
	}
}

// End-to-end: greeting → browse → variant selection → cart → checkout
// gate for an unverified phone.
func TestBrowseToCheckoutScenario(t *testing.T) {
	rig := newTestRig(t, variantProduct())

	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "สวัสดี"})
	if !rig.sender.sawCarousel() {
		t.Fatal("greeting should show the product browser")
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "PRODUCT_PRD00002", IsPostback: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "UNIT_1", IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: "OPTION_1", IsQuickReply: true})
	rig.engine.HandleEvent(Event{SenderID: "u1", Text: "3"})

	session := rig.sessions.Get("u1")
	if len(session.Cart) != 1 {
		t.Fatalf("expected 1 line, got %d", len(session.Cart))
	}
	line := session.Cart[0]
	if line.Price != 700 || line.Quantity != 3 || line.SelectedOptions["Color"] != "Cream" {
		t.Errorf("line = %+v", line)
	}

	rig.engine.HandleEvent(Event{SenderID: "u1", Payload: PayloadCheckout, IsQuickReply: true})
	if step := rig.sessions.Get("u1").Step; step != StepAwaitPhone {
		t.Errorf("unverified checkout should land in await_phone, got %s", step)
	}
}
