package bot

import (
	"log"
	"strings"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/services"
)

// Catalog provides product listings for the browsing flow.
type Catalog interface {
	AllProducts() ([]*models.Product, error)
	ProductByID(id string) (*models.Product, error)
	Categories() ([]string, error)
}

// OTPProvider issues and verifies phone-ownership codes.
// VerifyOTP failures are reported through the sentinel errors in the
// services package.
type OTPProvider interface {
	RequestOTP(userID string, phone string) error
	VerifyOTP(userID string, code string) error
	LinkAccount(userID string, customerID string) error
	VerifiedLinkage(userID string) (*models.AuthLinkage, bool)
}

// AccountResolver finds or creates customer accounts by phone.
type AccountResolver interface {
	FindOrCreateByPhone(phone string) (*models.Customer, error)
}

// OrderCreator submits a finalized order and returns its reference.
type OrderCreator interface {
	CreateOrder(payload *services.OrderPayload) (string, error)
}

// Sender delivers outbound messages. Best-effort: the engine logs
// failures and moves on.
type Sender interface {
	Send(userID string, msg services.Message) error
}

// Engine is the conversational dialogue engine. One instance serves all
// users; per-user event handling is serialized through the session
// store's lock so the webhook layer may dispatch events concurrently.
type Engine struct {
	sessions SessionStore
	catalog  Catalog
	otp      OTPProvider
	accounts AccountResolver
	orders   OrderCreator
	sender   Sender
}

// NewEngine wires the dialogue engine to its collaborators
func NewEngine(sessions SessionStore, catalog Catalog, otp OTPProvider, accounts AccountResolver, orders OrderCreator, sender Sender) *Engine {
	return &Engine{
		sessions: sessions,
		catalog:  catalog,
		otp:      otp,
		accounts: accounts,
		orders:   orders,
		sender:   sender,
	}
}

// HandleEvent is the entry point for every inbound messaging event.
// Events for the same user are handled one at a time; this must not
// rely on the platform serializing webhook delivery.
func (e *Engine) HandleEvent(ev Event) {
	if ev.IsEcho || ev.IsReceipt {
		return
	}
	if ev.SenderID == "" {
		return
	}

	unlock := e.sessions.Lock(ev.SenderID)
	defer unlock()

	session := e.sessions.Get(ev.SenderID)

	switch {
	case ev.Payload != "":
		e.handlePayload(session, ev.Payload)
	case ev.AttachmentURL != "" && session.Step == StepAwaitSlip:
		e.handleSlip(session, ev.AttachmentURL)
	default:
		e.handleText(session, ev.Text)
	}

	e.sessions.Save(session)
}

// handlePayload routes postback/quick-reply payloads. These are matched
// by exact value or prefix and are legal regardless of the current step.
func (e *Engine) handlePayload(session *Session, payload string) {
	switch payload {
	case PayloadReset:
		e.reset(session)
		return
	case PayloadShowCategories:
		e.showCategories(session)
		return
	case PayloadShowProducts:
		e.showProducts(session, "")
		return
	case PayloadShowCart:
		e.showCart(session)
		return
	case PayloadCheckout:
		e.startCheckout(session)
		return
	case PayloadConfirmOrder:
		e.finalizeOrder(session)
		return
	case PayloadCancelOrder:
		e.cancelCheckout(session)
		return
	}

	switch {
	case strings.HasPrefix(payload, PayloadCategoryPrefix):
		e.showProducts(session, strings.TrimPrefix(payload, PayloadCategoryPrefix))
	case strings.HasPrefix(payload, PayloadProductPrefix):
		e.selectProduct(session, strings.TrimPrefix(payload, PayloadProductPrefix))
	case strings.HasPrefix(payload, PayloadUnitPrefix):
		e.selectUnit(session, strings.TrimPrefix(payload, PayloadUnitPrefix))
	case strings.HasPrefix(payload, PayloadOptionPrefix):
		e.selectOption(session, strings.TrimPrefix(payload, PayloadOptionPrefix))
	case strings.HasPrefix(payload, PayloadEditQtyPrefix):
		e.editLineQuantity(session, strings.TrimPrefix(payload, PayloadEditQtyPrefix))
	case strings.HasPrefix(payload, PayloadEditOptPrefix):
		e.editLineOptions(session, strings.TrimPrefix(payload, PayloadEditOptPrefix))
	case strings.HasPrefix(payload, PayloadQtyPrefix):
		e.handleQuantity(session, strings.TrimPrefix(payload, PayloadQtyPrefix))
	case strings.HasPrefix(payload, PayloadPaymentPrefix):
		e.handlePayment(session, strings.TrimPrefix(payload, PayloadPaymentPrefix))
	case session.Step == StepAwaitPhone:
		// The structured phone share arrives as a quick-reply payload.
		e.handlePhone(session, payload)
	default:
		log.Printf("Unknown payload %q from %s", payload, session.UserID)
		e.showProducts(session, "")
	}
}

// handleText interprets free text according to the current step. The
// flow never dead-ends: anything unrecognized re-shows the browser.
func (e *Engine) handleText(session *Session, text string) {
	text = strings.TrimSpace(text)

	if isResetKeyword(text) {
		e.reset(session)
		return
	}

	switch session.Step {
	case StepAwaitPhone:
		e.handlePhone(session, text)
	case StepAwaitOTP:
		if isDigits(text) {
			e.handleOTP(session, text)
		} else {
			e.send(session.UserID, services.TextMessage("Please enter the 6-digit code we sent to your phone."))
		}
	case StepAskQuantity:
		e.handleQuantity(session, text)
	case StepAskNameAddress:
		e.handleNameAddress(session, text)
	case StepAwaitSlip:
		e.send(session.UserID, services.TextMessage("Please send a photo of your transfer slip, or tap Cancel."))
	default:
		e.showProducts(session, "")
	}
}

// reset clears the session entirely and lands the user back in a fresh
// browser.
func (e *Engine) reset(session *Session) {
	e.sessions.Clear(session.UserID)
	fresh := e.sessions.Get(session.UserID)
	*session = *fresh
	e.send(session.UserID, services.TextMessage("Okay, starting over. Your cart has been cleared."))
	e.showProducts(session, "")
}

// send delivers one outbound message, logging failures. Delivery is
// best-effort; there is no secondary channel to surface send errors.
func (e *Engine) send(userID string, msg services.Message) {
	if e.sender == nil {
		return
	}
	if err := e.sender.Send(userID, msg); err != nil {
		log.Printf("Failed to send message to %s: %v", userID, err)
	}
}
