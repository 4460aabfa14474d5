package bot

import (
	"fmt"
	"strings"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/services"
)

// startCheckout gates checkout behind a verified phone. An empty cart
// is reported without any transition.
func (e *Engine) startCheckout(session *Session) {
	if len(session.Cart) == 0 {
		e.send(session.UserID, services.QuickReplyMessage(
			"Your cart is empty. Add something first!",
			services.Choice("Browse products", PayloadShowProducts)))
		return
	}

	if linkage, ok := e.otp.VerifiedLinkage(session.UserID); ok && linkage.Phone != "" {
		session.Step = StepAskNameAddress
		e.askNameAddress(session)
		return
	}
	e.startAuth(session)
}

// handleNameAddress parses the combined "name + address" message. The
// first line (or the part before the first comma) is the name, the rest
// the address. Unparseable input gets a template re-prompt.
func (e *Engine) handleNameAddress(session *Session, text string) {
	name, address, ok := splitNameAddress(text)
	if !ok {
		e.send(session.UserID, services.TextMessage(
			"Please send your name and address in one message, like:\n\nSomchai J.\n123 Sukhumvit Rd, Khlong Toei, Bangkok 10110"))
		return
	}

	session.Pending.Name = name
	session.Pending.Address = address
	session.Step = StepAskPayment

	e.send(session.UserID, services.TextMessage(e.checkoutSummary(session)))
	e.send(session.UserID, services.QuickReplyMessage(
		"How would you like to pay?",
		services.Choice("Cash on delivery", PayloadPaymentPrefix+models.PaymentMethodCOD),
		services.Choice("Bank transfer", PayloadPaymentPrefix+models.PaymentMethodTransfer)))
}

// splitNameAddress separates a combined name+address message.
func splitNameAddress(text string) (name string, address string, ok bool) {
	text = strings.TrimSpace(text)

	if idx := strings.IndexAny(text, "\n"); idx > 0 {
		name = strings.TrimSpace(text[:idx])
		address = strings.TrimSpace(text[idx+1:])
	} else if idx := strings.Index(text, ","); idx > 0 {
		name = strings.TrimSpace(text[:idx])
		address = strings.TrimSpace(text[idx+1:])
	}

	if name == "" || address == "" {
		return "", "", false
	}
	return name, address, true
}

// handlePayment records the chosen method. Bank transfer detours
// through slip upload; cash on delivery goes straight to confirmation.
func (e *Engine) handlePayment(session *Session, method string) {
	switch method {
	case models.PaymentMethodCOD:
		session.Pending.PaymentMethod = models.PaymentMethodCOD
		e.askConfirm(session)
	case models.PaymentMethodTransfer:
		session.Pending.PaymentMethod = models.PaymentMethodTransfer
		session.Step = StepAwaitSlip
		e.send(session.UserID, services.TextMessage(
			fmt.Sprintf("Please transfer ฿%.2f to:\n\nKasikorn Bank 123-4-56789-0\nChatShop Co., Ltd.\n\nThen send a photo of your transfer slip here.",
				services.OrderTotal(session.Cart, 0))))
	default:
		e.send(session.UserID, services.QuickReplyMessage(
			"Please choose a payment method:",
			services.Choice("Cash on delivery", PayloadPaymentPrefix+models.PaymentMethodCOD),
			services.Choice("Bank transfer", PayloadPaymentPrefix+models.PaymentMethodTransfer)))
	}
}

// handleSlip records the uploaded payment-slip reference.
func (e *Engine) handleSlip(session *Session, attachmentURL string) {
	session.Pending.SlipRef = attachmentURL
	e.askConfirm(session)
}

func (e *Engine) askConfirm(session *Session) {
	session.Step = StepConfirmOrder
	e.send(session.UserID, services.TextMessage(e.checkoutSummary(session)))
	e.send(session.UserID, services.QuickReplyMessage(
		"Everything correct?",
		services.Choice("✅ Confirm order", PayloadConfirmOrder),
		services.Choice("❌ Cancel", PayloadCancelOrder)))
}

// checkoutSummary renders the cart, shipping info and totals.
func (e *Engine) checkoutSummary(session *Session) string {
	var b strings.Builder
	b.WriteString("🧾 Order summary\n\n")
	for _, line := range session.Cart {
		b.WriteString(formatCartLine(line))
		b.WriteString("\n")
	}
	shipping := services.ComputeShippingFee(session.Cart)
	total := services.OrderTotal(session.Cart, 0)
	fmt.Fprintf(&b, "\nSubtotal: ฿%.2f\nShipping: ฿%.2f\nTotal: ฿%.2f\n", models.CartSubtotal(session.Cart), shipping, total)
	if session.Pending.Name != "" {
		fmt.Fprintf(&b, "\nDeliver to: %s\n%s\n", session.Pending.Name, session.Pending.Address)
	}
	return b.String()
}

func formatCartLine(line models.CartLine) string {
	desc := line.Name
	if line.UnitLabel != "" {
		desc += " (" + line.UnitLabel + ")"
	}
	if len(line.SelectedOptions) > 0 {
		var opts []string
		for name, value := range line.SelectedOptions {
			opts = append(opts, name+": "+value)
		}
		desc += " [" + strings.Join(opts, ", ") + "]"
	}
	return fmt.Sprintf("• %s ×%d — ฿%.2f", desc, line.Quantity, line.LineTotal())
}

// finalizeOrder builds the order payload and calls the order API.
// On failure the cart and step are left untouched so the user can
// retry; on success the cart is cleared and the step reset to browse.
// This is the core correctness property of checkout: a transient error
// must never silently lose the user's order intent.
func (e *Engine) finalizeOrder(session *Session) {
	if len(session.Cart) == 0 {
		e.showProducts(session, "")
		return
	}

	linkage, _ := e.otp.VerifiedLinkage(session.UserID)
	phone := ""
	accountID := ""
	if linkage != nil {
		phone = linkage.Phone
		accountID = linkage.CustomerID
	}

	payload := &services.OrderPayload{
		CustomerName:    session.Pending.Name,
		CustomerPhone:   phone,
		CustomerAddress: session.Pending.Address,
		ShippingFee:     services.ComputeShippingFee(session.Cart),
		Discount:        0,
		TotalAmount:     services.OrderTotal(session.Cart, 0),
		AccountID:       accountID,
		PaymentMethod:   session.Pending.PaymentMethod,
		PaymentSlipRef:  session.Pending.SlipRef,
	}
	for _, line := range session.Cart {
		payload.Items = append(payload.Items, services.OrderItemPayload{
			ProductID:       line.ProductID,
			Name:            line.Name,
			Price:           line.Price,
			Quantity:        line.Quantity,
			SelectedOptions: line.SelectedOptions,
			UnitLabel:       line.UnitLabel,
			UnitPrice:       line.UnitPrice,
		})
	}

	orderRef, err := e.orders.CreateOrder(payload)
	if err != nil {
		e.send(session.UserID, services.QuickReplyMessage(
			"Sorry, we couldn't place your order. Your cart is safe — please try again.",
			services.Choice("Try again", PayloadConfirmOrder),
			services.Choice("Cancel", PayloadCancelOrder)))
		return
	}

	session.Cart = nil
	session.ResetPending()
	session.Step = StepBrowse
	e.send(session.UserID, services.TextMessage(
		fmt.Sprintf("🎉 Order placed! Your reference is %s.\nWe'll message you when it ships. Thank you!", orderRef)))
}

// cancelCheckout abandons the in-progress checkout but keeps the cart.
func (e *Engine) cancelCheckout(session *Session) {
	session.ResetPending()
	if len(session.Cart) > 0 {
		session.Step = StepSummary
		e.send(session.UserID, services.TextMessage("Checkout cancelled. Your cart is untouched."))
		e.showSummary(session)
		return
	}
	session.Step = StepBrowse
	e.send(session.UserID, services.TextMessage("Checkout cancelled."))
	e.showProducts(session, "")
}

// showSummary renders the cart with checkout affordances.
func (e *Engine) showSummary(session *Session) {
	if len(session.Cart) == 0 {
		e.send(session.UserID, services.QuickReplyMessage(
			"Your cart is empty.",
			services.Choice("Browse products", PayloadShowProducts)))
		return
	}

	session.Step = StepSummary
	e.send(session.UserID, services.QuickReplyMessage(
		e.checkoutSummary(session),
		services.Choice("Checkout", PayloadCheckout),
		services.Choice("Edit cart", PayloadShowCart),
		services.Choice("Keep shopping", PayloadShowProducts)))
}

// showCart renders each line as a card with per-line edit affordances.
// Edits target a line by its index, not by re-running the whole flow.
func (e *Engine) showCart(session *Session) {
	if len(session.Cart) == 0 {
		e.send(session.UserID, services.QuickReplyMessage(
			"Your cart is empty.",
			services.Choice("Browse products", PayloadShowProducts)))
		return
	}

	cards := make([]services.CarouselCard, 0, len(session.Cart))
	for i, line := range session.Cart {
		cards = append(cards, services.CarouselCard{
			Title:    line.Name,
			Subtitle: formatCartLine(line),
			Buttons: []services.Button{
				services.PostbackButton("Change quantity", fmt.Sprintf("%s%d", PayloadEditQtyPrefix, i)),
				services.PostbackButton("Change options", fmt.Sprintf("%s%d", PayloadEditOptPrefix, i)),
			},
		})
	}

	session.Step = StepSummary
	e.send(session.UserID, services.CarouselMessage(cards...))
	e.send(session.UserID, services.QuickReplyMessage(
		fmt.Sprintf("Total: ฿%.2f", services.OrderTotal(session.Cart, 0)),
		services.Choice("Checkout", PayloadCheckout),
		services.Choice("Keep shopping", PayloadShowProducts)))
}
