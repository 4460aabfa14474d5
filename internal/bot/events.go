package bot

import "strings"

// Event is one normalized inbound messaging event.
type Event struct {
	SenderID string
	Text     string
	// Payload carries the postback or quick-reply payload, empty for
	// plain free text.
	Payload      string
	IsPostback   bool
	IsQuickReply bool
	// IsEcho marks the bot's own outbound messages echoed back.
	IsEcho bool
	// IsReceipt marks delivery/read receipts.
	IsReceipt bool
	// AttachmentURL is the first image attachment, if any (payment slips).
	AttachmentURL string
}

// Postback and quick-reply payloads. Prefixed payloads carry an index
// or identifier after the prefix.
const (
	PayloadShowCategories = "SHOW_CATEGORIES"
	PayloadShowProducts   = "SHOW_PRODUCTS"
	PayloadShowCart       = "SHOW_CART"
	PayloadCheckout       = "CHECKOUT"
	PayloadConfirmOrder   = "CONFIRM_ORDER"
	PayloadCancelOrder    = "CANCEL_ORDER"
	PayloadReset          = "RESET"

	PayloadCategoryPrefix = "CATEGORY_"
	PayloadProductPrefix  = "PRODUCT_"
	PayloadUnitPrefix     = "UNIT_"
	PayloadOptionPrefix   = "OPTION_"
	PayloadQtyPrefix      = "QTY_"
	PayloadPaymentPrefix  = "PAY_"
	PayloadEditQtyPrefix  = "EDIT_QTY_"
	PayloadEditOptPrefix  = "EDIT_OPT_"
)

// resetKeywords are free-text commands that clear the session from any step.
var resetKeywords = []string{"reset", "restart", "cancel", "ยกเลิก", "เริ่มใหม่"}

func isResetKeyword(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, keyword := range resetKeywords {
		if text == keyword {
			return true
		}
	}
	return false
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
