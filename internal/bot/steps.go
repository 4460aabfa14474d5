package bot

// Step names the current position in the dialogue state machine.
// The step fully determines which free-text inputs are legal next;
// anything else either falls back to the product browser or is ignored.
type Step string

const (
	StepBrowse         Step = "browse"
	StepAwaitPhone     Step = "await_phone"
	StepAwaitOTP       Step = "await_otp"
	StepAskNameAddress Step = "ask_name_address"
	StepSelectUnit     Step = "select_unit"
	StepSelectOption   Step = "select_option"
	StepAskQuantity    Step = "ask_quantity"
	StepAskPayment     Step = "await_payment_method"
	StepAwaitSlip      Step = "await_slip"
	StepConfirmOrder   Step = "confirm_order"
	StepSummary        Step = "summary"
)
