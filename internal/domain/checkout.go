package domain

// CheckoutStatus is the terminal state of one checkout attempt.
type CheckoutStatus string

const (
	CheckoutRejected  CheckoutStatus = "rejected"
	CheckoutSubmitted CheckoutStatus = "submitted"
)

// EmptyCartMessage is the general error of a checkout on an empty cart.
const EmptyCartMessage = "Sorry, your cart is empty!"

// CheckoutOutcome is either Rejected with a reason and optional field errors,
// or Submitted with the stored order.
type CheckoutOutcome struct {
	Status      CheckoutStatus    `json:"status"`
	Reason      string            `json:"reason,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Order       *Order            `json:"order,omitempty"`
}

// Rejected builds a rejection outcome.
func Rejected(reason string, fieldErrors map[string]string) *CheckoutOutcome {
	return &CheckoutOutcome{Status: CheckoutRejected, Reason: reason, FieldErrors: fieldErrors}
}

// Submitted builds a success outcome.
func Submitted(order *Order) *CheckoutOutcome {
	return &CheckoutOutcome{Status: CheckoutSubmitted, Order: order}
}

// IsSubmitted reports whether the order was stored.
func (o *CheckoutOutcome) IsSubmitted() bool {
	return o.Status == CheckoutSubmitted
}
