package models

// Order is the payment order created by the backend before the checkout
// widget is opened. Amount is expressed in minor currency units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentConfirmation is what the checkout widget hands back on success and
// what the backend verifies.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	PlanName  string `json:"planName"`
}
