package models

import "encoding/json"

type Donor struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

type Donation struct {
	ID        string  `json:"id,omitempty"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	Donor     *Donor  `json:"donor,omitempty"`
	Anonymous bool    `json:"anonymous"`
	OrderID   string  `json:"orderId,omitempty"`
	PaymentID string  `json:"paymentId,omitempty"`
	Signature string  `json:"signature,omitempty"`
	Status    string  `json:"status,omitempty"`
	CreatedAt *Date   `json:"createdAt,omitempty"`
}

func (d *Donation) UnmarshalJSON(b []byte) error {
	type alias Donation
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = aux.MongoID
	}
	return nil
}

// DonorName hides the donor for anonymous gifts.
func (d Donation) DonorName() string {
	if d.Anonymous || d.Donor == nil || d.Donor.Name == "" {
		return "Anonymous"
	}
	return d.Donor.Name
}

// OrderRequest asks the backend to open a payment-provider order.
type OrderRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency,omitempty"`
	Donor     *Donor  `json:"donor,omitempty"`
	Anonymous bool    `json:"anonymous"`
}

// Order is the payment-provider order handed to the checkout widget.
// Amount is in the provider's minor unit.
type Order struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt,omitempty"`
	Key      string  `json:"key,omitempty"`
}

func (o *Order) UnmarshalJSON(b []byte) error {
	type alias Order
	aux := struct {
		*alias
		OrderID string `json:"orderId"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = aux.OrderID
	}
	return nil
}

// PaymentVerification carries the identifiers returned by the checkout
// callback back to the backend for signature verification.
type PaymentVerification struct {
	OrderID   string  `json:"razorpay_order_id"`
	PaymentID string  `json:"razorpay_payment_id"`
	Signature string  `json:"razorpay_signature"`
	Amount    float64 `json:"amount,omitempty"`
	Donor     *Donor  `json:"donor,omitempty"`
	Anonymous bool    `json:"anonymous"`
}

type VerificationResult struct {
	Success  *bool     `json:"success,omitempty"`
	Message  string    `json:"message,omitempty"`
	Donation *Donation `json:"donation,omitempty"`
}

// Verified treats a missing success flag as success; the HTTP status has
// already been checked by then.
func (v VerificationResult) Verified() bool {
	return v.Success == nil || *v.Success
}

type DonationProgress struct {
	Total float64 `json:"total"`
	Goal  float64 `json:"goal"`
}

// Percent of goal reached, capped at 100. Zero when no goal is set.
func (p DonationProgress) Percent() float64 {
	if p.Goal <= 0 {
		return 0
	}
	pct := p.Total / p.Goal * 100
	if pct > 100 {
		return 100
	}
	return pct
}
