package payment

// Method describes one way to pay offered at checkout
type Method struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Available   bool     `json:"available"`
	Banks       []string `json:"banks,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// Methods returns the payment-method catalog keyed by method code
func Methods() map[string]Method {
	return map[string]Method{
		"upi": {
			Name:        "UPI",
			Description: "Pay using any UPI app (Google Pay, PhonePe, Paytm, etc.)",
			Icon:        "📱",
			Available:   true,
		},
		"netbanking": {
			Name:        "Net Banking",
			Description: "Pay using your bank account",
			Icon:        "🏦",
			Available:   true,
			Banks: []string{
				"State Bank of India",
				"HDFC Bank",
				"ICICI Bank",
				"Axis Bank",
				"Punjab National Bank",
				"Bank of Baroda",
				"Canara Bank",
				"Union Bank of India",
			},
		},
		"cards": {
			Name:        "Debit/Credit Cards",
			Description: "Visa, Mastercard, RuPay",
			Icon:        "💳",
			Available:   true,
		},
		"wallets": {
			Name:        "Digital Wallets",
			Description: "Paytm, PhonePe, Amazon Pay",
			Icon:        "💰",
			Available:   true,
		},
		"cod": {
			Name:        "Cash on Delivery",
			Description: "Pay when your order is delivered",
			Icon:        "🚚",
			Available:   true,
			Note:        "Available for orders within West Bengal",
		},
	}
}
