package domain

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&Package{},
		&Studio{},
		&AdditionalService{},
		&Lead{},
		&DiscountCode{},
		&Booking{},
		&BookingAdditionalService{},
		&Payment{},
		&PaymentLink{},
		&WebhookEvent{},
	}
}
