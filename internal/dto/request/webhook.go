package request

// Events below are the distilled form of the Stripe payloads the webhook
// handler cares about. The adaptor builds them from the raw event and the
// services stay free of Stripe types.

type CheckoutCompletedEvent struct {
	SessionID     string
	TransactionID string
	ReferenceID   string
	Email         *string
	CustomerName  *string
	AmountTotal   int64
}

type TransferCreatedEvent struct {
	ReferenceID string
	TransferID  string
}

type ChargeRefundedEvent struct {
	ReferenceID string
	ChargeID    string
}
