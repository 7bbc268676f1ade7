package order

// Lifecycle event types published to the order event stream.
const (
	EventOrderCreated     = "order.created"
	EventPaymentCompleted = "payment.completed"
	EventPaymentExpired   = "payment.expired"
)

const (
	TopicOrdersCreated     = "workerbull.orders.created"
	TopicPaymentsCompleted = "workerbull.payments.completed"
	TopicPaymentsExpired   = "workerbull.payments.expired"
)

func topicFor(eventType string) string {
	switch eventType {
	case EventPaymentCompleted:
		return TopicPaymentsCompleted
	case EventPaymentExpired:
		return TopicPaymentsExpired
	default:
		return TopicOrdersCreated
	}
}
