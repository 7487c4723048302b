package events

// Topic constants for domain events emitted by the pricing core.
const (
	TopicOrderRecalculated = "order.recalculated"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderRecalculated,
	}
}
