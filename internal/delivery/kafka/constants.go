package kafka

const (
	TopicCustomerJoined   = "waitlist.customer.joined"
	TopicTableReady       = "waitlist.customer.table_ready"
	TopicCustomerSeated   = "waitlist.customer.seated"
	TopicCustomerDeparted = "waitlist.customer.departed"

	TopicTableCleared = "host.table.cleared"
	TopicNoShow       = "host.customer.no_show"
)
