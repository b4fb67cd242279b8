package msg

type EventCode uint

const (
	// A ticket has been promoted into a slot. Broadcast to every
	// connected client, each one filters by its own ticket id.
	QueueReadyCode EventCode = 1000

	// Periodic queue observation.
	QueueStatsCode EventCode = 1001
)

type QueueReadyServerEvent struct {
	TicketId string `json:"ticketId"`
}

type QueueStatsServerEvent struct {
	LineLength  int64 `json:"lineLength"`
	ActiveCount int64 `json:"activeCount"`
	AvgWaitMsec int64 `json:"avgWaitMsec"`
}
