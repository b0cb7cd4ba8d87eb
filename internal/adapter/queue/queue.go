package queue

// Subjects carried on the queue. Consumers today: the websocket hub (live
// dashboard updates) and the alert notifier.
const (
	SubjectEmissionsIngested = "emissions.ingested"
	SubjectAlertRaised       = "alerts.raised"
	SubjectReportGenerated   = "reports.generated"
)

// MessageQueue is the broker abstraction; NATS in production, RabbitMQ as a
// config-selected alternative.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
