// Event payloads published to Kafka. They deliberately carry only
// aggregate redaction counts, never raw PII or original substrings.
package models

// RunCompleted announces a finished pipeline run.
type RunCompleted struct {
	EventType        string         `json:"eventType"`
	RunID            string         `json:"runId"`
	InputName        string         `json:"inputName"`
	Timestamp        int64          `json:"timestamp"`
	TrustScore       string         `json:"trustScore"`
	TrustLevel       TrustLevel     `json:"trustLevel"`
	RedactionCounts  map[string]int `json:"redactionCounts"`
	SummarySkipped   bool           `json:"summarySkipped"`
	SummaryAudioFile string         `json:"summaryAudioFile"`
	AuditLogFile     string         `json:"auditLogFile,omitempty"`
}
