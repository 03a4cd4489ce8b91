package audit

import "time"

// Типы сущностей, попадающих в аудит
const (
	EntityDocument = "document"
	EntityRisk     = "risk"
)

type AuditEvent struct {
	ID         string `json:"id"`          // UUID события
	EntityType string `json:"entity_type"` // document | risk
	EntityID   string `json:"entity_id"`   // HRSD-... или PERFO-001
	Action     string `json:"action"`      // transition, submit, approve, reject, create, generate

	// Контекст решения
	Status string `json:"status"` // Целевой статус после действия
	Notes  string `json:"notes"`
	Actor  string `json:"actor"`

	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"` // Время обработки
	Error      string    `json:"error"`
}
