package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
)

func (r *Repo) WriteBatch(ctx context.Context, events []audit.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Количество колонок в таблице audit_logs
	numFields := 10
	placeholderStr := ""
	vals := make([]interface{}, 0, len(events)*numFields)

	// Динамически строим запрос для пакетной вставки
	for i, e := range events {
		p := i * numFields
		placeholderStr += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d),",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8, p+9, p+10)

		vals = append(vals,
			e.ID, e.EntityType, e.EntityID, e.Action,
			e.Status, e.Notes, e.Actor, e.DurationMs, e.Error, e.Timestamp,
		)
	}

	// Убираем лишнюю запятую в конце
	query := fmt.Sprintf(
		"INSERT INTO audit_logs (id, entity_type, entity_id, action, status, notes, actor, duration_ms, error, timestamp) VALUES %s",
		strings.TrimSuffix(placeholderStr, ","),
	)

	_, err := r.pool.Exec(ctx, query, vals...)
	return err
}

// GetRecentAuditEvents — последние записи журнала для консоли
func (r *Repo) GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, entity_type, entity_id, action, status, notes, actor, duration_ms, error, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query audit logs: %w", err)
	}
	defer rows.Close()

	results := make([]audit.AuditEvent, 0, limit)
	for rows.Next() {
		var e audit.AuditEvent
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action,
			&e.Status, &e.Notes, &e.Actor, &e.DurationMs, &e.Error, &e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan audit event: %w", err)
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
