package postgres

/*
Файл risk_repo.go содержит методы реестра рисков.
Уровень риска (likelihood × impact) в таблице не хранится: он всегда
пересчитывается классификатором на чтении, чтобы не протухал.
*/

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

func (r *Repo) GetRiskByID(ctx context.Context, id string) (*domain.RiskItem, error) {
	query := `
		SELECT id, category, risk_description, framework_reference, likelihood, impact,
		       mitigation_controls, action_items, compliance_status, approval_status, management_comments
		FROM risks WHERE id = $1`

	return r.scanRisk(r.pool.QueryRow(ctx, query, id))
}

// GetAllRisks — выборка всего реестра в порядке идентификаторов.
// Порядок по id дает группировку по категориям: PERFO-001, PERFO-002, RECRU-001...
func (r *Repo) GetAllRisks(ctx context.Context) ([]domain.RiskItem, error) {
	query := `
		SELECT id, category, risk_description, framework_reference, likelihood, impact,
		       mitigation_controls, action_items, compliance_status, approval_status, management_comments
		FROM risks ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query risks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.RiskItem, 0)
	for rows.Next() {
		item, err := r.scanRisk(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *item)
	}
	return results, rows.Err()
}

// SaveRisk — upsert записи реестра
func (r *Repo) SaveRisk(ctx context.Context, item *domain.RiskItem) error {
	query := `
		INSERT INTO risks (id, category, risk_description, framework_reference, likelihood, impact,
		                   mitigation_controls, action_items, compliance_status, approval_status, management_comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			risk_description = EXCLUDED.risk_description,
			framework_reference = EXCLUDED.framework_reference,
			likelihood = EXCLUDED.likelihood,
			impact = EXCLUDED.impact,
			mitigation_controls = EXCLUDED.mitigation_controls,
			action_items = EXCLUDED.action_items,
			compliance_status = EXCLUDED.compliance_status,
			approval_status = EXCLUDED.approval_status,
			management_comments = EXCLUDED.management_comments`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Category, item.RiskDescription, item.FrameworkReference,
		item.Likelihood, item.Impact, item.MitigationControls, item.ActionItems,
		item.ComplianceStatus, item.ApprovalStatus, item.ManagementComments,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save risk: %w", err)
	}
	return nil
}

func (r *Repo) scanRisk(row pgx.Row) (*domain.RiskItem, error) {
	item := &domain.RiskItem{}
	var comments sql.NullString // Используем для обработки NULL из БД

	err := row.Scan(
		&item.ID, &item.Category, &item.RiskDescription, &item.FrameworkReference,
		&item.Likelihood, &item.Impact, &item.MitigationControls, &item.ActionItems,
		&item.ComplianceStatus, &item.ApprovalStatus, &comments,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRiskNotFound
		}
		return nil, fmt.Errorf("postgres: failed to scan risk: %w", err)
	}

	// Маппим NULL значения в строки (если есть)
	if comments.Valid {
		val := comments.String
		item.ManagementComments = &val
	}
	return item, nil
}
