package postgres

/*
Файл document_repo.go отвечает за хранение сгенерированных документов политик.
Тело документа и история переходов лежат в jsonb: структура статей плавающая,
а история читается только целиком, реляционная развертка не нужна.
*/

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

func (r *Repo) GetDocumentByID(ctx context.Context, id string) (*domain.PolicyDocument, error) {
	query := `
		SELECT id, policy_title, content, status, version, history, created_at, updated_at
		FROM documents WHERE id = $1`

	return r.scanDocument(r.pool.QueryRow(ctx, query, id))
}

// GetAllDocuments выполняет "холодную загрузку" всей коллекции при старте.
// Порядок фиксирован по created_at, чтобы проекция и снапшот были стабильными.
func (r *Repo) GetAllDocuments(ctx context.Context) ([]domain.PolicyDocument, error) {
	query := `
		SELECT id, policy_title, content, status, version, history, created_at, updated_at
		FROM documents ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query documents: %w", err)
	}
	defer rows.Close()

	// Инициализируем пустой слайс, чтобы в JSON был [] вместо null
	results := make([]domain.PolicyDocument, 0)
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *doc)
	}
	return results, rows.Err()
}

// SaveDocument — upsert: оркестратор создает документы, сервис их обновляет
func (r *Repo) SaveDocument(ctx context.Context, doc *domain.PolicyDocument) error {
	content, err := json.Marshal(doc.Content)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal content: %w", err)
	}
	history, err := json.Marshal(doc.History)
	if err != nil {
		return fmt.Errorf("postgres: failed to marshal history: %w", err)
	}

	query := `
		INSERT INTO documents (id, policy_title, content, status, version, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			history = EXCLUDED.history,
			updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		doc.ID, doc.PolicyTitle, content, doc.Status, doc.Version, history,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save document: %w", err)
	}
	return nil
}

// CountDocuments — дешевая проверка «пустой ли реестр» для автосида
func (r *Repo) CountDocuments(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

func (r *Repo) scanDocument(row pgx.Row) (*domain.PolicyDocument, error) {
	doc := &domain.PolicyDocument{}
	var content, history []byte

	err := row.Scan(
		&doc.ID, &doc.PolicyTitle, &content, &doc.Status, &doc.Version,
		&history, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("postgres: failed to scan document: %w", err)
	}

	if err := json.Unmarshal(content, &doc.Content); err != nil {
		return nil, fmt.Errorf("postgres: corrupt document content %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(history, &doc.History); err != nil {
		return nil, fmt.Errorf("postgres: corrupt document history %s: %w", doc.ID, err)
	}
	return doc, nil
}
