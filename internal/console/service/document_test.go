package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
)

// memDocRepo реализует и DocumentRepository сервиса, и репозиторий кэша
type memDocRepo struct {
	docs map[string]domain.PolicyDocument
}

func newMemDocRepo(docs ...domain.PolicyDocument) *memDocRepo {
	r := &memDocRepo{docs: make(map[string]domain.PolicyDocument)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *memDocRepo) GetDocumentByID(ctx context.Context, id string) (*domain.PolicyDocument, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r *memDocRepo) GetAllDocuments(ctx context.Context) ([]domain.PolicyDocument, error) {
	out := make([]domain.PolicyDocument, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *memDocRepo) SaveDocument(ctx context.Context, doc *domain.PolicyDocument) error {
	r.docs[doc.ID] = *doc
	return nil
}

// memSnapshots фиксирует последний сохраненный снапшот
type memSnapshots struct {
	saved [][]domain.PolicyDocument
}

func (s *memSnapshots) Save(ctx context.Context, docs []domain.PolicyDocument) error {
	s.saved = append(s.saved, docs)
	return nil
}

func seedDoc() domain.PolicyDocument {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.PolicyDocument{
		ID:          "HRSD-1",
		PolicyTitle: "Performance Management",
		Status:      domain.DocStatusDraft,
		Version:     1.0,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		History: []domain.HistoryEntry{{
			Timestamp: ts,
			Status:    domain.DocStatusDraft,
			Notes:     "Document automatically generated by Agent AI.",
			Actor:     "Agent AI",
		}},
	}
}

func newDocService(repo *memDocRepo, strict bool) (*DocumentService, *memSnapshots) {
	cache := policy.NewMemoDocuments(repo, nil, zap.NewNop())
	snapshots := &memSnapshots{}
	s := NewDocumentService(repo, cache, snapshots, &generator.MockGenerator{}, nopAuditor{}, engine.NewMetrics(nil), strict, zap.NewNop())
	return s, snapshots
}

func TestTransitionPersistsAndRefreshesCaches(t *testing.T) {
	repo := newMemDocRepo(seedDoc())
	s, snapshots := newDocService(repo, false)

	doc, err := s.Transition(context.Background(), "HRSD-1", domain.DocStatusPendingApproval, "ready for review", "officer")
	require.NoError(t, err)
	assert.Equal(t, domain.DocStatusPendingApproval, doc.Status)
	require.Len(t, doc.History, 2)

	// Изменение дошло до хранилища и до Redis-снапшота
	stored := repo.docs["HRSD-1"]
	assert.Equal(t, domain.DocStatusPendingApproval, stored.Status)
	require.NotEmpty(t, snapshots.saved)
}

func TestTransitionEmptyNotesDoesNotTouchStore(t *testing.T) {
	repo := newMemDocRepo(seedDoc())
	s, snapshots := newDocService(repo, false)

	_, err := s.Transition(context.Background(), "HRSD-1", domain.DocStatusPendingApproval, "", "officer")
	require.ErrorIs(t, err, domain.ErrEmptyNotes)

	assert.Equal(t, domain.DocStatusDraft, repo.docs["HRSD-1"].Status)
	assert.Empty(t, snapshots.saved)
}

func TestPermissiveModeAllowsAnyTransition(t *testing.T) {
	repo := newMemDocRepo(seedDoc())
	s, _ := newDocService(repo, false)

	// Draft → Published напрямую: разрешено вне строгого режима
	doc, err := s.Transition(context.Background(), "HRSD-1", domain.DocStatusPublished, "fast-track", "officer")
	require.NoError(t, err)
	assert.Equal(t, domain.DocStatusPublished, doc.Status)
}

func TestStrictModeEnforcesTable(t *testing.T) {
	repo := newMemDocRepo(seedDoc())
	s, _ := newDocService(repo, true)

	_, err := s.Transition(context.Background(), "HRSD-1", domain.DocStatusPublished, "fast-track", "officer")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.DocStatusDraft, repo.docs["HRSD-1"].Status)

	// Разрешенный переход проходит
	doc, err := s.Transition(context.Background(), "HRSD-1", domain.DocStatusPendingApproval, "submit", "officer")
	require.NoError(t, err)
	assert.Equal(t, domain.DocStatusPendingApproval, doc.Status)
}

func TestTransitionUnknownDocument(t *testing.T) {
	s, _ := newDocService(newMemDocRepo(), false)

	_, err := s.Transition(context.Background(), "HRSD-404", domain.DocStatusPublished, "note", "officer")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestImportGeneratedWarmsCaches(t *testing.T) {
	repo := newMemDocRepo()
	s, snapshots := newDocService(repo, false)

	docs := []domain.PolicyDocument{seedDoc()}
	require.NoError(t, s.ImportGenerated(context.Background(), docs))

	assert.Len(t, repo.docs, 1)
	require.NotEmpty(t, snapshots.saved)

	listed, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
