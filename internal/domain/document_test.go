package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftDocument() *PolicyDocument {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &PolicyDocument{
		ID:          "HRSD-1748779200000",
		PolicyTitle: "Performance Management",
		Status:      DocStatusDraft,
		Version:     1.0,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		History: []HistoryEntry{{
			Timestamp: ts,
			Status:    DocStatusDraft,
			Notes:     "Document automatically generated by Agent AI.",
			Actor:     "Agent AI",
		}},
	}
}

func TestApplyTransitionAppendsHistory(t *testing.T) {
	doc := draftDocument()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	err := doc.ApplyTransition(DocStatusPendingApproval, "Submitted for review", "hr-officer", now)
	require.NoError(t, err)

	assert.Equal(t, DocStatusPendingApproval, doc.Status)
	assert.Equal(t, now, doc.UpdatedAt)
	require.Len(t, doc.History, 2)

	last := doc.History[len(doc.History)-1]
	assert.Equal(t, DocStatusPendingApproval, last.Status)
	assert.Equal(t, "Submitted for review", last.Notes)
	assert.Equal(t, "hr-officer", last.Actor)
}

func TestApplyTransitionRejectsEmptyNotes(t *testing.T) {
	doc := draftDocument()

	err := doc.ApplyTransition(DocStatusPendingApproval, "", "hr-officer", time.Now())
	require.ErrorIs(t, err, ErrEmptyNotes)

	// Документ не изменился
	assert.Equal(t, DocStatusDraft, doc.Status)
	assert.Len(t, doc.History, 1)
}

func TestApplyTransitionDefaultsActor(t *testing.T) {
	doc := draftDocument()

	require.NoError(t, doc.ApplyTransition(DocStatusPendingApproval, "note", "", time.Now()))
	assert.Equal(t, DefaultActor, doc.History[len(doc.History)-1].Actor)
}

func TestVersionBumpOnlyOnRevisionStatuses(t *testing.T) {
	doc := draftDocument()
	now := time.Now()

	// Движение вперед версию не трогает
	require.NoError(t, doc.ApplyTransition(DocStatusPendingApproval, "submit", "u", now))
	assert.Equal(t, 1.0, doc.Version)
	require.NoError(t, doc.ApplyTransition(DocStatusApproved, "approve", "u", now))
	assert.Equal(t, 1.0, doc.Version)

	// Возврат на доработку поднимает минорную ревизию
	doc.Status = DocStatusPendingApproval
	require.NoError(t, doc.ApplyTransition(DocStatusRevisionsRequested, "fix scope", "u", now))
	assert.Equal(t, 1.1, doc.Version)
}

func TestVersionBumpRoundsToOneDecimal(t *testing.T) {
	doc := draftDocument()
	now := time.Now()

	// Много циклов доработки не должны накапливать float-хвосты
	for i := 0; i < 10; i++ {
		require.NoError(t, doc.ApplyTransition(DocStatusRevisionsRequested, "rework", "u", now))
	}
	assert.Equal(t, 2.0, doc.Version)
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from    DocumentStatus
		to      DocumentStatus
		allowed bool
	}{
		{DocStatusDraft, DocStatusPendingApproval, true},
		{DocStatusDraft, DocStatusPublished, false},
		{DocStatusPendingApproval, DocStatusApproved, true},
		{DocStatusPendingApproval, DocStatusRevisionsRequested, true},
		{DocStatusPendingApproval, DocStatusArchived, false},
		{DocStatusRevisionsRequested, DocStatusPendingApproval, true},
		{DocStatusApproved, DocStatusPublished, true},
		{DocStatusApproved, DocStatusDraft, false},
		{DocStatusPublished, DocStatusArchived, true},
		{DocStatusArchived, DocStatusDraft, false},
	}

	for _, tc := range cases {
		doc := draftDocument()
		doc.Status = tc.from
		err := doc.CanTransitionTo(tc.to)
		if tc.allowed {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	doc := draftDocument()
	doc.Status = DocStatusNotGenerated // Сентинел проекции, не хранимый статус

	assert.ErrorIs(t, doc.CanTransitionTo(DocStatusDraft), ErrUnknownDocumentStatus)
}
