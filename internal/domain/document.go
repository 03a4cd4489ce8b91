package domain

import (
	"errors"
	"math"
	"time"
)

// Статусы жизненного цикла документа
type DocumentStatus string

const (
	DocStatusDraft              DocumentStatus = "Draft"
	DocStatusPendingApproval    DocumentStatus = "Pending Approval"
	DocStatusRevisionsRequested DocumentStatus = "Revisions Requested"
	DocStatusApproved           DocumentStatus = "Approved"
	DocStatusPublished          DocumentStatus = "Published"
	DocStatusArchived           DocumentStatus = "Archived"

	// DocStatusNotGenerated — сентинел для проекции: политика есть, документа нет.
	// В БД такой статус никогда не сохраняется.
	DocStatusNotGenerated DocumentStatus = "Not Generated"
)

// DefaultActor подставляется, если вызывающая сторона не передала актора
const DefaultActor = "User"

var (
	ErrEmptyNotes            = errors.New("transition notes must not be empty")
	ErrInvalidTransition     = errors.New("invalid document status transition")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrPolicyNotFound        = errors.New("policy not found in catalog")
	ErrUnknownDocumentStatus = errors.New("unknown document status")
)

// Policy — запись каталога политик (регуляторная рамка HRSD).
// Документы порождаются из каталога движком генерации.
type Policy struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	FrameworkText string `json:"framework_text" yaml:"framework_text"`
}

type PolicyArticle struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// DocumentContent — структурированное тело документа.
// Производится генератором целиком; ядро его не редактирует по частям.
type DocumentContent struct {
	Description string          `json:"description"`
	Scope       string          `json:"scope"`
	Purpose     string          `json:"purpose"`
	Articles    []PolicyArticle `json:"articles"`
}

type HistoryEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Status    DocumentStatus `json:"status"`
	Notes     string         `json:"notes"`
	Actor     string         `json:"actor"`
}

// CompliancePlan — пошаговый план устранения разрывов, результат работы генератора
type CompliancePlan struct {
	Steps []ComplianceStep `json:"steps"`
}

type ComplianceStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PolicyDocument — сгенерированный артефакт политики с жизненным циклом.
// Инварианты:
//   - history не пустая после создания и её последняя запись совпадает
//     по статусу с текущим статусом документа;
//   - version монотонно не убывает и меняется только правилом перехода.
type PolicyDocument struct {
	ID          string          `json:"id"`
	PolicyTitle string          `json:"policyTitle"`
	Content     DocumentContent `json:"content"`
	Status      DocumentStatus  `json:"status"`
	Version     float64         `json:"version"`
	History     []HistoryEntry  `json:"history"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// transitionTable — явная таблица смежности для строгого режима.
// Зеркалит кнопки, которые UI показывает для каждого статуса.
var transitionTable = map[DocumentStatus][]DocumentStatus{
	DocStatusDraft:              {DocStatusPendingApproval},
	DocStatusRevisionsRequested: {DocStatusPendingApproval},
	DocStatusPendingApproval:    {DocStatusApproved, DocStatusRevisionsRequested},
	DocStatusApproved:           {DocStatusPublished},
	DocStatusPublished:          {DocStatusArchived},
	DocStatusArchived:           {}, // Терминальный статус
}

// CanTransitionTo проверяет переход по таблице смежности.
// Используется только в строгом режиме: по умолчанию ядро, как и исходная
// система, применяет любой запрошенный статус.
func (d *PolicyDocument) CanTransitionTo(next DocumentStatus) error {
	allowed, ok := transitionTable[d.Status]
	if !ok {
		return ErrUnknownDocumentStatus
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return ErrInvalidTransition
}

// ApplyTransition применяет переход статуса: правило версии, запись в историю,
// обновление updatedAt. Единственная ошибка — пустые notes.
// Версия: возврат в Draft-подобное состояние поднимает минорную ревизию (+0.1).
func (d *PolicyDocument) ApplyTransition(next DocumentStatus, notes, actor string, now time.Time) error {
	if notes == "" {
		return ErrEmptyNotes
	}
	if actor == "" {
		actor = DefaultActor
	}

	if next == DocStatusDraft || next == DocStatusRevisionsRequested {
		d.Version = roundVersion(d.Version + 0.1)
	}

	d.Status = next
	d.UpdatedAt = now
	d.History = append(d.History, HistoryEntry{
		Timestamp: now,
		Status:    next,
		Notes:     notes,
		Actor:     actor,
	})
	return nil
}

// roundVersion — округление до одного знака, чтобы не накапливать хвосты float
func roundVersion(v float64) float64 {
	return math.Round(v*10) / 10
}
