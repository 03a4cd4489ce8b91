package domain

import "errors"

type RiskLikelihood string

const (
	LikelihoodLow    RiskLikelihood = "Low"
	LikelihoodMedium RiskLikelihood = "Medium"
	LikelihoodHigh   RiskLikelihood = "High"
)

type RiskImpact string

const (
	ImpactLow    RiskImpact = "Low"
	ImpactMedium RiskImpact = "Medium"
	ImpactHigh   RiskImpact = "High"
)

// RiskLevel — производная классификация серьезности (likelihood × impact).
// Никогда не хранится: всегда пересчитывается, чтобы не протухала.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelModerate RiskLevel = "Moderate"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelSevere   RiskLevel = "Severe"
)

type RiskComplianceStatus string

const (
	ComplianceCompliant          RiskComplianceStatus = "Compliant"
	CompliancePartiallyCompliant RiskComplianceStatus = "Partially Compliant"
	ComplianceNonCompliant       RiskComplianceStatus = "Non-Compliant"
)

// Статусы State Machine согласования риска
type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "Draft"
	ApprovalPending  ApprovalStatus = "Pending Approval"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// AllApprovalStatuses — фиксированный порядок для zero-filled агрегатов
var AllApprovalStatuses = []ApprovalStatus{
	ApprovalDraft,
	ApprovalPending,
	ApprovalApproved,
	ApprovalRejected,
}

var (
	ErrAlreadyProcessed  = errors.New("risk item is not pending approval")
	ErrNotSubmittable    = errors.New("risk item cannot be submitted from its current status")
	ErrEmptyComments     = errors.New("rejection comments must not be empty")
	ErrRiskNotFound      = errors.New("risk item not found")
	ErrMissingRiskFields = errors.New("category and risk description are required")
)

// RiskItem — запись реестра рисков.
// ID имеет вид <PREFIX>-<NNN> и выдается аллокатором (пакет risk).
type RiskItem struct {
	ID                 string               `json:"id"`
	Category           string               `json:"category"`
	RiskDescription    string               `json:"riskDescription"`
	FrameworkReference string               `json:"frameworkReference"`
	Likelihood         RiskLikelihood       `json:"likelihood"`
	Impact             RiskImpact           `json:"impact"`
	MitigationControls string               `json:"mitigationControls"`
	ActionItems        string               `json:"actionItems"`
	ComplianceStatus   RiskComplianceStatus `json:"complianceStatus"`
	ApprovalStatus     ApprovalStatus       `json:"approvalStatus"`

	// Заполняется только при Rejected, очищается при Approve
	ManagementComments *string `json:"managementComments,omitempty"`
}

// Submit переводит черновик (или отклоненный риск) в очередь на согласование
func (r *RiskItem) Submit() error {
	if r.ApprovalStatus != ApprovalDraft && r.ApprovalStatus != ApprovalRejected {
		return ErrNotSubmittable
	}
	r.ApprovalStatus = ApprovalPending
	return nil
}

// Approve фиксирует одобрение. Комментарии руководства очищаются:
// они имеют смысл только для отклоненной записи.
func (r *RiskItem) Approve() error {
	if r.ApprovalStatus != ApprovalPending {
		return ErrAlreadyProcessed
	}
	r.ApprovalStatus = ApprovalApproved
	r.ManagementComments = nil
	return nil
}

// Reject требует непустой комментарий — оператор обязан объяснить решение
func (r *RiskItem) Reject(comments string) error {
	if r.ApprovalStatus != ApprovalPending {
		return ErrAlreadyProcessed
	}
	if comments == "" {
		return ErrEmptyComments
	}
	r.ApprovalStatus = ApprovalRejected
	r.ManagementComments = &comments
	return nil
}

// CountsByStatus — агрегат для дашборда воркфлоу.
// Всегда возвращает все четыре статуса, даже нулевые.
func CountsByStatus(items []RiskItem) map[ApprovalStatus]int {
	counts := make(map[ApprovalStatus]int, len(AllApprovalStatuses))
	for _, s := range AllApprovalStatuses {
		counts[s] = 0
	}
	for _, item := range items {
		counts[item.ApprovalStatus]++
	}
	return counts
}
