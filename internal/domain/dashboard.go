package domain

// ComplianceEntry — строка проекции «политика → документ» для дашборда.
// Document равен nil, если документ для политики еще не сгенерирован.
type ComplianceEntry struct {
	Policy     Policy          `json:"policy"`
	Document   *PolicyDocument `json:"document,omitempty"`
	Status     DocumentStatus  `json:"status"`
	Percentage int             `json:"percentage"`
}

// WorkflowStats — сводка по очереди согласования рисков
type WorkflowStats struct {
	Counts map[ApprovalStatus]int `json:"counts"`
	Total  int                    `json:"total"`
}

// RegisterOverview — агрегаты реестра для стартового экрана консоли
type RegisterOverview struct {
	Documents         int `json:"documents"`
	Published         int `json:"published"`
	RisksTotal        int `json:"risks_total"`
	RisksNonCompliant int `json:"risks_non_compliant"`
}
