package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRisk() *RiskItem {
	return &RiskItem{
		ID:               "PERFO-001",
		Category:         "Performance Management",
		RiskDescription:  "Performance charters are not prepared before cycle start",
		Likelihood:       LikelihoodMedium,
		Impact:           ImpactHigh,
		ComplianceStatus: ComplianceNonCompliant,
		ApprovalStatus:   ApprovalPending,
	}
}

func TestSubmitFromDraftAndRejected(t *testing.T) {
	item := pendingRisk()

	item.ApprovalStatus = ApprovalDraft
	require.NoError(t, item.Submit())
	assert.Equal(t, ApprovalPending, item.ApprovalStatus)

	item.ApprovalStatus = ApprovalRejected
	require.NoError(t, item.Submit())
	assert.Equal(t, ApprovalPending, item.ApprovalStatus)
}

func TestSubmitFromPendingFails(t *testing.T) {
	item := pendingRisk()
	assert.ErrorIs(t, item.Submit(), ErrNotSubmittable)

	item.ApprovalStatus = ApprovalApproved
	assert.ErrorIs(t, item.Submit(), ErrNotSubmittable)
}

func TestApproveClearsManagementComments(t *testing.T) {
	item := pendingRisk()
	comments := "needs stronger controls"
	item.ManagementComments = &comments

	require.NoError(t, item.Approve())
	assert.Equal(t, ApprovalApproved, item.ApprovalStatus)
	assert.Nil(t, item.ManagementComments)
}

func TestApproveRequiresPending(t *testing.T) {
	item := pendingRisk()
	item.ApprovalStatus = ApprovalDraft
	assert.ErrorIs(t, item.Approve(), ErrAlreadyProcessed)

	item.ApprovalStatus = ApprovalApproved
	assert.ErrorIs(t, item.Approve(), ErrAlreadyProcessed)
}

func TestRejectRequiresComments(t *testing.T) {
	item := pendingRisk()
	assert.ErrorIs(t, item.Reject(""), ErrEmptyComments)
	assert.Equal(t, ApprovalPending, item.ApprovalStatus)

	require.NoError(t, item.Reject("mitigation plan is missing deadlines"))
	assert.Equal(t, ApprovalRejected, item.ApprovalStatus)
	require.NotNil(t, item.ManagementComments)
	assert.Equal(t, "mitigation plan is missing deadlines", *item.ManagementComments)
}

func TestCountsByStatusZeroFilled(t *testing.T) {
	counts := CountsByStatus(nil)
	require.Len(t, counts, 4)
	for _, s := range AllApprovalStatuses {
		assert.Equal(t, 0, counts[s])
	}

	items := []RiskItem{
		{ApprovalStatus: ApprovalDraft},
		{ApprovalStatus: ApprovalPending},
		{ApprovalStatus: ApprovalPending},
		{ApprovalStatus: ApprovalApproved},
	}
	counts = CountsByStatus(items)
	assert.Equal(t, 1, counts[ApprovalDraft])
	assert.Equal(t, 2, counts[ApprovalPending])
	assert.Equal(t, 1, counts[ApprovalApproved])
	assert.Equal(t, 0, counts[ApprovalRejected])
}
