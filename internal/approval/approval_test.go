package approval

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/treasury-docs/internal/models"
)

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultPolicy())
	require.NoError(t, err)
	return r
}

func TestResolveTiers(t *testing.T) {
	r := defaultResolver(t)

	tests := []struct {
		name      string
		amount    int64
		level     models.ApprovalLevel
		steps     []string
		escalates bool
	}{
		{
			name:   "small amount routes standard",
			amount: 500,
			level:  models.ApprovalStandard,
			steps:  []string{models.RoleDepartmentHead, models.RoleFinanceProcessing},
		},
		{
			name:      "mid amount routes high",
			amount:    15000,
			level:     models.ApprovalHigh,
			steps:     []string{models.RoleDepartmentHead, models.RoleFinanceDirector, models.RoleFinanceProcessing},
			escalates: true,
		},
		{
			name:      "large amount routes executive",
			amount:    120000,
			level:     models.ApprovalExecutive,
			steps:     []string{models.RoleDepartmentHead, models.RoleFinanceDirector, models.RoleExecutive, models.RoleFinanceProcessing},
			escalates: true,
		},
		{
			name:      "boundary amount hits its tier",
			amount:    10000,
			level:     models.ApprovalHigh,
			steps:     []string{models.RoleDepartmentHead, models.RoleFinanceDirector, models.RoleFinanceProcessing},
			escalates: true,
		},
		{
			name:   "just under threshold stays below",
			amount: 9999,
			level:  models.ApprovalStandard,
			steps:  []string{models.RoleDepartmentHead, models.RoleFinanceProcessing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := r.Resolve(models.CategoryOperating, decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.level, chain.Level)
			assert.Equal(t, tt.steps, chain.Steps)
			assert.Equal(t, tt.escalates, chain.RequiresEscalation())
		})
	}
}

func TestResolveUsesAbsoluteAmount(t *testing.T) {
	r := defaultResolver(t)

	debit := r.Resolve(models.CategoryOperating, decimal.NewFromInt(120000))
	credit := r.Resolve(models.CategoryOperating, decimal.NewFromInt(-120000))
	assert.Equal(t, debit, credit)
	assert.Equal(t, models.ApprovalExecutive, credit.Level)
}

func TestResolveReturnsCopiedSteps(t *testing.T) {
	r := defaultResolver(t)

	chain := r.Resolve(models.CategoryOperating, decimal.NewFromInt(500))
	chain.Steps[0] = "Tampered"

	fresh := r.Resolve(models.CategoryOperating, decimal.NewFromInt(500))
	assert.Equal(t, models.RoleDepartmentHead, fresh.Steps[0])
}

func TestNewResolverRejectsBadPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"no tiers", Policy{}},
		{"missing floor tier", Policy{
			Tiers: []Tier{{MinAmount: decimal.NewFromInt(100), Level: models.ApprovalStandard}},
			Chains: map[models.ApprovalLevel][]string{
				models.ApprovalStandard: {models.RoleDepartmentHead},
			},
		}},
		{"tier without chain", Policy{
			Tiers: []Tier{{MinAmount: decimal.Zero, Level: models.ApprovalStandard}},
		}},
		{"tier with empty chain", Policy{
			Tiers: []Tier{{MinAmount: decimal.Zero, Level: models.ApprovalStandard}},
			Chains: map[models.ApprovalLevel][]string{
				models.ApprovalStandard: {},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.policy)
			assert.Error(t, err)
		})
	}
}
