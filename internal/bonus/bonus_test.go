package bonus_test

import (
	"errors"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/bonus"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceInput() bonus.Input {
	return bonus.Input{
		ContractAmount:     1_000_000,
		ContractorPayments: 100_000,
		PreExpensePercent:  30,
		BonusPercent:       10,
		Members: []bonus.Member{
			{EmployeeID: "partner", Role: domain.RolePartner, Share: 60},
			{EmployeeID: "manager", Role: domain.RoleManager1, Share: 40},
		},
	}
}

func TestDistribute_ReferenceCase(t *testing.T) {
	r, err := bonus.Distribute(referenceInput())
	require.NoError(t, err)

	assert.Equal(t, 330_000.0, r.PreExpenseAmount)
	assert.Equal(t, 570_000.0, r.BonusBase)
	assert.Equal(t, 57_000.0, r.TotalBonusAmount)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, 34_200.0, r.Lines[0].Amount)
	assert.Equal(t, 22_800.0, r.Lines[1].Amount)
	assert.Equal(t, 57_000.0, r.Allocated)
	assert.False(t, r.Overallocated)
}

func TestDistribute_Idempotent(t *testing.T) {
	in := referenceInput()
	first, err := bonus.Distribute(in)
	require.NoError(t, err)
	second, err := bonus.Distribute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	p := domain.Project{
		Contract: domain.ContractInfo{Amount: 1_000_000},
		Finances: domain.Finances{ContractorPayments: 100_000, PreExpensePercent: 30, BonusPercent: 10},
		Team: []domain.TeamMember{
			{EmployeeID: "partner", Role: domain.RolePartner, BonusPercent: 60},
			{EmployeeID: "manager", Role: domain.RoleManager1, BonusPercent: 40},
		},
	}
	r1, err := bonus.Distribute(bonus.InputFromProject(p))
	require.NoError(t, err)
	bonus.Apply(&p, r1)
	snapshot := p

	r2, err := bonus.Distribute(bonus.InputFromProject(p))
	require.NoError(t, err)
	bonus.Apply(&p, r2)
	assert.Equal(t, snapshot, p, "recomputing an applied project changes nothing")
}

func TestDistribute_ManualOverride(t *testing.T) {
	in := referenceInput()
	manual := 50_000.0
	in.Members[1].ManualAmount = &manual

	r, err := bonus.Distribute(in)
	require.NoError(t, err)
	assert.Equal(t, 34_200.0, r.Lines[0].Amount)
	assert.Equal(t, 50_000.0, r.Lines[1].Amount)
	assert.True(t, r.Lines[1].Manual)
	assert.Equal(t, 84_200.0, r.Allocated)
	assert.True(t, r.Overallocated)
}

func TestDistribute_OddCentsStayWithinPool(t *testing.T) {
	tests := []struct {
		name   string
		in     bonus.Input
		total  float64
		amount []float64
	}{
		{
			name: "half cent split evenly",
			in: bonus.Input{
				ContractAmount: 100_001,
				BonusPercent:   15,
				Members: []bonus.Member{
					{EmployeeID: "partner", Share: 50},
					{EmployeeID: "manager", Share: 50},
				},
			},
			total:  15_000.15,
			amount: []float64{7_500.08, 7_500.07},
		},
		{
			name: "thirds go to the largest remainder",
			in: bonus.Input{
				ContractAmount: 1_000,
				BonusPercent:   10,
				Members: []bonus.Member{
					{EmployeeID: "partner", Share: 33},
					{EmployeeID: "manager", Share: 33},
					{EmployeeID: "assistant", Share: 34},
				},
			},
			total:  100,
			amount: []float64{33, 33, 34},
		},
		{
			name: "three way split of one cent",
			in: bonus.Input{
				ContractAmount: 0.1,
				BonusPercent:   10,
				Members: []bonus.Member{
					{EmployeeID: "a", Share: 40},
					{EmployeeID: "b", Share: 30},
					{EmployeeID: "c", Share: 30},
				},
			},
			total:  0.01,
			amount: []float64{0.01, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := bonus.Distribute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.total, r.TotalBonusAmount)
			require.Len(t, r.Lines, len(tt.amount))
			for i, want := range tt.amount {
				assert.Equal(t, want, r.Lines[i].Amount, tt.in.Members[i].EmployeeID)
			}
			assert.Equal(t, tt.total, r.Allocated)
			assert.False(t, r.Overallocated)
		})
	}
}

func TestDistribute_PartialSharesNeverExceedTheirPart(t *testing.T) {
	r, err := bonus.Distribute(bonus.Input{
		ContractAmount: 100_001,
		BonusPercent:   15,
		Members: []bonus.Member{
			{EmployeeID: "partner", Share: 45},
			{EmployeeID: "manager", Share: 45},
		},
	})
	require.NoError(t, err)
	// 90% of 15,000.15 is 13,500.135
	assert.Equal(t, 13_500.13, r.Allocated)
	assert.False(t, r.Overallocated)
}

func TestDistribute_BaseFloorsAtZero(t *testing.T) {
	r, err := bonus.Distribute(bonus.Input{
		ContractAmount:     100,
		ContractorPayments: 90,
		PreExpensePercent:  50,
		BonusPercent:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.BonusBase)
	assert.Equal(t, 0.0, r.TotalBonusAmount)
	assert.Empty(t, r.Lines)
}

func TestDistribute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*bonus.Input)
		want   error
	}{
		{"negative contract", func(in *bonus.Input) { in.ContractAmount = -1 }, bonus.ErrNegativeInput},
		{"negative share", func(in *bonus.Input) { in.Members[0].Share = -5 }, bonus.ErrNegativeInput},
		{"bonus percent over 100", func(in *bonus.Input) { in.BonusPercent = 120 }, bonus.ErrPercentRange},
		{"shares over 100", func(in *bonus.Input) { in.Members[1].Share = 41 }, bonus.ErrSharesExceed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.mutate(&in)
			_, err := bonus.Distribute(in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestToDTO(t *testing.T) {
	r, err := bonus.Distribute(referenceInput())
	require.NoError(t, err)
	dto := bonus.ToDTO("proj-1", r)
	assert.Equal(t, "proj-1", dto.ProjectID)
	assert.Equal(t, 57_000.0, dto.TotalBonusAmount)
	require.Len(t, dto.Lines, 2)
	assert.Equal(t, 60.0, dto.Lines[0].Percent)
}
