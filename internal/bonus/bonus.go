// Package bonus computes the bonus pool of an engagement and its split
// between team members. All arithmetic is decimal; amounts are rounded to
// two places.
package bonus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeInput = errors.New("bonus inputs must not be negative")
	ErrPercentRange  = errors.New("percentages must be between 0 and 100")
	ErrSharesExceed  = errors.New("member shares exceed 100%")
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

// Member is one participant of the split. A non-nil ManualAmount fixes the
// member's amount regardless of Share.
type Member struct {
	EmployeeID   string
	Role         domain.Role
	Share        float64
	ManualAmount *float64
}

// Input holds everything the split depends on. Percentages are 0..100.
type Input struct {
	ContractAmount     float64
	ContractorPayments float64
	PreExpensePercent  float64
	BonusPercent       float64
	Members            []Member
}

// Line is the computed amount of one member
type Line struct {
	EmployeeID string
	Role       domain.Role
	Share      float64
	Amount     float64
	Manual     bool
}

// Result is the computed split
type Result struct {
	PreExpenseAmount float64
	BonusBase        float64
	TotalBonusAmount float64
	Allocated        float64
	Overallocated    bool
	Lines            []Line
}

func pct(p float64) decimal.Decimal {
	return decimal.NewFromFloat(p).Div(hundred)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func validate(in Input) error {
	if in.ContractAmount < 0 || in.ContractorPayments < 0 {
		return ErrNegativeInput
	}
	for _, p := range []float64{in.PreExpensePercent, in.BonusPercent} {
		if p < 0 || p > 100 {
			return ErrPercentRange
		}
	}
	shares := decimal.Zero
	for _, m := range in.Members {
		if m.Share < 0 || (m.ManualAmount != nil && *m.ManualAmount < 0) {
			return ErrNegativeInput
		}
		if m.ManualAmount == nil {
			shares = shares.Add(decimal.NewFromFloat(m.Share))
		}
	}
	if shares.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s%%", ErrSharesExceed, shares.String())
	}
	return nil
}

// Distribute computes the pool and member amounts:
//
//	reserve = preExpense% × (contract + contractorPayments)
//	base    = max(0, contract − contractorPayments − reserve)
//	total   = base × bonus%
//
// Non-manual members receive total × share to the cent without exceeding the
// pool; manual members keep their amount.
func Distribute(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	contract := decimal.NewFromFloat(in.ContractAmount)
	contractor := decimal.NewFromFloat(in.ContractorPayments)

	reserve := contract.Add(contractor).Mul(pct(in.PreExpensePercent)).Round(2)
	base := contract.Sub(contractor).Sub(reserve)
	if base.IsNegative() {
		base = decimal.Zero
	}
	total := base.Mul(pct(in.BonusPercent)).Round(2)

	result := Result{
		PreExpenseAmount: money(reserve),
		BonusBase:        money(base),
		TotalBonusAmount: money(total),
		Lines:            make([]Line, 0, len(in.Members)),
	}

	amounts := splitShares(total, in.Members)
	allocated := decimal.Zero
	for i, m := range in.Members {
		line := Line{EmployeeID: m.EmployeeID, Role: m.Role, Share: m.Share}
		amount := amounts[i]
		if m.ManualAmount != nil {
			amount = decimal.NewFromFloat(*m.ManualAmount)
			line.Manual = true
		}
		line.Amount = money(amount)
		allocated = allocated.Add(amount)
		result.Lines = append(result.Lines, line)
	}

	result.Allocated = money(allocated)
	result.Overallocated = allocated.GreaterThan(total)
	return result, nil
}

// splitShares gives every non-manual member total × share rounded down to the
// cent, then hands the leftover cents out by largest remainder. The lines
// never add up to more than total × the sum of the shares.
func splitShares(total decimal.Decimal, members []Member) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(members))
	remainders := make([]decimal.Decimal, len(members))
	exactSum, floorSum := decimal.Zero, decimal.Zero
	var shared []int
	for i, m := range members {
		if m.ManualAmount != nil {
			continue
		}
		exact := total.Mul(pct(m.Share))
		amounts[i] = exact.RoundFloor(2)
		remainders[i] = exact.Sub(amounts[i])
		exactSum = exactSum.Add(exact)
		floorSum = floorSum.Add(amounts[i])
		shared = append(shared, i)
	}

	sort.SliceStable(shared, func(a, b int) bool {
		return remainders[shared[a]].GreaterThan(remainders[shared[b]])
	})
	leftover := exactSum.RoundFloor(2).Sub(floorSum).Mul(hundred).IntPart()
	for k := 0; k < int(leftover) && k < len(shared); k++ {
		amounts[shared[k]] = amounts[shared[k]].Add(cent)
	}
	return amounts
}

// InputFromProject builds the input from a project's contract, finances and team
func InputFromProject(p domain.Project) Input {
	members := make([]Member, 0, len(p.Team))
	for _, tm := range p.Team {
		m := Member{EmployeeID: tm.EmployeeID, Role: tm.Role, Share: tm.BonusPercent}
		if tm.BonusManual {
			amount := tm.BonusAmount
			m.ManualAmount = &amount
		}
		members = append(members, m)
	}
	return Input{
		ContractAmount:     p.Contract.Amount,
		ContractorPayments: p.Finances.ContractorPayments,
		PreExpensePercent:  p.Finances.PreExpensePercent,
		BonusPercent:       p.Finances.BonusPercent,
		Members:            members,
	}
}

// Apply writes a result back onto the project's finances and team
func Apply(p *domain.Project, r Result) {
	p.Finances.PreExpenseAmount = r.PreExpenseAmount
	p.Finances.BonusBase = r.BonusBase
	p.Finances.TotalBonusAmount = r.TotalBonusAmount
	p.Finances.Overallocated = r.Overallocated
	for _, line := range r.Lines {
		if tm := p.Member(line.EmployeeID); tm != nil {
			tm.BonusAmount = line.Amount
			tm.BonusManual = line.Manual
		}
	}
}

// ToDTO converts a result for API responses
func ToDTO(projectID string, r Result) domain.BonusDistributionDTO {
	lines := make([]domain.BonusLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, domain.BonusLineDTO{
			EmployeeID: l.EmployeeID,
			Role:       l.Role,
			Percent:    l.Share,
			Amount:     l.Amount,
			Manual:     l.Manual,
		})
	}
	return domain.BonusDistributionDTO{
		ProjectID:        projectID,
		PreExpenseAmount: r.PreExpenseAmount,
		BonusBase:        r.BonusBase,
		TotalBonusAmount: r.TotalBonusAmount,
		Allocated:        r.Allocated,
		Overallocated:    r.Overallocated,
		Lines:            lines,
	}
}
