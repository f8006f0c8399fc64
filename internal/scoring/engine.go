package scoring

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DonorLevel string

const (
	DonorLevelMega  DonorLevel = "mega_donor"
	DonorLevelMajor DonorLevel = "major_donor"
	DonorLevelMid   DonorLevel = "mid_level"
	DonorLevelUpper DonorLevel = "upper_donor"
	DonorLevelLower DonorLevel = "lower_donor"
)

type PriorityLevel string

const (
	Priority1 PriorityLevel = "priority_1"
	Priority2 PriorityLevel = "priority_2"
	Priority3 PriorityLevel = "priority_3"
	Priority4 PriorityLevel = "priority_4"
	Priority5 PriorityLevel = "priority_5"
)

const (
	BasisFullLastYear      = "full last year amount"
	BasisDeltaLastYear     = "delta from last year"
	BasisTwoYearsAgo       = "two-years-ago gift amount"
	BasisOlderYear         = "older-year gift amount"
	BasisGrowthOpportunity = "20% growth opportunity"
)

// Input is one donor's giving history bucketed into rolling annual windows
// anchored at the batch run time: current 0-12 months back, last 12-24,
// two-years-ago 24-36, older 36-48. Zero values stand in for absent fields;
// a donor with no history scores normally.
type Input struct {
	DonorID           string
	CurrentYearTotal  decimal.Decimal
	LastYearTotal     decimal.Decimal
	TwoYearsAgoTotal  decimal.Decimal
	OlderYearTotal    decimal.Decimal
	LargestGiftAmount decimal.Decimal
	LastGiftDate      *time.Time
	HasExclusionTag   bool
}

// Result is the engine's output record. YoYPercentChange is nil exactly when
// LastYearTotal is zero.
type Result struct {
	DonorID           string
	DonorLevel        DonorLevel
	PriorityLevel     PriorityLevel
	OpportunityAmount decimal.Decimal
	OpportunityBasis  string
	YoYDollarChange   decimal.Decimal
	YoYPercentChange  *decimal.Decimal
	HasExclusionTag   bool
	LastGiftDate      *time.Time
}

// ValidationError rejects a malformed input before scoring. The caller skips
// the donor and carries on; one bad donor never aborts a batch.
type ValidationError struct {
	DonorID string
	Field   string
	Value   decimal.Decimal
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scoring: donor %s: %s is negative (%s)", e.DonorID, e.Field, e.Value)
}

// Engine classifies donors into levels and priority tiers and estimates the
// opportunity amount for outreach. It is a pure function of its input: no
// I/O, no hidden state, identical inputs produce identical results.
type Engine struct {
	thresholds Thresholds
}

func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

func (e *Engine) Score(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	res := Result{
		DonorID:         in.DonorID,
		DonorLevel:      e.donorLevel(in),
		HasExclusionTag: in.HasExclusionTag,
		LastGiftDate:    in.LastGiftDate,
	}

	res.PriorityLevel, res.OpportunityAmount, res.OpportunityBasis = e.priority(in)

	res.YoYDollarChange = in.CurrentYearTotal.Sub(in.LastYearTotal)
	if in.LastYearTotal.IsPositive() {
		pct := res.YoYDollarChange.Div(in.LastYearTotal).Mul(decimal.NewFromInt(100))
		res.YoYPercentChange = &pct
	}

	return res, nil
}

func validate(in Input) error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"current_year_total", in.CurrentYearTotal},
		{"last_year_total", in.LastYearTotal},
		{"two_years_ago_total", in.TwoYearsAgoTotal},
		{"older_year_total", in.OlderYearTotal},
		{"largest_gift_amount", in.LargestGiftAmount},
	} {
		if f.value.IsNegative() {
			return &ValidationError{DonorID: in.DonorID, Field: f.name, Value: f.value}
		}
	}
	return nil
}

// donorLevel tiers the donor by the larger of the largest single gift and the
// current-year total. Thresholds are inclusive on the lower bound.
func (e *Engine) donorLevel(in Input) DonorLevel {
	magnitude := in.LargestGiftAmount
	if in.CurrentYearTotal.GreaterThan(magnitude) {
		magnitude = in.CurrentYearTotal
	}
	t := e.thresholds
	switch {
	case magnitude.GreaterThanOrEqual(t.MegaDonorMin):
		return DonorLevelMega
	case magnitude.GreaterThanOrEqual(t.MajorDonorMin):
		return DonorLevelMajor
	case magnitude.GreaterThanOrEqual(t.MidLevelMin):
		return DonorLevelMid
	case magnitude.GreaterThanOrEqual(t.UpperDonorMin):
		return DonorLevelUpper
	default:
		return DonorLevelLower
	}
}

// priority evaluates the five tier rules in fixed order; the first match
// wins. The opportunity amount falls out of the matched rule, so it is
// non-negative by construction for non-negative inputs (rule 2's subtraction
// only runs when last > current).
func (e *Engine) priority(in Input) (PriorityLevel, decimal.Decimal, string) {
	current := in.CurrentYearTotal
	last := in.LastYearTotal
	twoAgo := in.TwoYearsAgoTotal
	older := in.OlderYearTotal

	switch {
	case current.IsZero() && last.IsPositive():
		// Gave last year, nothing yet this year.
		return Priority1, last, BasisFullLastYear
	case last.GreaterThan(current) && current.IsPositive():
		// Giving is declining but not yet zero.
		return Priority2, last.Sub(current), BasisDeltaLastYear
	case current.IsZero() && last.IsZero() && twoAgo.IsPositive():
		// Lapsed two cycles.
		return Priority3, twoAgo, BasisTwoYearsAgo
	case current.IsZero() && last.IsZero() && twoAgo.IsZero() && older.IsPositive():
		// Lapsed three or more cycles.
		return Priority4, older, BasisOlderYear
	default:
		// Healthy or growing donor.
		return Priority5, current.Mul(e.thresholds.GrowthRate), BasisGrowthOpportunity
	}
}
