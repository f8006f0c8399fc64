package scoring

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestScoreExampleScenarios(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	cases := []struct {
		name        string
		in          Input
		wantLevel   DonorLevel
		wantTier    PriorityLevel
		wantOpp     string
		wantBasis   string
	}{
		{
			name:      "gave last year nothing this year",
			in:        Input{LastYearTotal: dec("5000")},
			wantLevel: DonorLevelMid,
			wantTier:  Priority1,
			wantOpp:   "5000",
			wantBasis: BasisFullLastYear,
		},
		{
			name: "declining but not zero",
			in: Input{
				CurrentYearTotal: dec("2000"),
				LastYearTotal:    dec("5000"),
				TwoYearsAgoTotal: dec("1000"),
			},
			wantLevel: DonorLevelMid,
			wantTier:  Priority2,
			wantOpp:   "3000",
			wantBasis: BasisDeltaLastYear,
		},
		{
			name:      "lapsed two cycles",
			in:        Input{TwoYearsAgoTotal: dec("8000")},
			wantLevel: DonorLevelLower,
			wantTier:  Priority3,
			wantOpp:   "8000",
			wantBasis: BasisTwoYearsAgo,
		},
		{
			name:      "lapsed three cycles",
			in:        Input{OlderYearTotal: dec("1500")},
			wantLevel: DonorLevelLower,
			wantTier:  Priority4,
			wantOpp:   "1500",
			wantBasis: BasisOlderYear,
		},
		{
			name: "growing donor gets growth opportunity",
			in: Input{
				CurrentYearTotal: dec("12000"),
				LastYearTotal:    dec("10000"),
			},
			wantLevel: DonorLevelMajor,
			wantTier:  Priority5,
			wantOpp:   "2400",
			wantBasis: BasisGrowthOpportunity,
		},
		{
			name: "level driven by largest gift not current total",
			in: Input{
				CurrentYearTotal:  dec("500"),
				LastYearTotal:     dec("500"),
				LargestGiftAmount: dec("150000"),
			},
			wantLevel: DonorLevelMega,
			wantTier:  Priority5,
			wantOpp:   "100",
			wantBasis: BasisGrowthOpportunity,
		},
		{
			name:      "no giving history at all",
			in:        Input{},
			wantLevel: DonorLevelLower,
			wantTier:  Priority5,
			wantOpp:   "0",
			wantBasis: BasisGrowthOpportunity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Score(tc.in)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got.DonorLevel != tc.wantLevel {
				t.Errorf("DonorLevel = %s, want %s", got.DonorLevel, tc.wantLevel)
			}
			if got.PriorityLevel != tc.wantTier {
				t.Errorf("PriorityLevel = %s, want %s", got.PriorityLevel, tc.wantTier)
			}
			if !got.OpportunityAmount.Equal(dec(tc.wantOpp)) {
				t.Errorf("OpportunityAmount = %s, want %s", got.OpportunityAmount, tc.wantOpp)
			}
			if got.OpportunityBasis != tc.wantBasis {
				t.Errorf("OpportunityBasis = %q, want %q", got.OpportunityBasis, tc.wantBasis)
			}
			if got.OpportunityAmount.IsNegative() {
				t.Errorf("OpportunityAmount is negative: %s", got.OpportunityAmount)
			}
		})
	}
}

func TestDonorLevelBoundsAreInclusive(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	cases := []struct {
		amount string
		want   DonorLevel
	}{
		{"100000", DonorLevelMega},
		{"99999.99", DonorLevelMajor},
		{"10000", DonorLevelMajor},
		{"9999.99", DonorLevelMid},
		{"1000", DonorLevelMid},
		{"999.99", DonorLevelUpper},
		{"100", DonorLevelUpper},
		{"99.99", DonorLevelLower},
		{"0", DonorLevelLower},
	}
	for _, tc := range cases {
		got, err := e.Score(Input{LargestGiftAmount: dec(tc.amount)})
		if err != nil {
			t.Fatalf("Score(%s): %v", tc.amount, err)
		}
		if got.DonorLevel != tc.want {
			t.Errorf("largest_gift=%s: DonorLevel = %s, want %s", tc.amount, got.DonorLevel, tc.want)
		}
	}
}

func TestPriorityRuleOrderWins(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	// Satisfies rule 1; older history must not pull it to rule 3 or 4.
	got, err := e.Score(Input{
		LastYearTotal:    dec("500"),
		TwoYearsAgoTotal: dec("9000"),
		OlderYearTotal:   dec("9000"),
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.PriorityLevel != Priority1 {
		t.Fatalf("PriorityLevel = %s, want %s (rule order must win)", got.PriorityLevel, Priority1)
	}
	if !got.OpportunityAmount.Equal(dec("500")) {
		t.Fatalf("OpportunityAmount = %s, want 500", got.OpportunityAmount)
	}
}

func TestYoYMetrics(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	t.Run("percentage defined when last year positive", func(t *testing.T) {
		got, err := e.Score(Input{
			CurrentYearTotal: dec("2000"),
			LastYearTotal:    dec("5000"),
		})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if !got.YoYDollarChange.Equal(dec("-3000")) {
			t.Errorf("YoYDollarChange = %s, want -3000", got.YoYDollarChange)
		}
		if got.YoYPercentChange == nil {
			t.Fatal("YoYPercentChange = nil, want -60")
		}
		if !got.YoYPercentChange.Equal(dec("-60")) {
			t.Errorf("YoYPercentChange = %s, want -60", got.YoYPercentChange)
		}
	})

	t.Run("percentage nil iff last year zero", func(t *testing.T) {
		got, err := e.Score(Input{CurrentYearTotal: dec("1000")})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got.YoYPercentChange != nil {
			t.Errorf("YoYPercentChange = %s, want nil", got.YoYPercentChange)
		}
		if !got.YoYDollarChange.Equal(dec("1000")) {
			t.Errorf("YoYDollarChange = %s, want 1000", got.YoYDollarChange)
		}
	})
}

func TestScoreRejectsNegativeAmounts(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	_, err := e.Score(Input{DonorID: "d1", LastYearTotal: dec("-5")})
	if err == nil {
		t.Fatal("expected validation error for negative amount")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if ve.Field != "last_year_total" {
		t.Errorf("Field = %q, want last_year_total", ve.Field)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	in := Input{
		DonorID:           "d1",
		CurrentYearTotal:  dec("123.45"),
		LastYearTotal:     dec("678.90"),
		TwoYearsAgoTotal:  dec("10"),
		LargestGiftAmount: dec("678.90"),
		HasExclusionTag:   true,
	}

	a, err := e.Score(in)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	b, err := e.Score(in)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if a.PriorityLevel != b.PriorityLevel ||
		a.DonorLevel != b.DonorLevel ||
		!a.OpportunityAmount.Equal(b.OpportunityAmount) ||
		a.OpportunityBasis != b.OpportunityBasis ||
		!a.YoYDollarChange.Equal(b.YoYDollarChange) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	if !a.HasExclusionTag {
		t.Error("HasExclusionTag not carried through")
	}
}
