package scoring

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Thresholds hold the donor-level cutoffs and the growth-opportunity rate.
// Levels must stay monotonic and mutually exclusive: mega > major > mid >
// upper > 0.
type Thresholds struct {
	MegaDonorMin  decimal.Decimal
	MajorDonorMin decimal.Decimal
	MidLevelMin   decimal.Decimal
	UpperDonorMin decimal.Decimal
	GrowthRate    decimal.Decimal
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MegaDonorMin:  decimal.NewFromInt(100000),
		MajorDonorMin: decimal.NewFromInt(10000),
		MidLevelMin:   decimal.NewFromInt(1000),
		UpperDonorMin: decimal.NewFromInt(100),
		GrowthRate:    decimal.RequireFromString("0.20"),
	}
}

type thresholdsFile struct {
	MegaDonorMin  string `yaml:"mega_donor_min"`
	MajorDonorMin string `yaml:"major_donor_min"`
	MidLevelMin   string `yaml:"mid_level_min"`
	UpperDonorMin string `yaml:"upper_donor_min"`
	GrowthRate    string `yaml:"growth_rate"`
}

// LoadThresholdsFile reads a YAML override file. Fields left empty keep
// their defaults; the resulting table is validated before use.
func LoadThresholdsFile(path string) (Thresholds, error) {
	t := DefaultThresholds()

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds file: %w", err)
	}
	var f thresholdsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return t, fmt.Errorf("parse thresholds file: %w", err)
	}

	if err := overrideDecimal(&t.MegaDonorMin, "mega_donor_min", f.MegaDonorMin); err != nil {
		return t, err
	}
	if err := overrideDecimal(&t.MajorDonorMin, "major_donor_min", f.MajorDonorMin); err != nil {
		return t, err
	}
	if err := overrideDecimal(&t.MidLevelMin, "mid_level_min", f.MidLevelMin); err != nil {
		return t, err
	}
	if err := overrideDecimal(&t.UpperDonorMin, "upper_donor_min", f.UpperDonorMin); err != nil {
		return t, err
	}
	if err := overrideDecimal(&t.GrowthRate, "growth_rate", f.GrowthRate); err != nil {
		return t, err
	}

	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func overrideDecimal(dst *decimal.Decimal, name, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("thresholds: %s: %w", name, err)
	}
	*dst = d
	return nil
}

func (t Thresholds) Validate() error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"mega_donor_min", t.MegaDonorMin},
		{"major_donor_min", t.MajorDonorMin},
		{"mid_level_min", t.MidLevelMin},
		{"upper_donor_min", t.UpperDonorMin},
		{"growth_rate", t.GrowthRate},
	} {
		if !f.value.IsPositive() {
			return fmt.Errorf("thresholds: %s must be positive, got %s", f.name, f.value)
		}
	}
	if !t.MegaDonorMin.GreaterThan(t.MajorDonorMin) ||
		!t.MajorDonorMin.GreaterThan(t.MidLevelMin) ||
		!t.MidLevelMin.GreaterThan(t.UpperDonorMin) {
		return fmt.Errorf("thresholds: level cutoffs must be strictly decreasing (mega > major > mid > upper)")
	}
	return nil
}
