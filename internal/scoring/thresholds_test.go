package scoring

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadThresholdsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	content := []byte("mega_donor_min: \"250000\"\ngrowth_rate: \"0.15\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := LoadThresholdsFile(path)
	if err != nil {
		t.Fatalf("LoadThresholdsFile: %v", err)
	}
	if !got.MegaDonorMin.Equal(dec("250000")) {
		t.Errorf("MegaDonorMin = %s, want 250000", got.MegaDonorMin)
	}
	if !got.GrowthRate.Equal(dec("0.15")) {
		t.Errorf("GrowthRate = %s, want 0.15", got.GrowthRate)
	}
	// Untouched fields keep defaults.
	if !got.MajorDonorMin.Equal(dec("10000")) {
		t.Errorf("MajorDonorMin = %s, want default 10000", got.MajorDonorMin)
	}
}

func TestLoadThresholdsFileRejectsNonMonotonic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	// mega below major breaks the level ordering.
	content := []byte("mega_donor_min: \"5000\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadThresholdsFile(path); err == nil {
		t.Fatal("expected error for non-monotonic thresholds")
	}
}

func TestDefaultThresholdsValid(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds invalid: %v", err)
	}
}
