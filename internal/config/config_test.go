package config

import "testing"

func TestValidate_DevDefaults(t *testing.T) {
	cfg := &Config{
		Env:                         "development",
		CrossReactivitySevereHigh:   0.5,
		CrossReactivityModerateHigh: 0.8,
		CrossReactivityModerateMed:  0.3,
		CrossReactivityMildMed:      0.8,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresAuth(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when production has no auth configuration")
	}
}

func TestValidate_ThresholdOutOfRange(t *testing.T) {
	cfg := &Config{
		Env:                         "development",
		CrossReactivitySevereHigh:   1.5,
		CrossReactivityModerateHigh: 0.8,
		CrossReactivityModerateMed:  0.3,
		CrossReactivityMildMed:      0.8,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for threshold > 1")
	}
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := &Config{
		Env:                         "development",
		CrossReactivitySevereHigh:   0.5,
		CrossReactivityModerateHigh: 0.3,
		CrossReactivityModerateMed:  0.8,
		CrossReactivityMildMed:      0.8,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when moderate-medium exceeds moderate-high")
	}
}
