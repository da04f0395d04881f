package models

import "testing"

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-01", "2026-12-31", "2024-02-29"}
	for _, d := range valid {
		if !IsValidDate(d) {
			t.Errorf("expected %q valid", d)
		}
	}

	invalid := []string{"", "2026-13-01", "2026-02-30", "01/06/2026", "2026-1-1", "yesterday"}
	for _, d := range invalid {
		if IsValidDate(d) {
			t.Errorf("expected %q invalid", d)
		}
	}
}

func TestIsValidTiming(t *testing.T) {
	for _, v := range []string{TimingHoldPoint, TimingRandomCheck, TimingOther} {
		if !IsValidTiming(v) {
			t.Errorf("expected %q valid", v)
		}
	}
	if IsValidTiming("隨便") || IsValidTiming("") {
		t.Error("expected unknown timing values rejected")
	}
}

func TestIsValidResult(t *testing.T) {
	for _, v := range []string{ResultPass, ResultFail} {
		if !IsValidResult(v) {
			t.Errorf("expected %q valid", v)
		}
	}
	if IsValidResult("還好") || IsValidResult("") {
		t.Error("expected unknown result values rejected")
	}
}
