package utils

import (
	"math"
	"testing"
)

func TestSkillLevel(t *testing.T) {
	tests := []struct {
		experience int64
		want       int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{249, 1},
		{250, 2},
		{32000, 9},
	}

	for _, tt := range tests {
		if got := SkillLevel(tt.experience); got != tt.want {
			t.Errorf("SkillLevel(%d) = %d, want %d", tt.experience, got, tt.want)
		}
	}
}

func TestExperienceForLevel(t *testing.T) {
	if got := ExperienceForLevel(0); got != 0 {
		t.Errorf("ExperienceForLevel(0) = %d, want 0", got)
	}
	if got := ExperienceForLevel(1); got != 100 {
		t.Errorf("ExperienceForLevel(1) = %d, want 100", got)
	}

	// Past the configured table the requirement keeps doubling
	last := ExperienceForLevel(len(SkillLevelThresholds) - 1)
	beyond := ExperienceForLevel(len(SkillLevelThresholds))
	if beyond != last*2 {
		t.Errorf("ExperienceForLevel beyond table = %d, want %d", beyond, last*2)
	}
}

func TestLevelCurveSaturates(t *testing.T) {
	if got := ExperienceForLevel(500); got != math.MaxInt64 {
		t.Errorf("ExperienceForLevel(500) = %d, want saturation at MaxInt64", got)
	}
	if got := ExperienceForLevel(500); got < 0 {
		t.Errorf("ExperienceForLevel(500) = %d, wrapped negative", got)
	}

	// Must terminate and land past the configured table
	if got := SkillLevel(math.MaxInt64); got < len(SkillLevelThresholds) {
		t.Errorf("SkillLevel(MaxInt64) = %d, want past the threshold table", got)
	}
}

func TestLevelsRoundTrip(t *testing.T) {
	for level := 0; level < len(SkillLevelThresholds); level++ {
		threshold := ExperienceForLevel(level)
		if got := SkillLevel(threshold); got != level {
			t.Errorf("SkillLevel(ExperienceForLevel(%d)) = %d", level, got)
		}
	}
}
