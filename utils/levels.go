package utils

import "math"

// ExperienceForLevel returns the experience needed to reach a skill level
func ExperienceForLevel(level int) int64 {
	if level < 0 {
		return 0
	}
	if level >= len(SkillLevelThresholds) {
		// Past the table every level doubles the previous requirement,
		// saturating instead of wrapping negative
		req := SkillLevelThresholds[len(SkillLevelThresholds)-1]
		for l := len(SkillLevelThresholds) - 1; l < level; l++ {
			if req > math.MaxInt64/2 {
				return math.MaxInt64
			}
			req *= 2
		}
		return req
	}
	return SkillLevelThresholds[level]
}

// SkillLevel returns the highest level reached at the given experience
func SkillLevel(experience int64) int {
	level := 0
	for l := 0; ; l++ {
		req := ExperienceForLevel(l)
		if experience < req {
			break
		}
		level = l
		// The curve has saturated; no higher level is reachable
		if req == math.MaxInt64 {
			break
		}
	}
	return level
}
