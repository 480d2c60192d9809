// Package level converts bumpkin experience points into a level.
package level

// thresholds[i] is the experience required to reach level i+1.
var thresholds = []float64{
	0, 5, 15, 50, 120, 200, 300, 450, 600, 800,
	1000, 1250, 1500, 1800, 2200, 2600, 3100, 3600, 4200, 4800,
	5500, 6300, 7200, 8200, 9300, 10500, 11800, 13200, 14700, 16300,
}

const MaxLevel = 30

// BumpkinLevel returns the highest level whose threshold has been reached.
// Negative experience is treated as zero.
func BumpkinLevel(experience float64) int {
	lvl := 1
	for i, required := range thresholds {
		if experience < required {
			break
		}
		lvl = i + 1
	}
	return lvl
}

// ExperienceToNextLevel returns the points still missing for the next level,
// or zero at MaxLevel.
func ExperienceToNextLevel(experience float64) float64 {
	lvl := BumpkinLevel(experience)
	if lvl >= MaxLevel {
		return 0
	}
	if experience < 0 {
		experience = 0
	}
	return thresholds[lvl] - experience
}
