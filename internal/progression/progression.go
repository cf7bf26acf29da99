// Package progression holds the experience and level arithmetic.
package progression

import "math"

// MaxThreshold is where XPToNextLevel saturates once the curve outgrows int.
const MaxThreshold = math.MaxInt

// XPToNextLevel returns the experience needed to advance past level.
// Levels below 1 are treated as level 1.
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	need := math.Floor(100 * math.Pow(1.5, float64(level-1)))
	if need >= math.MaxInt64 {
		return MaxThreshold
	}
	return int(need)
}

// Result is a resolved level and the experience carried into it.
type Result struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
	// LevelsGained counts how many thresholds were crossed.
	LevelsGained int `json:"levelsGained"`
}

// ApplyLevelUps spends xp on level thresholds until the remainder no longer
// reaches the next one. The returned XP is always below XPToNextLevel(Level).
func ApplyLevelUps(level, xp int) Result {
	if level < 1 {
		level = 1
	}
	if xp < 0 {
		xp = 0
	}
	res := Result{Level: level, XP: xp}
	for need := XPToNextLevel(res.Level); res.XP >= need; need = XPToNextLevel(res.Level) {
		res.XP -= need
		res.Level++
		res.LevelsGained++
		// past saturation xp can cross at most one more threshold
		if need == MaxThreshold {
			break
		}
	}
	return res
}

// AddXP adds gain to xp without wrapping past MaxThreshold.
func AddXP(xp, gain int) int {
	if gain > 0 && xp > MaxThreshold-gain {
		return MaxThreshold
	}
	return xp + gain
}

// Fraction reports how far xp is toward the next level, in [0, 1).
func Fraction(level, xp int) float64 {
	need := XPToNextLevel(level)
	if need <= 0 || xp <= 0 {
		return 0
	}
	f := float64(xp) / float64(need)
	if f >= 1 {
		return math.Nextafter(1, 0)
	}
	return f
}
