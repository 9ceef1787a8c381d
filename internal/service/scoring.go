package service

import (
	"math"

	"github.com/olegrjumin/linkrisk/internal/checker"
)

// Verdict is the discrete safety classification
type Verdict string

// Verdict constants
const (
	VerdictSafe   Verdict = "safe"
	VerdictRisky  Verdict = "risky"
	VerdictUnsafe Verdict = "unsafe"
)

// neutralScore is used when no check could be evaluated
const neutralScore = 50

// Thresholds are the inclusive lower bounds of the safe and risky bands.
// Range and ordering are enforced where the bands are configured.
type Thresholds struct {
	SafeMin  int `json:"safe_min"`
	RiskyMin int `json:"risky_min"`
}

// DefaultThresholds returns the default verdict bands: >=80 safe, >=40 risky
func DefaultThresholds() Thresholds {
	return Thresholds{SafeMin: 80, RiskyMin: 40}
}

// Classify maps a safety score to a verdict. Boundaries resolve to the lower-risk band.
func (t Thresholds) Classify(safety int) Verdict {
	switch {
	case safety >= t.SafeMin:
		return VerdictSafe
	case safety >= t.RiskyMin:
		return VerdictRisky
	default:
		return VerdictUnsafe
	}
}

// Aggregate computes the safety and risk scores from check results.
// Warn results are excluded from both sums; when nothing was evaluated the
// safety score falls back to a neutral 50.
func Aggregate(results []checker.Result) (safety, risk int) {
	var passed, evaluated int
	for _, r := range results {
		switch r.Status {
		case checker.StatusPass:
			passed += r.Weight
			evaluated += r.Weight
		case checker.StatusFail:
			evaluated += r.Weight
		}
	}

	if evaluated == 0 {
		return neutralScore, 100 - neutralScore
	}

	safety = int(math.Round(100 * float64(passed) / float64(evaluated)))
	if safety < 0 {
		safety = 0
	}
	if safety > 100 {
		safety = 100
	}
	return safety, 100 - safety
}
