package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegrjumin/linkrisk/internal/checker"
)

func result(status checker.Status, weight int) checker.Result {
	return checker.Result{Name: "c", Status: status, Weight: weight}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		results []checker.Result
		safety  int
	}{
		{"all pass", []checker.Result{result(checker.StatusPass, 30), result(checker.StatusPass, 5)}, 100},
		{"all fail", []checker.Result{result(checker.StatusFail, 30), result(checker.StatusFail, 5)}, 0},
		{"warn excluded", []checker.Result{result(checker.StatusPass, 30), result(checker.StatusWarn, 30)}, 100},
		{"all warn", []checker.Result{result(checker.StatusWarn, 30), result(checker.StatusWarn, 5)}, 50},
		{"empty", nil, 50},
		{"zero weights", []checker.Result{result(checker.StatusPass, 0), result(checker.StatusFail, 0)}, 50},
		{"rounds half up", []checker.Result{result(checker.StatusPass, 1), result(checker.StatusFail, 1)}, 50},
		{"rounds", []checker.Result{result(checker.StatusPass, 130), result(checker.StatusFail, 40)}, 76},
		{"rounds up", []checker.Result{result(checker.StatusPass, 2), result(checker.StatusFail, 1)}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safety, risk := Aggregate(tt.results)
			assert.Equal(t, tt.safety, safety)
			assert.Equal(t, 100, safety+risk)
		})
	}
}

func TestAggregateBoundsAndMonotonicity(t *testing.T) {
	weights := []int{30, 30, 20, 20, 5, 15, 5, 10, 5, 30}
	statuses := []checker.Status{checker.StatusPass, checker.StatusFail, checker.StatusWarn}

	// walk every status assignment in base 3 over a prefix of the battery
	n := 7
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	for mask := 0; mask < total; mask++ {
		results := make([]checker.Result, len(weights))
		m := mask
		for i := range weights {
			st := checker.StatusPass
			if i < n {
				st = statuses[m%3]
				m /= 3
			}
			results[i] = result(st, weights[i])
		}

		safety, risk := Aggregate(results)
		assert.GreaterOrEqual(t, safety, 0)
		assert.LessOrEqual(t, safety, 100)
		assert.Equal(t, 100, safety+risk)

		for i := range results {
			if results[i].Status != checker.StatusFail {
				continue
			}
			flipped := append([]checker.Result(nil), results...)
			flipped[i].Status = checker.StatusPass
			after, _ := Aggregate(flipped)
			assert.GreaterOrEqual(t, after, safety, "flipping check %d to pass lowered the score", i)
		}
	}
}

func TestThresholdsClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		safety int
		want   Verdict
	}{
		{100, VerdictSafe},
		{80, VerdictSafe},
		{79, VerdictRisky},
		{40, VerdictRisky},
		{39, VerdictUnsafe},
		{0, VerdictUnsafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.safety), "safety %d", tt.safety)
	}

	custom := Thresholds{SafeMin: 90, RiskyMin: 60}
	assert.Equal(t, VerdictRisky, custom.Classify(80))
	assert.Equal(t, VerdictUnsafe, custom.Classify(59))
}
