// Package statistics estimates a binomial proportion from a running
// win count, with a normal-approximation confidence interval and the
// stop rule the equity engine uses for early termination.
package statistics

import "math"

// Default z-score, 95% confidence.
const DefaultZ = 1.96

// zTable holds z-scores for the supported confidence levels.
var zTable = map[float64]float64{
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

// ZForConfidence returns the z-score for a confidence level.
// Unsupported levels fall back to 95%.
func ZForConfidence(level float64) float64 {
	if z, ok := zTable[level]; ok {
		return z
	}
	return DefaultZ
}

// SupportedConfidence reports whether a level has a z-table entry.
func SupportedConfidence(level float64) bool {
	_, ok := zTable[level]
	return ok
}

// Proportion returns wins/trials, or 0 when no trials have run.
func Proportion(wins, trials int) float64 {
	if trials == 0 {
		return 0
	}
	return float64(wins) / float64(trials)
}

// Interval returns the point estimate and its confidence interval for
// the given z-score, using the normal approximation for a binomial
// proportion. Bounds clamp to [0,1].
func Interval(wins, trials int, z float64) (p, margin, lower, upper float64) {
	if trials == 0 {
		return 0, 0, 0, 0
	}

	p = Proportion(wins, trials)
	margin = z * math.Sqrt(p*(1-p)/float64(trials))
	lower = math.Max(0, p-margin)
	upper = math.Min(1, p+margin)
	return p, margin, lower, upper
}

// ShouldStop reports whether sampling has reached the target precision.
// It is never eligible before minTrials, so a lucky early streak cannot
// terminate the run.
func ShouldStop(wins, trials, minTrials int, targetMargin float64) bool {
	if trials < minTrials || trials == 0 {
		return false
	}
	_, margin, _, _ := Interval(wins, trials, DefaultZ)
	return margin <= targetMargin
}

// Counts accumulates trial outcomes. Batches each fill their own Counts
// and the dispatcher merges them, so no locking is needed.
type Counts struct {
	Wins   int
	Ties   int
	Trials int
}

// Add records a single trial outcome.
func (c *Counts) Add(win, tie bool) {
	c.Trials++
	if win {
		c.Wins++
	} else if tie {
		c.Ties++
	}
}

// Merge folds another batch of counts into c.
func (c *Counts) Merge(other Counts) {
	c.Wins += other.Wins
	c.Ties += other.Ties
	c.Trials += other.Trials
}
