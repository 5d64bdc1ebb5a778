package srs

import (
	"math"

	"github.com/wordtrail/reviewkit/internal/domain"
)

// This file holds the numeric recurrences of the published FSRS
// algorithm. The functions are deliberately free of scheduling policy:
// they map (weights, current memory state, rating) to the next memory
// state, and the state machine in scheduler.go decides when to apply
// which one.

const (
	minStability  = 0.001
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// decay returns the forgetting-curve decay exponent, -w[20].
func decay(w Weights) float64 {
	return -w[20]
}

// curveFactor returns the factor F such that R(t=S) = 0.9:
// F = 0.9^(1/decay) - 1.
func curveFactor(w Weights) float64 {
	return math.Pow(0.9, 1.0/decay(w)) - 1.0
}

// retrievability computes the probability of recall after elapsedDays
// given the current stability: R(t, S) = (1 + F*t/S)^decay.
func retrievability(w Weights, elapsedDays, stability float64) float64 {
	return math.Pow(1+curveFactor(w)*elapsedDays/stability, decay(w))
}

// initialStability returns S0(G) = w[G-1], clamped to the minimum.
func initialStability(w Weights, rating domain.Rating) float64 {
	return clampStability(w[rating-1])
}

// initialDifficulty returns D0(G) = w[4] - e^(w[5]*(G-1)) + 1, clamped
// to [1, 10].
func initialDifficulty(w Weights, rating domain.Rating) float64 {
	return clampDifficulty(rawInitialDifficulty(w, rating))
}

func rawInitialDifficulty(w Weights, rating domain.Rating) float64 {
	return w[4] - math.Exp(w[5]*float64(rating-1)) + 1
}

// nextDifficulty applies the linear-damping difficulty update followed
// by mean reversion toward the unclamped D0(Easy):
//
//	dD  = -w[6] * (G - 3)
//	D'  = D + (10 - D) * dD / 9
//	D'' = w[7]*D0(Easy) + (1 - w[7])*D'
func nextDifficulty(w Weights, difficulty float64, rating domain.Rating) float64 {
	deltaD := -w[6] * (float64(rating) - 3)
	damped := difficulty + (10-difficulty)*deltaD/9
	reverted := w[7]*rawInitialDifficulty(w, domain.RatingEasy) + (1-w[7])*damped
	return clampDifficulty(reverted)
}

// nextRecallStability computes stability growth after a successful
// cross-day recall (Hard/Good/Easy):
//
//	S' = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^((1-R)*w[10]) - 1) * hard * easy)
func nextRecallStability(w Weights, difficulty, stability, r float64, rating domain.Rating) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = w[16]
	}
	grown := stability * (1 + math.Exp(w[8])*
		(11-difficulty)*
		math.Pow(stability, -w[9])*
		(math.Exp((1-r)*w[10])-1)*
		hardPenalty*easyBonus)
	return clampStability(grown)
}

// nextForgetStability computes post-lapse stability as the minimum of
// the long-term forget formula and the short-term cap:
//
//	long  = w[11] * D^(-w[12]) * ((S+1)^w[13] - 1) * e^((1-R)*w[14])
//	short = S / e^(w[17] * w[18])
func nextForgetStability(w Weights, difficulty, stability, r float64) float64 {
	long := w[11] *
		math.Pow(difficulty, -w[12]) *
		(math.Pow(stability+1, w[13]) - 1) *
		math.Exp((1-r)*w[14])
	short := stability / math.Exp(w[17]*w[18])
	return clampStability(math.Min(long, short))
}

// shortTermStability computes the same-day review update:
//
//	inc = e^(w[17] * (G - 3 + w[18])) * S^(-w[19])
//	inc = max(inc, 1) for Good/Easy
//	S'  = S * inc
func shortTermStability(w Weights, stability float64, rating domain.Rating) float64 {
	inc := math.Exp(w[17]*(float64(rating)-3+w[18])) * math.Pow(stability, -w[19])
	if rating == domain.RatingGood || rating == domain.RatingEasy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextIntervalDays derives the scheduled interval from stability and
// the retention target: I = (S/F) * (retention^(1/decay) - 1), rounded
// and clamped to [1, maxInterval].
func nextIntervalDays(w Weights, stability, requestRetention float64, maxInterval int) int {
	ivl := stability / curveFactor(w) * (math.Pow(requestRetention, 1.0/decay(w)) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxInterval {
		days = maxInterval
	}
	return days
}

// clampStability floors stability at the model minimum. Out-of-range
// inputs are recovered by clamping, never rejected.
func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

// clampDifficulty clamps difficulty into [1, 10].
func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
