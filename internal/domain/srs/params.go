package srs

import (
	"errors"
	"fmt"
	"time"
)

// WeightCount is the number of trainable FSRS model weights.
const WeightCount = 21

// Weights is the FSRS model weight vector. Indexes follow the published
// algorithm: w[0..3] initial stability per rating, w[4..7] difficulty,
// w[8..10] recall stability, w[11..14] forget stability, w[15..16]
// hard penalty and easy bonus, w[17..19] short-term stability, w[20]
// the decay exponent.
type Weights [WeightCount]float64

// DefaultWeights are the published FSRS default parameter values.
var DefaultWeights = Weights{
	0.212, 1.2931, 2.3065, 8.2956,
	6.4133, 0.8334, 3.0194, 0.001,
	1.8722, 0.1666, 0.796, 1.4835,
	0.0614, 0.2629, 1.6483, 0.6014,
	1.8729, 0.5425, 0.0912, 0.0658,
	0.1542,
}

// weightLowerBounds and weightUpperBounds delimit the valid range of
// each weight, matching the bounds used by the reference optimizer.
var (
	weightLowerBounds = Weights{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightUpperBounds = Weights{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// ErrInvalidWeights is returned when a weight falls outside its bounds.
var ErrInvalidWeights = errors.New("srs: weights out of bounds")

// ValidateWeights checks that every weight lies within the range the
// reference optimizer allows.
func ValidateWeights(w Weights) error {
	for i := 0; i < WeightCount; i++ {
		if w[i] < weightLowerBounds[i] || w[i] > weightUpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidWeights, i, w[i], weightLowerBounds[i], weightUpperBounds[i])
		}
	}
	return nil
}

// Default scheduler tunables.
const (
	DefaultRequestRetention     = 0.9
	DefaultMaximumInterval      = 36500
	DefaultMasteryThresholdDays = 21.0
	DefaultMasteredStability    = 365.0
)

// SchedulerConfig configures a Scheduler. The zero value of each field
// selects the documented default, so SchedulerConfig{} is usable as-is.
//
// The weight vector is explicit configuration rather than shared
// module-level state so that per-deck tunings can coexist and tests can
// inject fixed weights.
type SchedulerConfig struct {
	Weights          Weights         // zero value → DefaultWeights
	RequestRetention float64         // zero → 0.9
	MaximumInterval  int             // days; zero → 36500
	LearningSteps    []time.Duration // nil → [1m, 10m]; empty slice → no steps
	RelearningSteps  []time.Duration // nil → [10m]; empty slice → no steps

	// MasteryThresholdDays is the stability above which a Review-state
	// card projects to MASTERED. Product policy, not derived from the
	// retention target; zero → 21.
	MasteryThresholdDays float64

	// MasteredStability is the stability pinned by the explicit
	// mark-as-mastered override. Zero → 365.
	MasteredStability float64
}

// withDefaults returns a copy of cfg with zero-valued fields replaced
// by their defaults.
func (cfg SchedulerConfig) withDefaults() SchedulerConfig {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if cfg.RequestRetention == 0 {
		cfg.RequestRetention = DefaultRequestRetention
	}
	if cfg.MaximumInterval == 0 {
		cfg.MaximumInterval = DefaultMaximumInterval
	}
	if cfg.LearningSteps == nil {
		cfg.LearningSteps = []time.Duration{time.Minute, 10 * time.Minute}
	}
	if cfg.RelearningSteps == nil {
		cfg.RelearningSteps = []time.Duration{10 * time.Minute}
	}
	if cfg.MasteryThresholdDays == 0 {
		cfg.MasteryThresholdDays = DefaultMasteryThresholdDays
	}
	if cfg.MasteredStability == 0 {
		cfg.MasteredStability = DefaultMasteredStability
	}
	return cfg
}

// validate checks the filled-in config for out-of-range values.
func (cfg SchedulerConfig) validate() error {
	if err := ValidateWeights(cfg.Weights); err != nil {
		return err
	}
	if cfg.RequestRetention <= 0 || cfg.RequestRetention > 1 {
		return fmt.Errorf("srs: request retention %f out of range (0, 1]", cfg.RequestRetention)
	}
	if cfg.MaximumInterval < 1 {
		return fmt.Errorf("srs: maximum interval %d must be at least 1 day", cfg.MaximumInterval)
	}
	if cfg.MasteryThresholdDays < 0 {
		return fmt.Errorf("srs: mastery threshold %f must not be negative", cfg.MasteryThresholdDays)
	}
	if cfg.MasteredStability <= 0 {
		return fmt.Errorf("srs: mastered stability %f must be positive", cfg.MasteredStability)
	}
	return nil
}
