package domain

import "fmt"

// Rating is the coarse 4-level review feedback fed into the scheduler.
// The ordinal values (1-4) participate directly in the FSRS formulas,
// so they must not be reordered.
type Rating int

// Possible rating values, from worst to best recall.
const (
	RatingAgain Rating = iota + 1 // Failed to recall, or any error during the attempt.
	RatingHard                    // Recalled, but slower than the mode baseline.
	RatingGood                    // Recalled within the mode baseline.
	RatingEasy                    // Recalled in under half the mode baseline.
)

var ratingNames = map[Rating]string{
	RatingAgain: "again",
	RatingHard:  "hard",
	RatingGood:  "good",
	RatingEasy:  "easy",
}

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// String returns the lowercase name of the rating. Invalid values
// render as "rating(n)".
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rating(%d)", int(r))
}
