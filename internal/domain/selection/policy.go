// Package selection implements the session selection policy: given a
// snapshot of candidate cards, choose and order the subset to present
// next, balancing due reviews against new-word introductions.
//
// The policy is pure. It never locks, never touches storage, and
// tolerates stale due dates in the snapshot because the scheduler
// recomputes from the live state at the moment of the actual review.
package selection

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
)

// ErrNoCandidates signals that the scoped pool was empty. It is a
// distinguishable empty result, not a failure: callers show an empty
// state instead of an error page.
var ErrNoCandidates = errors.New("selection: no candidates in scope")

// Mode selects the overall session composition strategy.
type Mode string

// Possible session modes.
const (
	// ModeStandard mixes due reviews with new introductions and
	// excludes mastered words.
	ModeStandard Mode = "standard"

	// ModeHardestWords ignores due/new partitioning and ranks purely by
	// descending cumulative error count. Mastered words are included.
	ModeHardestWords Mode = "hardest_words"

	// ModeReviewAll behaves like standard selection but keeps mastered
	// words in the pool.
	ModeReviewAll Mode = "review_all"
)

// Candidate pairs a word with its scheduling state. Card is nil for
// words the user has never reviewed and that have no materialized state
// yet.
type Candidate struct {
	Word domain.WordMeta
	Card *domain.CardState
}

// Scope restricts the candidate pool before partitioning. The zero
// value means no restriction.
type Scope struct {
	SourceID     *uuid.UUID
	CollectionID *uuid.UUID
}

// matches reports whether a word falls inside the scope.
func (s Scope) matches(w domain.WordMeta) bool {
	if s.SourceID != nil && (w.SourceID == nil || *w.SourceID != *s.SourceID) {
		return false
	}
	if s.CollectionID != nil && (w.CollectionID == nil || *w.CollectionID != *s.CollectionID) {
		return false
	}
	return true
}

// DefaultNewFraction is the minimum share of session slots reserved for
// never-reviewed words, so review-heavy sessions do not starve
// vocabulary growth.
const DefaultNewFraction = 0.2

// Policy holds the selection tunables. The zero value uses the
// defaults.
type Policy struct {
	// NewFraction is the minimum fraction of slots reserved for
	// never-reviewed words when enough exist. Zero → 0.2.
	NewFraction float64
}

// priority classes, highest first. Never-reviewed words outrank
// everything; not-yet-due cards only ever backfill.
const (
	classNeverReviewed = iota
	classDueNew
	classDueLearning
	classDueOther
	classNotDue
)

// SelectForSession chooses at most limit candidates from the pool for
// the next session.
//
// The pool is first restricted to the scope. In standard mode, mastered
// words are dropped and the rest is partitioned into never-reviewed,
// due, and not-yet-due. Slots are filled by reserving the new-word
// minimum, then taking due cards in priority order, then backfilling
// from whichever category still has candidates. Ties inside a priority
// class break by descending error count (struggling words resurface
// sooner), then ascending due date, then word term for determinism.
//
// Returns ErrNoCandidates alongside the empty slice when the scoped
// pool is empty.
func (p Policy) SelectForSession(
	pool []Candidate,
	limit int,
	scope Scope,
	mode Mode,
	now time.Time,
) ([]Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	scoped := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if scope.matches(c.Word) {
			scoped = append(scoped, c)
		}
	}
	if len(scoped) == 0 {
		return nil, ErrNoCandidates
	}

	if mode == ModeHardestWords {
		return selectHardest(scoped, limit), nil
	}

	eligible := scoped
	if mode != ModeReviewAll {
		eligible = make([]Candidate, 0, len(scoped))
		for _, c := range scoped {
			if c.Card != nil && c.Card.Status == domain.StatusMastered {
				continue
			}
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return []Candidate{}, nil
	}

	byClass := make(map[int][]Candidate, 5)
	for _, c := range eligible {
		cl := classify(c, now)
		byClass[cl] = append(byClass[cl], c)
	}
	for cl := range byClass {
		sortCandidates(byClass[cl], now)
	}

	newFraction := p.NewFraction
	if newFraction == 0 {
		newFraction = DefaultNewFraction
	}
	reserved := int(math.Ceil(newFraction * float64(limit)))

	newPool := byClass[classNeverReviewed]
	session := make([]Candidate, 0, limit)

	// Reserve the new-word minimum first.
	take := min(reserved, min(limit, len(newPool)))
	session = append(session, newPool[:take]...)
	newPool = newPool[take:]

	// Fill the remainder with due cards in priority order.
	for _, cl := range []int{classDueNew, classDueLearning, classDueOther} {
		for _, c := range byClass[cl] {
			if len(session) >= limit {
				return session, nil
			}
			session = append(session, c)
		}
	}

	// Backfill with the rest of the new pool, then with not-yet-due
	// cards.
	for _, c := range newPool {
		if len(session) >= limit {
			return session, nil
		}
		session = append(session, c)
	}
	for _, c := range byClass[classNotDue] {
		if len(session) >= limit {
			return session, nil
		}
		session = append(session, c)
	}

	return session, nil
}

// selectHardest ranks the scoped pool purely by descending error count.
func selectHardest(pool []Candidate, limit int) []Candidate {
	ranked := make([]Candidate, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		ei, ej := errorCount(ranked[i]), errorCount(ranked[j])
		if ei != ej {
			return ei > ej
		}
		return ranked[i].Word.Term < ranked[j].Word.Term
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// classify assigns a candidate to its priority class.
func classify(c Candidate, now time.Time) int {
	if c.Card == nil {
		return classNeverReviewed
	}
	if !c.Card.IsDue(now) {
		return classNotDue
	}
	if c.Card.Status == domain.StatusNew && c.Card.Reps == 0 {
		return classDueNew
	}
	if c.Card.Status == domain.StatusLearning {
		return classDueLearning
	}
	return classDueOther
}

// sortCandidates orders a priority class by descending error count,
// then ascending due date, then term.
func sortCandidates(cs []Candidate, now time.Time) {
	sort.SliceStable(cs, func(i, j int) bool {
		ei, ej := errorCount(cs[i]), errorCount(cs[j])
		if ei != ej {
			return ei > ej
		}
		di, dj := dueOrNow(cs[i], now), dueOrNow(cs[j], now)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return cs[i].Word.Term < cs[j].Word.Term
	})
}

func errorCount(c Candidate) int {
	if c.Card == nil {
		return 0
	}
	return c.Card.ErrorCount
}

func dueOrNow(c Candidate, now time.Time) time.Time {
	if c.Card == nil || c.Card.Due == nil {
		return now
	}
	return *c.Card.Due
}
