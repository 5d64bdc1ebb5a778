// Package main implements reviewsim, a deterministic review-session
// simulator. It wires the full scheduling pipeline (selection policy,
// rating classifier, FSRS scheduler, status projection) against the
// in-memory store and replays a configurable number of simulated days
// of reviews for a single learner, driven by a seeded RNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/config"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
	"github.com/wordtrail/reviewkit/internal/domain/srs"
	"github.com/wordtrail/reviewkit/internal/events"
	"github.com/wordtrail/reviewkit/internal/platform/logger"
	"github.com/wordtrail/reviewkit/internal/platform/memory"
	"github.com/wordtrail/reviewkit/internal/service/review"
	"github.com/wordtrail/reviewkit/internal/service/session"
	"github.com/wordtrail/reviewkit/internal/store"
	"github.com/wordtrail/reviewkit/internal/task"
)

func main() {
	words := flag.Int("words", 200, "number of vocabulary words to seed")
	days := flag.Int("days", 30, "number of simulated days")
	seed := flag.Int64("seed", 1, "RNG seed")
	accuracy := flag.Float64("accuracy", 0.85, "probability a simulated answer is correct")
	flag.Parse()

	if err := run(*words, *days, *seed, *accuracy); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
}

func run(wordCount, days int, seed int64, accuracy float64) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	slogger, err := logger.Setup(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	scheduler, err := srs.NewScheduler(srs.SchedulerConfig{
		RequestRetention:     cfg.Scheduler.RequestRetention,
		MaximumInterval:      cfg.Scheduler.MaximumInterval,
		MasteryThresholdDays: cfg.Scheduler.MasteryThresholdDays,
		MasteredStability:    cfg.Scheduler.MasteredStability,
	})
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	mem := memory.NewStore()
	userID := uuid.New()
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < wordCount; i++ {
		word := domain.WordMeta{
			WordID: uuid.New(),
			Term:   fmt.Sprintf("word-%04d", i),
		}
		if err := mem.AddWord(word); err != nil {
			return fmt.Errorf("failed to seed word: %w", err)
		}
	}

	// Virtual clock: every component reads simulated time through the
	// service clock so a month of reviews replays in milliseconds.
	start := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	now := func() time.Time { return clock }

	logRunner := task.NewLogRunner(mem, 1, 1024, slogger)
	defer logRunner.Stop()

	emitter := events.NewInMemoryEmitter(slogger)
	var emitted int
	emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, event events.ReviewRecorded) error {
		emitted++
		return nil
	}))

	reviewSvc := review.NewService(mem, scheduler, slogger,
		review.WithLogRunner(logRunner),
		review.WithEmitter(emitter),
		review.WithClock(now),
	)
	sessionSvc := session.NewService(mem,
		selection.Policy{NewFraction: cfg.Session.NewFraction}, slogger)

	ctx := logger.WithLogger(context.Background(), slogger)
	modes := []domain.ReviewMode{
		domain.ModeTyping,
		domain.ModeMultipleChoice,
		domain.ModeContextListening,
	}

	var reviews int
	for day := 0; day < days; day++ {
		clock = start.AddDate(0, 0, day)

		batch, err := sessionSvc.BuildSession(ctx, userID, session.Request{
			Limit: cfg.Session.Limit,
			Mode:  selection.ModeStandard,
		})
		if err != nil {
			return fmt.Errorf("day %d: failed to build session: %w", day, err)
		}

		due := 0
		for _, c := range batch {
			if c.Card.IsDue(clock) {
				due++
			}
		}

		for _, c := range batch {
			event := simulateAttempt(rng, modes, accuracy)
			// Spread reviews across the session so same-day repeats of a
			// learning-step card see a nonzero elapsed interval.
			clock = clock.Add(30 * time.Second)
			if _, err := reviewSvc.SubmitReview(ctx, userID, c.Word.WordID, event); err != nil {
				return fmt.Errorf("day %d: failed to submit review: %w", day, err)
			}
			reviews++
		}

		slogger.Info("simulated day complete",
			slog.Int("day", day),
			slog.Int("session_size", len(batch)),
			slog.Int("due", due))
	}

	// Drain pending log appends before counting them.
	logRunner.Stop()

	reportDistribution(ctx, slogger, mem, userID, clock, reviews, emitted)
	return nil
}

// simulateAttempt rolls one review outcome. Response times cluster
// around each mode's baseline so all four ratings show up.
func simulateAttempt(rng *rand.Rand, modes []domain.ReviewMode, accuracy float64) domain.ReviewEvent {
	mode := modes[rng.Intn(len(modes))]
	correct := rng.Float64() < accuracy

	baseline := map[domain.ReviewMode]int{
		domain.ModeTyping:           5000,
		domain.ModeMultipleChoice:   3000,
		domain.ModeContextListening: 8000,
	}[mode]

	// 0.2x to 1.6x of the baseline covers Easy through Hard.
	responseMs := int(float64(baseline) * (0.2 + 1.4*rng.Float64()))

	errorCount := 0
	if !correct && rng.Float64() < 0.5 {
		errorCount = 1 + rng.Intn(2)
	}

	return domain.ReviewEvent{
		IsCorrect:      correct,
		ResponseTimeMs: responseMs,
		ErrorCount:     errorCount,
		Mode:           mode,
	}
}

// reportDistribution logs the final learning-status distribution for
// the simulated learner.
func reportDistribution(
	ctx context.Context,
	slogger *slog.Logger,
	mem *memory.Store,
	userID uuid.UUID,
	now time.Time,
	reviews, emitted int,
) {
	pool, err := mem.QueryCandidates(ctx, userID, store.CandidateFilter{IncludeMastered: true})
	if err != nil {
		slogger.Error("failed to query final pool", slog.String("error", err.Error()))
		return
	}

	counts := map[domain.LearningStatus]int{}
	untouched := 0
	for _, c := range pool {
		if c.Card == nil {
			untouched++
			continue
		}
		counts[c.Card.Status]++
	}

	slogger.Info("simulation complete",
		slog.Time("simulated_end", now),
		slog.Int("reviews", reviews),
		slog.Int("events_emitted", emitted),
		slog.Int("log_entries", mem.LogCount()),
		slog.Int("never_selected", untouched),
		slog.Int("new", counts[domain.StatusNew]),
		slog.Int("learning", counts[domain.StatusLearning]),
		slog.Int("mastered", counts[domain.StatusMastered]))
}
