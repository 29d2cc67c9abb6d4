package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goalweek/goalweek/internal/metrics"
	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/repository"
	"github.com/goalweek/goalweek/internal/validation"
	"github.com/goalweek/goalweek/internal/week"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrQuotaExceeded = errors.New("goal already completed this week")
)

type GoalService struct {
	store    *repository.Store
	calendar week.Calendar
	now      func() time.Time
}

func NewGoalService(store *repository.Store, calendar week.Calendar) *GoalService {
	return &GoalService{
		store:    store,
		calendar: calendar,
		now:      time.Now,
	}
}

// CurrentWeek returns the week containing the service clock's now.
func (s *GoalService) CurrentWeek() week.Window {
	return s.calendar.WindowAt(s.instant())
}

// instant reads the clock once, in UTC at the microsecond resolution
// timestamps are stored and windows are bounded with.
func (s *GoalService) instant() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *GoalService) CreateGoal(ctx context.Context, title string, desiredWeeklyFrequency int) (*model.Goal, error) {
	title, err := validation.ValidateTitle(title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	err = validation.ValidateFrequency(desiredWeeklyFrequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	goal := &model.Goal{
		ID:                     uuid.New().String(),
		Title:                  title,
		DesiredWeeklyFrequency: desiredWeeklyFrequency,
		CreatedAt:              s.instant(),
	}

	err = s.store.Goals.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	metrics.GoalCreated()
	slog.Info("goal created", "goal_id", goal.ID, "frequency", goal.DesiredWeeklyFrequency)

	return goal, nil
}

// Goals lists every goal that exists by the end of the current week, oldest first.
func (s *GoalService) Goals(ctx context.Context) ([]*model.Goal, error) {
	w := s.CurrentWeek()
	return s.store.Goals.CreatedBefore(ctx, w.End)
}

// Goal looks up a single goal. Unknown ids return repository.ErrGoalNotFound.
func (s *GoalService) Goal(ctx context.Context, goalID string) (*model.Goal, error) {
	err := validation.ValidateID(goalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	goal, err := s.store.Goals.ByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	return goal, nil
}

// PendingGoals returns every goal due this week with its completions so far.
// Goals that already reached their weekly frequency are included; callers
// compare CompletionCount with DesiredWeeklyFrequency.
func (s *GoalService) PendingGoals(ctx context.Context) ([]*model.PendingGoal, error) {
	w := s.CurrentWeek()

	pending, err := s.store.Goals.Pending(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending goals: %w", err)
	}

	return pending, nil
}

// RecordCompletion stores one completion of the goal for the current week.
// The returned snapshot carries the count the quota was checked against,
// which excludes the completion just recorded.
// Returns repository.ErrGoalNotFound for unknown goals and ErrQuotaExceeded,
// without writing, when the weekly frequency has been reached.
func (s *GoalService) RecordCompletion(ctx context.Context, goalID string) (*model.CompletionSnapshot, error) {
	err := validation.ValidateID(goalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	// The quota window and the stored timestamp come from one clock reading.
	now := s.instant()
	w := s.calendar.WindowAt(now)
	var snapshot *model.CompletionSnapshot

	err = s.store.WithinGoalLock(ctx, goalID, func(tx *repository.GoalTx) error {
		count, err := tx.Completions.CountInRange(ctx, goalID, w.Start, w.End)
		if err != nil {
			return err
		}

		if count >= tx.Goal.DesiredWeeklyFrequency {
			return ErrQuotaExceeded
		}

		completion := &model.Completion{
			ID:        uuid.New().String(),
			GoalID:    goalID,
			CreatedAt: now,
		}
		err = tx.Completions.Create(ctx, completion)
		if err != nil {
			return err
		}

		snapshot = &model.CompletionSnapshot{
			GoalID:                 goalID,
			DesiredWeeklyFrequency: tx.Goal.DesiredWeeklyFrequency,
			CompletionCount:        count,
		}
		return nil
	})

	switch {
	case err == nil:
		metrics.CompletionAttempt(metrics.CompletionAccepted)
	case errors.Is(err, ErrQuotaExceeded):
		metrics.CompletionAttempt(metrics.CompletionQuotaExceeded)
		return nil, err
	case errors.Is(err, repository.ErrGoalNotFound):
		metrics.CompletionAttempt(metrics.CompletionNotFound)
		return nil, err
	default:
		metrics.CompletionAttempt(metrics.CompletionFailed)
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	slog.Info("goal completion recorded", "goal_id", goalID, "count", snapshot.CompletionCount+1, "frequency", snapshot.DesiredWeeklyFrequency)
	return snapshot, nil
}

// WeekSummary aggregates the current week's completions per day.
func (s *GoalService) WeekSummary(ctx context.Context) (*model.WeekSummary, error) {
	w := s.CurrentWeek()

	total, err := s.store.Goals.TotalFrequency(ctx, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load week summary: %w", err)
	}

	completions, err := s.store.Completions.InRange(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load week summary: %w", err)
	}

	return &model.WeekSummary{
		WeekStart:   w.Start,
		WeekEnd:     w.End,
		Completed:   len(completions),
		Total:       total,
		GoalsPerDay: groupByDay(w, completions),
	}, nil
}

// groupByDay keys completions by local date, keeping their order within each day.
func groupByDay(w week.Window, completions []*model.WeekCompletion) map[string][]model.DayCompletion {
	days := make(map[string][]model.DayCompletion)
	for _, c := range completions {
		key := w.DateKey(c.CompletedAt)
		days[key] = append(days[key], model.DayCompletion{
			ID:          c.ID,
			Title:       c.Title,
			CompletedAt: c.CompletedAt,
		})
	}
	return days
}
