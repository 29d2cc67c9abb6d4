package model

import (
	"time"
)

type DayCompletion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completedAt"`
}

// WeekSummary aggregates the completions of one calendar week.
// GoalsPerDay is keyed by date (YYYY-MM-DD); days without completions are absent.
type WeekSummary struct {
	WeekStart   time.Time                  `json:"weekStart"`
	WeekEnd     time.Time                  `json:"weekEnd"`
	Completed   int                        `json:"completed"`
	Total       int                        `json:"total"`
	GoalsPerDay map[string][]DayCompletion `json:"goalsPerDay"`
}
