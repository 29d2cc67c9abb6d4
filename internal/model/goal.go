package model

import (
	"time"
)

const (
	MinWeeklyFrequency = 1
	MaxWeeklyFrequency = 7
)

type Goal struct {
	ID                     string    `db:"id" json:"id"`
	Title                  string    `db:"title" json:"title"`
	DesiredWeeklyFrequency int       `db:"desired_weekly_frequency" json:"desiredWeeklyFrequency"`
	CreatedAt              time.Time `db:"created_at" json:"createdAt"`
}

// PendingGoal is a goal due this week together with its completions so far.
type PendingGoal struct {
	ID                     string `db:"id" json:"id"`
	Title                  string `db:"title" json:"title"`
	DesiredWeeklyFrequency int    `db:"desired_weekly_frequency" json:"desiredWeeklyFrequency"`
	CompletionCount        int    `db:"completion_count" json:"completionCount"`
}
