package model

import (
	"time"
)

type Completion struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// WeekCompletion is a completion joined with the title of its goal.
type WeekCompletion struct {
	ID          string    `db:"id"`
	GoalID      string    `db:"goal_id"`
	Title       string    `db:"title"`
	CompletedAt time.Time `db:"completed_at"`
}

// CompletionSnapshot is the quota state a completion was accepted against.
// CompletionCount does not include the completion that was just recorded.
type CompletionSnapshot struct {
	GoalID                 string `json:"goalId"`
	DesiredWeeklyFrequency int    `json:"desiredWeeklyFrequency"`
	CompletionCount        int    `json:"completionCount"`
}
