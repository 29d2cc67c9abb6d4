package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/goalweek/goalweek/internal/model"
	"github.com/goalweek/goalweek/internal/week"
)

func weeklyDigestEmailTemplate(summary *model.WeekSummary, archiveURL, appName string) (string, string) {
	w := week.Window{Start: summary.WeekStart, End: summary.WeekEnd}

	subject := fmt.Sprintf("Your week on %s: %d of %d completed", appName, summary.Completed, summary.Total)

	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s to %s\n\n", w.Start.Format("Mon Jan 2"), w.End.Format("Mon Jan 2"))
	fmt.Fprintf(&b, "Completed %d of %d planned goal completions.\n", summary.Completed, summary.Total)

	for _, day := range w.Days() {
		completions := summary.GoalsPerDay[day]
		if len(completions) == 0 {
			continue
		}

		date, _ := time.ParseInLocation(week.DateLayout, day, w.Start.Location())
		fmt.Fprintf(&b, "\n%s\n", date.Format("Monday, Jan 2"))
		for _, c := range completions {
			fmt.Fprintf(&b, "  - %s at %s\n", c.Title, c.CompletedAt.In(w.Start.Location()).Format("15:04"))
		}
	}

	if summary.Completed == 0 {
		b.WriteString("\nNo completions recorded this week.\n")
	}

	if archiveURL != "" {
		fmt.Fprintf(&b, "\nFull summary: %s\n", archiveURL)
	}

	fmt.Fprintf(&b, "\nBest,\nThe %s Team", appName)

	return subject, b.String()
}
