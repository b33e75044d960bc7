// Package report writes the plain text job analysis and job report for the
// top ranked listings.
package report

import (
	"fmt"
	"strings"

	"github.com/spigell/jobsai/internal/jobs"
)

const ruleWidth = 40

const (
	analysisHeader = "Job Analysis"
	reportHeader   = "Job Report"
)

// Entry is one listing of a report with the model's guidance for it.
type Entry struct {
	Job          jobs.Scored
	Instructions string
}

// Format renders the report layout. size is the requested number of jobs
// and may exceed len(entries). When noneForEmpty is set, empty skill lists
// are written as "None".
func Format(header string, size int, entries []Entry, noneForEmpty bool) string {
	lines := []string{
		header,
		strings.Repeat("=", ruleWidth),
		fmt.Sprintf("Top %d Jobs:\n", size),
	}

	for _, e := range entries {
		matched := strings.Join(e.Job.Matched, ", ")
		missing := strings.Join(e.Job.Missing, ", ")
		if noneForEmpty {
			matched = orDefault(matched, "None")
			missing = orDefault(missing, "None")
		}

		lines = append(lines,
			"Title: "+orDefault(e.Job.Title, "N/A"),
			"Company: "+orDefault(e.Job.Company, "N/A"),
			"Location: "+orDefault(e.Job.Location, "N/A"),
			fmt.Sprintf("Score: %d%%", e.Job.Score),
			"Matched Skills: "+matched,
			"Missing Skills: "+missing,
			"URL: "+orDefault(e.Job.URL, "N/A"),
			"Instructions: "+e.Instructions,
			strings.Repeat("-", ruleWidth),
		)
	}

	return strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func top(items []jobs.Scored, size int) []jobs.Scored {
	if size < 0 {
		size = 0
	}
	if len(items) > size {
		return items[:size]
	}
	return items
}
