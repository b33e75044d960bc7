package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/jobs"
	"github.com/spigell/jobsai/internal/profile"
)

type fakeLLM struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeLLM) Complete(_ context.Context, _, user string, _ int) (string, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newStore(t *testing.T) *artifacts.Store {
	t.Helper()
	store, err := artifacts.NewStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

var run = artifacts.Run{Started: time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)}

func scoredJobs() []jobs.Scored {
	return []jobs.Scored{
		{
			Listing: jobs.Listing{Title: "Python Developer", Company: "Acme", Location: "Helsinki", URL: "https://x/1", Snippet: "short", FullDescription: "long python text"},
			Score:   50, Matched: []string{"Python"}, Missing: []string{"AWS"},
		},
		{
			Listing: jobs.Listing{Snippet: "only a snippet"},
			Score:   0, Matched: []string{}, Missing: []string{"Python", "AWS"},
		},
		{Listing: jobs.Listing{Title: "third"}, Score: 0},
	}
}

func TestFormatAnalysisLayout(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Job: scoredJobs()[0], Instructions: "Stress Python."},
		{Job: scoredJobs()[1], Instructions: "Be brief."},
	}

	got := Format(analysisHeader, 2, entries, true)
	want := strings.Join([]string{
		"Job Analysis",
		strings.Repeat("=", 40),
		"Top 2 Jobs:",
		"",
		"Title: Python Developer",
		"Company: Acme",
		"Location: Helsinki",
		"Score: 50%",
		"Matched Skills: Python",
		"Missing Skills: AWS",
		"URL: https://x/1",
		"Instructions: Stress Python.",
		strings.Repeat("-", 40),
		"Title: N/A",
		"Company: N/A",
		"Location: N/A",
		"Score: 0%",
		"Matched Skills: None",
		"Missing Skills: Python, AWS",
		"URL: N/A",
		"Instructions: Be brief.",
		strings.Repeat("-", 40),
	}, "\n")

	if got != want {
		t.Fatalf("unexpected layout:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFormatReportKeepsEmptySkills(t *testing.T) {
	t.Parallel()

	got := Format(reportHeader, 5, []Entry{{Job: scoredJobs()[2]}}, false)
	if !strings.Contains(got, "Matched Skills: \n") || !strings.Contains(got, "Missing Skills: \n") {
		t.Fatalf("expected empty skill lines, got:\n%s", got)
	}
	if !strings.HasPrefix(got, "Job Report\n") || !strings.Contains(got, "Top 5 Jobs:") {
		t.Fatalf("unexpected header:\n%s", got)
	}
}

func TestAnalyzerWrite(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	llm := &fakeLLM{reply: "  Stress Python.\r\n\r\n\r\n\r\nMention Helsinki.  "}

	text, err := NewAnalyzer(llm, store, 0, zap.NewNop()).Write(context.Background(), run, scoredJobs(), "A Python developer.", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(llm.prompts) != 2 {
		t.Fatalf("expected one call per selected job, got %d", len(llm.prompts))
	}
	if !strings.Contains(llm.prompts[0], "long python text") || !strings.Contains(llm.prompts[0], "A Python developer.") {
		t.Fatalf("expected full description and profile in prompt: %s", llm.prompts[0])
	}
	if !strings.Contains(llm.prompts[1], "only a snippet") {
		t.Fatalf("expected snippet fallback in prompt: %s", llm.prompts[1])
	}
	if !strings.Contains(text, "Instructions: Stress Python.\n\nMention Helsinki.") {
		t.Fatalf("expected normalized instructions, got:\n%s", text)
	}

	saved, err := os.ReadFile(store.Path(artifacts.Analyses, "20251103_093000_job_analysis.txt"))
	if err != nil {
		t.Fatalf("reading saved analysis: %v", err)
	}
	if string(saved) != text {
		t.Fatalf("saved analysis differs from returned text")
	}
}

func TestAnalyzerErrors(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(&fakeLLM{}, nil, 0, nil)
	if _, err := analyzer.Write(context.Background(), run, nil, "", 5); !errors.Is(err, ErrNoJobs) {
		t.Fatalf("expected ErrNoJobs, got %v", err)
	}

	failing := NewAnalyzer(&fakeLLM{err: errors.New("quota")}, nil, 0, nil)
	if _, err := failing.Write(context.Background(), run, scoredJobs(), "", 5); err == nil {
		t.Fatal("expected llm error to propagate")
	}
}

func TestReporterGenerate(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	llm := &fakeLLM{reply: "Stress Python."}
	reporter := NewReporter(llm, store, 0, zap.NewNop())

	empty, err := reporter.Generate(context.Background(), run, profile.SkillProfile{}, 5)
	if err != nil || empty != "" {
		t.Fatalf("expected empty report without scored file, got %q, %v", empty, err)
	}

	unsorted := scoredJobs()
	unsorted[0], unsorted[2] = unsorted[2], unsorted[0]
	if _, err := store.WriteJSON(artifacts.Scored, artifacts.ScoredName(run), unsorted); err != nil {
		t.Fatal(err)
	}

	text, err := reporter.Generate(context.Background(), run, profile.SkillProfile{Name: "Ada"}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Title: Python Developer") || strings.Contains(text, "Title: third") {
		t.Fatalf("expected only the best job in report:\n%s", text)
	}
	if !strings.Contains(llm.prompts[0], `"name": "Ada"`) {
		t.Fatalf("expected skill profile json in prompt: %s", llm.prompts[0])
	}
	if _, err := os.Stat(store.Path(artifacts.Reports, "20251103_093000_job_report.txt")); err != nil {
		t.Fatalf("expected saved report: %v", err)
	}
}
