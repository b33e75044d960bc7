package profile

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobsai/internal/artifacts"
)

type fakeLLM struct {
	responses []string
	err       error
	systems   []string
	prompts   []string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string, _ int) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("unexpected call")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func newTestStore(t *testing.T) (*artifacts.Store, *Store) {
	t.Helper()
	a, err := artifacts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return a, NewStore(a, zap.NewNop())
}

func testAnswers(t *testing.T) Answers {
	t.Helper()
	a, err := ParseAnswers([]byte(samplePayload))
	if err != nil {
		t.Fatalf("parsing answers: %v", err)
	}
	return a
}

func TestAssessSavesFirstProfile(t *testing.T) {
	a, store := newTestStore(t)
	client := &fakeLLM{responses: []string{`{"name": "Ada", "core_languages": ["py"]}`}}
	run := artifacts.NewRun(time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC))

	p, err := NewProfiler(client, store, 0, zap.NewNop()).Assess(context.Background(), run, testAnswers(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(p.CoreLanguages, []string{"Python"}) {
		t.Fatalf("unexpected languages: %v", p.CoreLanguages)
	}

	if _, err := os.Stat(a.Path(artifacts.Profiles, "20251103_093000_skill_profile.json")); err != nil {
		t.Fatalf("expected snapshot on disk: %v", err)
	}

	if !strings.Contains(client.prompts[0], "I have over 3 years of experience with Python.") {
		t.Fatalf("expected experience in prompt, got %q", client.prompts[0])
	}
	if !strings.Contains(client.prompts[0], "I like building agents.") {
		t.Fatalf("expected additional info in prompt, got %q", client.prompts[0])
	}
}

func TestAssessMergesWithLatestSnapshot(t *testing.T) {
	_, store := newTestStore(t)

	first := artifacts.NewRun(time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC))
	if _, err := store.Save(first, Merge(SkillProfile{}, SkillProfile{
		Name:            "Ada",
		CoreLanguages:   []string{"Go"},
		ExperienceLevel: ExperienceLevels{Python: 6},
	})); err != nil {
		t.Fatalf("seeding snapshot: %v", err)
	}

	client := &fakeLLM{responses: []string{`{"core_languages": ["Python"], "experience_level": {"Python": 2}}`}}
	second := artifacts.NewRun(time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC))

	p, err := NewProfiler(client, store, 0, zap.NewNop()).Assess(context.Background(), second, testAnswers(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Name != "Ada" || !reflect.DeepEqual(p.CoreLanguages, []string{"Go", "Python"}) || p.ExperienceLevel.Python != 6 {
		t.Fatalf("unexpected merged profile: %+v", p)
	}

	latest, err := store.Latest()
	if err != nil || latest == nil {
		t.Fatalf("expected latest snapshot, got %v / %v", latest, err)
	}
	if !reflect.DeepEqual(*latest, p) {
		t.Fatalf("latest snapshot differs from merged profile:\n%+v\n%+v", *latest, p)
	}
}

func TestAssessRejectsUnparseableAnswer(t *testing.T) {
	_, store := newTestStore(t)
	client := &fakeLLM{responses: []string{"I cannot help with that."}}

	_, err := NewProfiler(client, store, 0, zap.NewNop()).Assess(context.Background(), artifacts.NewRun(time.Now()), testAnswers(t))
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestLatestIgnoresCorruptSnapshot(t *testing.T) {
	a, err := artifacts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if _, err := a.WriteText(artifacts.Profiles, "20250101_000000_skill_profile.json", "{broken"); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	core, observed := observer.New(zapcore.WarnLevel)
	latest, err := NewStore(a, zap.New(core)).Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no profile, got %+v", latest)
	}
	if observed.FilterMessage("ignoring unreadable skill profile").Len() != 1 {
		t.Fatalf("expected a warning, got %v", observed.All())
	}
}

func TestDescribe(t *testing.T) {
	client := &fakeLLM{responses: []string{"A curious engineer.  \r\n\r\n\r\nLoves Python.\n"}}

	text, err := NewProfiler(client, nil, 0, nil).Describe(context.Background(), testAnswers(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A curious engineer.\n\nLoves Python." {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(client.prompts[0], `"job-boards"`) {
		t.Fatalf("expected answers json in prompt, got %q", client.prompts[0])
	}
	if client.systems[0] != describeSystemPrompt {
		t.Fatal("expected the profiler system prompt")
	}

	empty := &fakeLLM{responses: []string{"   "}}
	if _, err := NewProfiler(empty, nil, 0, nil).Describe(context.Background(), testAnswers(t)); err == nil {
		t.Fatal("expected error for empty description")
	}
}
