// Package coverletter writes the cover letter document from the job
// analysis.
package coverletter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/artifacts"
	"github.com/spigell/jobsai/internal/docx"
	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/normalize"
)

var (
	//go:embed prompts/letter_system.md
	letterSystemPrompt string
	//go:embed prompts/letter_user.md
	letterUserPrompt string
)

const defaultTone = "professional"

var tones = map[string]string{
	"professional": "Write in a clear, respectful, concise, professional tone. Use well-structured paragraphs. Avoid exaggerations.",
	"friendly":     "Write in a warm, positive tone but keep it professional.",
	"confident":    "Write with a confident, proactive tone without sounding arrogant.",
}

// Tone returns the writing instruction for a letter style. Styles combined
// with "and" or commas join their known tones in order; anything unknown
// falls back to the professional tone.
func Tone(style string) string {
	parts := strings.FieldsFunc(strings.ToLower(style), func(r rune) bool { return r == ',' })

	var known []string
	seen := map[string]bool{}
	for _, part := range parts {
		for _, word := range strings.Split(part, " and ") {
			word = strings.TrimSpace(word)
			tone, ok := tones[word]
			if !ok || seen[word] {
				continue
			}
			seen[word] = true
			known = append(known, tone)
		}
	}

	if len(known) == 0 {
		return tones[defaultTone]
	}
	return strings.Join(known, " ")
}

// Contact is the header block of the letter.
type Contact struct {
	Website  string `mapstructure:"website"`
	LinkedIn string `mapstructure:"linkedin"`
	GitHub   string `mapstructure:"github"`
	Email    string `mapstructure:"email"`
	Phone    string `mapstructure:"phone"`
}

// Request is what a letter is written from.
type Request struct {
	Profile  string
	Analysis string
	Style    string
	Employer string
	JobTitle string
}

// Letter is a generated cover letter.
type Letter struct {
	Name     string
	Path     string
	Text     string
	Document *docx.Document
	Data     []byte
}

// Generator writes cover letters.
type Generator struct {
	client    llm.Client
	store     *artifacts.Store
	contact   Contact
	maxTokens int
	logger    *zap.Logger
}

// NewGenerator creates a Generator. store may be nil to skip saving.
func NewGenerator(client llm.Client, store *artifacts.Store, contact Contact, maxTokens int, log *zap.Logger) *Generator {
	return &Generator{
		client:    client,
		store:     store,
		contact:   contact,
		maxTokens: maxTokens,
		logger:    logger.OrNop(log),
	}
}

// Generate asks the model for the letter body and lays out the document:
// contact block, date, greeting line, employer and body. The document is
// saved as the run's letter; a failed save is logged and the letter is
// still returned.
func (g *Generator) Generate(ctx context.Context, run artifacts.Run, req Request) (*Letter, error) {
	system := strings.ReplaceAll(letterSystemPrompt, "{{STYLE}}", Tone(req.Style))

	prompt := strings.ReplaceAll(letterUserPrompt, "{{PROFILE}}", req.Profile)
	prompt = strings.ReplaceAll(prompt, "{{ANALYSIS}}", req.Analysis)
	prompt = strings.ReplaceAll(prompt, "{{EMPLOYER}}", orEmpty(req.Employer))
	prompt = strings.ReplaceAll(prompt, "{{JOB_TITLE}}", orEmpty(req.JobTitle))

	g.logger.Info("generating cover letter", zap.String("style", req.Style))

	raw, err := g.client.Complete(ctx, system, prompt, g.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("writing cover letter: %w", err)
	}

	body := normalize.Text(raw)
	if body == "" {
		return nil, errors.New("cover letter text is empty")
	}

	doc := docx.New()
	doc.AddParagraph("").
		AddRun(g.contact.Website + "\n").
		AddRun(g.contact.LinkedIn + "\n").
		AddRun(g.contact.GitHub + "\n\n").
		AddRun(g.contact.Email + "\n").
		AddRun(g.contact.Phone + "\n\n")
	doc.AddParagraph(run.Date() + "\n")
	doc.AddParagraph("Hiring Team")
	if employer := strings.TrimSpace(req.Employer); employer != "" {
		doc.AddParagraph(employer + "\n\n")
	}
	doc.AddParagraph(body)

	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding cover letter: %w", err)
	}

	letter := &Letter{Name: artifacts.LetterName(run), Text: body, Document: doc, Data: data}

	if g.store != nil {
		path, err := g.store.WriteBytes(artifacts.Letters, letter.Name, data)
		if err != nil {
			g.logger.Error("saving cover letter failed", zap.Error(err))
		} else {
			letter.Path = path
			g.logger.Info("cover letter saved", zap.String("path", path))
		}
	}

	return letter, nil
}

func orEmpty(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "empty"
	}
	return s
}
