package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAnswers marks a questionnaire payload that does not follow the
// form layout.
var ErrInvalidAnswers = errors.New("invalid answers")

const (
	DefaultLetterCount = 5
	DefaultLetterStyle = "Professional"

	customFieldPrefix = "text-field"
)

// Categories lists the technology sections of the form in order.
var Categories = []string{
	"languages",
	"databases",
	"cloud-development",
	"web-frameworks",
	"dev-ides",
	"llms",
	"doc-and-collab",
	"operating-systems",
}

// Technology is one answer inside a technology section: either a slider
// level for a known key or free text typed into a custom field.
type Technology struct {
	Key   string `validate:"required"`
	Level int    `validate:"gte=0,lte=7"`
	Text  string
}

// Custom reports whether the entry came from a free-text field.
func (t Technology) Custom() bool {
	return strings.HasPrefix(t.Key, customFieldPrefix)
}

// Category is one technology section of the form.
type Category struct {
	Name  string       `validate:"required"`
	Items []Technology `validate:"dive"`
}

// Answers is the typed questionnaire payload.
type Answers struct {
	JobLevels        []string `validate:"dive,required"`
	JobBoards        []string `validate:"dive,required"`
	DeepMode         bool
	CoverLetterNum   int        `validate:"gte=1"`
	CoverLetterStyle string     `validate:"required"`
	Categories       []Category `validate:"dive"`
	AdditionalInfo   []string
}

// Validate checks the typed answers.
func (a Answers) Validate() error {
	return validate.Struct(a)
}

// ParseAnswers decodes and validates a form payload.
func ParseAnswers(data []byte) (Answers, error) {
	var a Answers
	if err := json.Unmarshal(data, &a); err != nil {
		if errors.Is(err, ErrInvalidAnswers) {
			return Answers{}, err
		}
		return Answers{}, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}
	if err := a.Validate(); err != nil {
		return Answers{}, err
	}
	return a, nil
}

// Category returns the named section, or an empty one.
func (a Answers) Category(name string) Category {
	for _, c := range a.Categories {
		if c.Name == name {
			return c
		}
	}
	return Category{Name: name}
}

// Experience renders every answered slider as a sentence such as
// "I have less than a year of experience with Python.".
func (a Answers) Experience() []string {
	var lines []string
	for _, c := range a.Categories {
		for _, item := range c.Items {
			switch {
			case item.Custom():
				if text := strings.TrimSpace(item.Text); text != "" {
					lines = append(lines, fmt.Sprintf("I have experience with %s.", text))
				}
			case item.Level > 0:
				lines = append(lines, fmt.Sprintf("I have %s of experience with %s.", LevelPhrase(item.Level), DisplayName(item.Key)))
			}
		}
	}
	return lines
}

var levelPhrases = map[int]string{
	1: "less than half a year",
	2: "less than a year",
	3: "less than 1.5 years",
	4: "less than 2 years",
	5: "less than 2.5 years",
	6: "less than 3 years",
	7: "over 3 years",
}

// LevelPhrase returns the slider wording of level, or "no" for zero and
// unknown values.
func LevelPhrase(level int) string {
	if phrase, ok := levelPhrases[level]; ok {
		return phrase
	}
	return "no"
}

// UnmarshalJSON reads the form layout: a "general" array, one array per
// technology section and "additional-info", each made of single-key objects.
func (a *Answers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	parsed := Answers{
		CoverLetterNum:   DefaultLetterCount,
		CoverLetterStyle: DefaultLetterStyle,
	}

	known := map[string]bool{"general": true, "additional-info": true}
	for _, name := range Categories {
		known[name] = true
	}
	for key := range raw {
		if !known[key] {
			return fmt.Errorf("%w: unknown section %q", ErrInvalidAnswers, key)
		}
	}

	if general, ok := raw["general"]; ok {
		if err := parsed.parseGeneral(general); err != nil {
			return err
		}
	}

	for _, name := range Categories {
		section, ok := raw[name]
		if !ok {
			continue
		}
		items, err := parseTechnologies(name, section)
		if err != nil {
			return err
		}
		parsed.Categories = append(parsed.Categories, Category{Name: name, Items: items})
	}

	if info, ok := raw["additional-info"]; ok {
		entries, err := singleKeyObjects("additional-info", info)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			text, err := stringValue(entry.value)
			if err != nil {
				return fmt.Errorf("%w: additional-info.%s: %v", ErrInvalidAnswers, entry.key, err)
			}
			if text = strings.TrimSpace(text); text != "" {
				parsed.AdditionalInfo = append(parsed.AdditionalInfo, text)
			}
		}
	}

	*a = parsed
	return nil
}

func (a *Answers) parseGeneral(data json.RawMessage) error {
	entries, err := singleKeyObjects("general", data)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		field := "general." + entry.key
		switch entry.key {
		case "job-level":
			a.JobLevels, err = stringList(entry.value)
		case "job-boards":
			a.JobBoards, err = stringList(entry.value)
		case "deep-mode":
			a.DeepMode, err = yesNo(entry.value)
		case "cover-letter-num":
			a.CoverLetterNum = letterCount(entry.value)
		case "cover-letter-style":
			var styles []string
			styles, err = stringList(entry.value)
			a.CoverLetterStyle = strings.Join(styles, " and ")
			if strings.TrimSpace(a.CoverLetterStyle) == "" {
				a.CoverLetterStyle = DefaultLetterStyle
			}
		default:
			err = errors.New("unknown question")
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAnswers, field, err)
		}
	}

	return nil
}

func parseTechnologies(section string, data json.RawMessage) ([]Technology, error) {
	entries, err := singleKeyObjects(section, data)
	if err != nil {
		return nil, err
	}

	items := make([]Technology, 0, len(entries))
	for _, entry := range entries {
		item := Technology{Key: entry.key}
		if item.Custom() {
			item.Text, err = stringValue(entry.value)
		} else {
			item.Level, err = intValue(entry.value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidAnswers, section, entry.key, err)
		}
		items = append(items, item)
	}

	return items, nil
}

type entry struct {
	key   string
	value json.RawMessage
}

func singleKeyObjects(section string, data json.RawMessage) ([]entry, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("%w: %s must be an array of objects", ErrInvalidAnswers, section)
	}

	entries := make([]entry, 0, len(objects))
	for i, object := range objects {
		if len(object) != 1 {
			return nil, fmt.Errorf("%w: %s[%d] must have exactly one key", ErrInvalidAnswers, section, i)
		}
		for key, value := range object {
			entries = append(entries, entry{key: key, value: value})
		}
	}

	return entries, nil
}

func stringValue(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", errors.New("expected a string")
	}
	return s, nil
}

func stringList(data json.RawMessage) ([]string, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single = strings.TrimSpace(single); single == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.New("expected a string or a list of strings")
	}

	result := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result, nil
}

func intValue(data json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}

	s, err := stringValue(data)
	if err != nil {
		return 0, errors.New("expected an integer")
	}
	n, err = strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}

func yesNo(data json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return b, nil
	}

	s, err := stringValue(data)
	if err != nil {
		return false, errors.New(`expected "Yes" or "No"`)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return true, nil
	case "no", "false", "":
		return false, nil
	default:
		return false, fmt.Errorf(`expected "Yes" or "No", got %q`, s)
	}
}

// letterCount falls back to the default for anything that is not a
// positive integer.
func letterCount(data json.RawMessage) int {
	n, err := intValue(data)
	if err != nil || n < 1 {
		return DefaultLetterCount
	}
	return n
}

// MarshalJSON writes the form layout read by UnmarshalJSON.
func (a Answers) MarshalJSON() ([]byte, error) {
	deep := "No"
	if a.DeepMode {
		deep = "Yes"
	}

	payload := map[string]any{
		"general": []map[string]any{
			{"job-level": nonNil(a.JobLevels)},
			{"job-boards": nonNil(a.JobBoards)},
			{"deep-mode": deep},
			{"cover-letter-num": a.CoverLetterNum},
			{"cover-letter-style": a.CoverLetterStyle},
		},
	}

	for _, c := range a.Categories {
		items := make([]map[string]any, 0, len(c.Items))
		for _, item := range c.Items {
			if item.Custom() {
				items = append(items, map[string]any{item.Key: item.Text})
				continue
			}
			items = append(items, map[string]any{item.Key: item.Level})
		}
		payload[c.Name] = items
	}

	if len(a.AdditionalInfo) > 0 {
		info := make([]map[string]any, 0, len(a.AdditionalInfo))
		for i, text := range a.AdditionalInfo {
			info = append(info, map[string]any{fmt.Sprintf("additional-info-%d", i+1): text})
		}
		payload["additional-info"] = info
	}

	return json.Marshal(payload)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
