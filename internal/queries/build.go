// Package queries derives job board search phrases from a skill profile.
package queries

import (
	"sort"
	"strings"

	"github.com/spigell/jobsai/internal/profile"
)

var (
	aiMLQueries = []string{
		"ai engineer",
		"junior ai engineer",
		"machine learning engineer",
		"ml engineer",
	}
	fallbackQueries = []string{
		"junior software developer",
		"junior full stack developer",
		"entry level developer",
	}
	specialQueries = []string{
		"llm engineer",
		"agentic ai",
	}
)

// Build returns the sorted, duplicate free set of search phrases for p.
// The same profile always yields the same list in the same order.
func Build(p profile.SkillProfile) []string {
	set := make(map[string]struct{})
	add := func(q string) { set[q] = struct{}{} }

	for _, lang := range p.CoreLanguages {
		lang = strings.ToLower(lang)
		add(lang + " developer")
		add("junior " + lang + " developer")
		add(lang + " engineer")
	}

	for _, tool := range p.AgenticAIExperience {
		tool = strings.ToLower(tool)
		add(tool)
		add(tool + " developer")
	}

	if len(p.AIMLExperience) > 0 {
		for _, q := range aiMLQueries {
			add(q)
		}
	}

	for _, q := range fallbackQueries {
		add(q)
	}
	for _, q := range specialQueries {
		add(q)
	}

	result := make([]string, 0, len(set))
	for q := range set {
		result = append(result, q)
	}
	sort.Strings(result)

	return result
}
