// Package jobs defines the job listing records that flow from the scrapers
// through the collector and the scorer.
package jobs

import (
	"encoding/json"
	"os"
	"strings"
)

const snippetIdentityLen = 80

// Listing is one scraped job posting. All fields default to "".
type Listing struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	URL             string `json:"url"`
	PublishedDate   string `json:"published_date"`
	Snippet         string `json:"description_snippet"`
	FullDescription string `json:"full_description"`
	Source          string `json:"source"`
	QueryUsed       string `json:"query_used"`
}

// Scored is a Listing enriched by the scorer.
type Scored struct {
	Listing
	Score   int      `json:"score"`
	Matched []string `json:"matched_skills"`
	Missing []string `json:"missing_skills"`
}

// Identity returns the deduplication key of a listing: the trimmed URL, or
// "title|query|snippet[:80]" lowercased when the URL is blank. An empty
// result means the listing has no stable identity.
func (l Listing) Identity() string {
	if url := strings.TrimSpace(l.URL); url != "" {
		return url
	}

	title := strings.ToLower(strings.TrimSpace(l.Title))
	query := strings.ToLower(strings.TrimSpace(l.QueryUsed))
	snippet := strings.ToLower(strings.TrimSpace(l.Snippet))
	if title == "" && query == "" && snippet == "" {
		return ""
	}

	if runes := []rune(snippet); len(runes) > snippetIdentityLen {
		snippet = string(runes[:snippetIdentityLen])
	}

	return title + "|" + query + "|" + snippet
}

// SearchText is the lowercased text the scorer matches skills against.
func (l Listing) SearchText() string {
	return strings.ToLower(strings.Join([]string{l.Title, l.Snippet, l.FullDescription}, " "))
}

// Description prefers the detail page text and falls back to the snippet.
func (l Listing) Description() string {
	if l.FullDescription != "" {
		return l.FullDescription
	}
	return l.Snippet
}

// ReadFile decodes a JSON array of listings. Records whose fields are null
// decode as empty strings.
func ReadFile(path string) ([]Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}

	return listings, nil
}

// ReadScoredFile decodes a JSON array of scored listings.
func ReadScoredFile(path string) ([]Scored, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scored []Scored
	if err := json.Unmarshal(data, &scored); err != nil {
		return nil, err
	}

	return scored, nil
}

// URLs returns the non-empty URLs of the scored listings in order.
func URLs(items []Scored) []string {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if item.URL != "" {
			urls = append(urls, item.URL)
		}
	}
	return urls
}
