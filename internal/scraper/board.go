// Package scraper fetches paginated search results from job boards and
// parses listing cards into jobs.Listing records.
package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/jobsai/internal/jobs"
)

// minBlockRunes is the size a text block must exceed to count as a
// description in the longest-block fallback.
const minBlockRunes = 100

// Board knows the URL scheme and markup of one job board.
type Board interface {
	// Name is the display name used in configuration and file names.
	Name() string
	SearchURL(query string, page int) string
	// Cards returns the listing cards of a results page.
	Cards(doc *goquery.Document) *goquery.Selection
	ParseCard(card *goquery.Selection) Extraction
	// Description extracts the full text of a detail page, or "".
	Description(doc *goquery.Document) string
	// LastPage reports whether a page with n cards is the final one.
	LastPage(n int) bool
}

// Extraction is a parsed card plus the names of the fields the markup did
// not provide. Missing fields are "" in Listing.
type Extraction struct {
	Listing jobs.Listing
	Missing []string
}

func (e *Extraction) set(field string, target *string, value string) {
	*target = value
	if value == "" {
		e.Missing = append(e.Missing, field)
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases the query, turns whitespace runs into hyphens and
// percent-encodes what is left.
func Slug(query string) string {
	slug := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(query)), "-")
	return url.QueryEscape(slug)
}

// text returns the whitespace-collapsed text of sel.
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// first returns the first element matched by the earliest selector that
// matches anything.
func first(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if found := sel.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return sel.Find(selectors[0]).First()
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if t := text(sel.Find(selector).First()); t != "" {
			return t
		}
	}
	return ""
}

func attr(sel *goquery.Selection, name string) string {
	value, _ := sel.Attr(name)
	return strings.TrimSpace(value)
}

// cards returns the matches of the earliest selector with any match.
func cards(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if found := doc.Find(selector); found.Length() > 0 {
			return found
		}
	}
	return doc.Find(selectors[0])
}

func resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return baseURL.ResolveReference(ref).String()
}

// longestBlock is the fallback description: the text of the largest div,
// section or article on the page.
func longestBlock(doc *goquery.Document) string {
	best, longest := "", minBlockRunes
	doc.Find("div, section, article").Each(func(_ int, s *goquery.Selection) {
		t := text(s)
		if n := utf8.RuneCountInString(t); n > longest {
			best, longest = t, n
		}
	})
	return best
}

// Boards returns every supported board with its production URLs.
func Boards() []Board {
	return []Board{NewDuunitori(), NewJobly()}
}

// Lookup finds a board by case-insensitive name.
func Lookup(boards []Board, name string) (Board, bool) {
	for _, b := range boards {
		if strings.EqualFold(b.Name(), strings.TrimSpace(name)) {
			return b, true
		}
	}
	return nil, false
}
