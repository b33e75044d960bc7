package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	joblyHost       = "https://jobly.fi"
	joblySearchHost = "https://www.jobly.fi"
)

// Jobly scrapes jobly.fi. Search pages live on SearchHost while listing
// links are resolved against Host.
type Jobly struct {
	Host       string
	SearchHost string
}

// NewJobly returns the board pointed at the production site.
func NewJobly() *Jobly {
	return &Jobly{Host: joblyHost, SearchHost: joblySearchHost}
}

func (j *Jobly) Name() string { return "Jobly" }

// SearchURL sends the query as a form-encoded parameter rather than a slug.
func (j *Jobly) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/en/jobs?search=%s&page=%d", j.SearchHost, url.QueryEscape(strings.TrimSpace(query)), page)
}

func (j *Jobly) Cards(doc *goquery.Document) *goquery.Selection {
	return cards(doc, "article.job-card, .job-card, .job-listing, [data-job-id], .job-item")
}

// LastPage: a full results page has at least 10 cards.
func (j *Jobly) LastPage(n int) bool { return n < 10 }

func (j *Jobly) ParseCard(card *goquery.Selection) Extraction {
	var e Extraction
	l := &e.Listing

	title := first(card, "h2 a, h3 a, .job-title a, a.job-title, h2, h3", "a[href*='/jobs/']")
	e.set("title", &l.Title, text(title))

	companyTag := card.Find(".company-name, .company, [data-company], .employer").First()
	company := text(companyTag)
	if company == "" {
		company = attr(companyTag, "data-company")
	}
	e.set("company", &l.Company, company)

	e.set("location", &l.Location, firstText(card, ".location, .job-location, [data-location], .city, .region"))

	dateTag := card.Find(".date, .published, .posted, [data-date], .job-date, time").First()
	published := text(dateTag)
	if published == "" {
		published = attr(dateTag, "datetime")
	}
	e.set("published_date", &l.PublishedDate, published)

	e.set("description_snippet", &l.Snippet, firstText(card, ".description, .snippet, .summary, .job-description"))

	href := attr(card.Find("a[href*='/jobs/'], a[href*='/job/']").First(), "href")
	if href == "" {
		href = attr(title, "href")
	}
	e.set("url", &l.URL, resolve(j.Host, href))

	return e
}

func (j *Jobly) Description(doc *goquery.Document) string {
	selector := ".job-description, .description, .job-details, .content, .job-content, main article, [role='article']"
	if t := text(doc.Find(selector).First()); t != "" {
		return t
	}
	return longestBlock(doc)
}
