package scraper

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const duunitoriHost = "https://duunitori.fi"

var duunitoriCards = []string{
	".grid-sandbox.grid-sandbox--tight-bottom.grid-sandbox--tight-top .grid.grid--middle.job-box.job-box--lg",
	".job-box--lg",
	".job-box",
}

// Duunitori scrapes duunitori.fi. Host is the origin used for search pages
// and for resolving listing links.
type Duunitori struct {
	Host string
}

// NewDuunitori returns the board pointed at the production site.
func NewDuunitori() *Duunitori {
	return &Duunitori{Host: duunitoriHost}
}

func (d *Duunitori) Name() string { return "Duunitori" }

func (d *Duunitori) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/tyopaikat/haku/%s?sivu=%d", d.Host, Slug(query), page)
}

func (d *Duunitori) Cards(doc *goquery.Document) *goquery.Selection {
	return cards(doc, duunitoriCards...)
}

// LastPage: a full results page has 20 cards.
func (d *Duunitori) LastPage(n int) bool { return n < 20 }

func (d *Duunitori) ParseCard(card *goquery.Selection) Extraction {
	var e Extraction
	l := &e.Listing

	e.set("title", &l.Title, firstText(card, ".job-box__title"))

	anchor := card.Find(".job-box__hover.gtm-search-result").First()

	company := attr(anchor, "data-company")
	if company == "" {
		company = firstText(card, ".job-box__employer")
	}
	e.set("company", &l.Company, company)

	href := attr(anchor, "href")
	if href == "" {
		href = attr(first(card, ".job-box__title a"), "href")
	}
	e.set("url", &l.URL, resolve(d.Host, href))

	e.set("location", &l.Location, firstText(card, ".job-box__job-location", ".job-box__location"))

	published := firstText(card, ".job-box__job-posted")
	if published == "" {
		published = attr(card.Find("time[datetime]").First(), "datetime")
	}
	e.set("published_date", &l.PublishedDate, published)

	e.set("description_snippet", &l.Snippet, firstText(card, ".job-box__teaser", ".job-box__description"))

	return e
}

func (d *Duunitori) Description(doc *goquery.Document) string {
	if t := text(doc.Find(".description, .description--jobentry").First()); t != "" {
		return t
	}
	return longestBlock(doc)
}
