package otodom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"apartment-scraper/models"
)

// ParseError reports a page whose required embedded state is missing or
// malformed. It is fatal for that page: the source shape changed or access is
// blocked, and there is no workaround to attempt.
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

const stateSelector = "script#__NEXT_DATA__"

// ParseStateTree locates the embedded application-state script block and
// decodes it into a node tree.
func ParseStateTree(pageURL, html string) (*models.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: "unreadable document", Err: err}
	}

	sel := doc.Find(stateSelector).First()
	if sel.Length() == 0 {
		return nil, &ParseError{URL: pageURL, Reason: "state block not found"}
	}

	node, err := models.DecodeTree(strings.NewReader(sel.Text()))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: "state block is not valid JSON", Err: err}
	}
	return node, nil
}

// Result-card selectors for the HTML fallback. The portal renames its
// obfuscated classes, so each field tries selectors in confidence order.
var (
	cardSelectors = []string{
		"article[data-cy='listing-item']",
		"article[data-cy='search.listing.item']",
		"div.listing-card",
	}
	cardTitleSelectors = []string{
		"[data-cy='listing-item-title']",
		"p.title",
		"h3",
	}
	cardPriceSelectors = []string{
		"span[data-testid='listing-price']",
		"span.offer-item-price",
		"p.price",
	}
	cardLocationSelectors = []string{
		"p[data-testid='advert-card-address']",
		"span.offer-item-location",
		"p.location",
	}
)

// ParseCards is the fallback for pages without the state block: it rebuilds
// candidate nodes from the repeated result-card elements so the rest of the
// pipeline runs unchanged.
func ParseCards(pageURL, html string) ([]*models.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: "unreadable document", Err: err}
	}

	var cards *goquery.Selection
	for _, sel := range cardSelectors {
		cards = doc.Find(sel)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return nil, &ParseError{URL: pageURL, Reason: "no listing cards found"}
	}

	var nodes []*models.Node
	cards.Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find("a[href]").First().Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}

		node := models.NewObject().
			Set("title", models.StringNode(firstCardText(card, cardTitleSelectors))).
			Set("price", models.StringNode(firstCardText(card, cardPriceSelectors))).
			Set("url", models.StringNode(strings.TrimSpace(href))).
			Set("locationLabel", models.StringNode(firstCardText(card, cardLocationSelectors)))
		nodes = append(nodes, node)
	})

	if len(nodes) == 0 {
		return nil, &ParseError{URL: pageURL, Reason: "listing cards carry no links"}
	}
	return nodes, nil
}

func firstCardText(card *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(card.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}
