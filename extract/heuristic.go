package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/tractorguru/models"
	"golang.org/x/net/html"
)

var (
	reBrandHref = regexp.MustCompile(`(?i)/tractor-?brands?/|/brand/`)
	rePrice     = regexp.MustCompile(`(?i)₹|Rs|Price`)

	selAnchors      = cascadia.MustCompile(`a[href]`)
	selBrandCards   = cascadia.MustCompile(`div[class*="brand"], li[class*="brand"], a[class*="brand"]`)
	selModelCards   = cascadia.MustCompile(`a[href*="/tractor"], div[class*="model"], li[class*="model"]`)
	selImages       = cascadia.MustCompile(`img[src]`)
	selTables       = cascadia.MustCompile(`table`)
	selRows         = cascadia.MustCompile(`tr`)
	selHeaderCells  = cascadia.MustCompile(`th`)
	selAnyCells     = cascadia.MustCompile(`td, th`)
	selDataCells    = cascadia.MustCompile(`td`)
	selHeading      = cascadia.MustCompile(`h1`)
	selTitleElement = cascadia.MustCompile(`title`)
)

// Heuristic is the selector-based Extractor for the TractorGuru site.
type Heuristic struct{}

// NewHeuristic creates a Heuristic extractor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// BrandLinks keeps anchors whose href looks like a brand page. Only when
// there are none does it fall back to anchors styled as brand cards.
func (h *Heuristic) BrandLinks(markup string) []Link {
	doc, ok := parse(markup)
	if !ok {
		return nil
	}

	var links []Link
	doc.FindMatcher(selAnchors).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		name := text(s)
		if name == "" {
			return
		}
		if reBrandHref.MatchString(href) {
			links = append(links, Link{Text: name, Href: href})
		}
	})
	if len(links) > 0 {
		return links
	}

	doc.FindMatcher(selBrandCards).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "a" {
			return
		}
		href := strings.TrimSpace(s.AttrOr("href", ""))
		name := text(s)
		if href == "" || name == "" {
			return
		}
		links = append(links, Link{Text: name, Href: href})
	})
	return links
}

// ModelCards collects anchors into "/tractor..." pages plus containers
// whose class mentions "model". A container contributes its first link,
// first image and first price-looking text.
func (h *Heuristic) ModelCards(markup string) []Card {
	doc, ok := parse(markup)
	if !ok {
		return nil
	}

	var cards []Card
	doc.FindMatcher(selModelCards).Each(func(_ int, s *goquery.Selection) {
		var card Card
		if goquery.NodeName(s) == "a" {
			card.Href = strings.TrimSpace(s.AttrOr("href", ""))
			card.Name = text(s)
		} else {
			if a := s.FindMatcher(selAnchors).First(); a.Length() > 0 {
				card.Href = strings.TrimSpace(a.AttrOr("href", ""))
				card.Name = text(a)
			}
			if img := s.FindMatcher(selImages).First(); img.Length() > 0 {
				card.Thumbnail = strings.TrimSpace(img.AttrOr("src", ""))
			}
			card.Price = firstTextMatching(s.Get(0), rePrice)
		}
		if card.Href == "" && card.Name == "" {
			return
		}
		cards = append(cards, card)
	})
	return cards
}

// ModelDetail reads the page title, two-cell spec table rows and images.
func (h *Heuristic) ModelDetail(markup string) Detail {
	detail := Detail{Specs: models.NewSpecs()}

	doc, ok := parse(markup)
	if !ok {
		return detail
	}

	if h1 := doc.FindMatcher(selHeading).First(); h1.Length() > 0 {
		detail.Title = text(h1)
	} else if title := doc.FindMatcher(selTitleElement).First(); title.Length() > 0 {
		detail.Title = text(title)
	}

	doc.FindMatcher(selTables).Each(func(_ int, table *goquery.Selection) {
		// Header-rich tables only contribute rows with exactly two td cells.
		cells := selAnyCells
		if table.FindMatcher(selHeaderCells).Length() > 1 {
			cells = selDataCells
		}
		table.FindMatcher(selRows).Each(func(_ int, row *goquery.Selection) {
			pair := row.FindMatcher(cells)
			if pair.Length() != 2 {
				return
			}
			key, value := text(pair.Eq(0)), text(pair.Eq(1))
			if key == "" || value == "" {
				return
			}
			detail.Specs.Set(key, value)
		})
	})

	doc.FindMatcher(selImages).Each(func(_ int, s *goquery.Selection) {
		if src := strings.TrimSpace(s.AttrOr("src", "")); src != "" {
			detail.Images = append(detail.Images, src)
		}
	})

	return detail
}

func parse(markup string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Debug("extract: failed to parse markup", "error", err)
		return nil, false
	}
	return doc, true
}

// text returns the selection's text with runs of whitespace collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// firstTextMatching returns the first descendant text node of n, in
// document order, that matches re.
func firstTextMatching(n *html.Node, re *regexp.Regexp) string {
	if n == nil {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if re.MatchString(c.Data) {
				return strings.TrimSpace(c.Data)
			}
		case html.ElementNode:
			if found := firstTextMatching(c, re); found != "" {
				return found
			}
		}
	}
	return ""
}
