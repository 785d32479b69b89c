package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"guitarlots/internal/model"
)

const (
	lotCellSelector   = "div.cell.large-3.medium-3.small-12"
	lotDetailSelector = "div.cell.large-7.medium-3.small-12"
	estimateLabel     = "Estimate:"
	estimateNotFound  = "Not found"
)

func newDocument(page string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

// BaseHref returns the href of the page's <base> tag, if any.
func BaseHref(page string) (string, bool) {
	doc, err := newDocument(page)
	if err != nil {
		return "", false
	}
	return baseHref(doc)
}

func baseHref(doc *goquery.Document) (string, bool) {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return strings.TrimSpace(href), true
}

// LotLinks returns the absolute URLs of the lots listed on a sale preview
// page. Links are resolved against the page's <base href> when present,
// otherwise against baseURL.
func LotLinks(page, baseURL string) ([]string, error) {
	doc, err := newDocument(page)
	if err != nil {
		return nil, err
	}

	base := baseURL
	if href, ok := baseHref(doc); ok {
		if base, err = resolve(baseURL, href); err != nil {
			return nil, err
		}
	}

	var links []string
	var resolveErr error
	doc.Find(lotCellSelector).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		href, ok := cell.Find("a").First().Attr("href")
		if !ok || href == "" {
			return true
		}
		full, err := resolve(base, href)
		if err != nil {
			resolveErr = err
			return false
		}
		links = append(links, full)
		return true
	})
	return links, resolveErr
}

// ParseLotPage extracts the description and the estimate from a lot detail
// page. The description is the first text node sitting directly inside the
// detail cell; child elements (tables, links) are ignored.
func ParseLotPage(page string) (model.LotRaw, error) {
	doc, err := newDocument(page)
	if err != nil {
		return model.LotRaw{}, err
	}

	var raw model.LotRaw
	doc.Find(lotDetailSelector).First().Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		if n.Type != html.TextNode {
			return true
		}
		if text := strings.TrimSpace(n.Data); text != "" {
			raw.Description = text
			return false
		}
		return true
	})

	raw.Estimate = estimateNotFound
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, estimateLabel) {
			raw.Estimate = strings.TrimSpace(text)
			return false
		}
		return true
	})

	return raw, nil
}
