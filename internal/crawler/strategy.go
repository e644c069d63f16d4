package crawler

import (
	"regexp"
	"strings"

	"sjsage522/newsworker/helpers"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// unwantedSelector is stripped from every content container before text is read
const unwantedSelector = "script, style, noscript, iframe, img, button, nav, header, footer, ins, form, " +
	"[class*='advert'], [id*='advert'], [class*='banner'], [id*='banner'], " +
	"[class*='share'], [class*='social'], [class*='related'], [class*='recommend']"

var defaultTitleSelectors = []string{
	"h1", "h2.title", "div.title h1", "article h1", "meta[property='og:title']",
}

var (
	pathOrNumericLine = regexp.MustCompile(`^(?:/\S*|[\d\s\-:.]+)$`)
	spaceRun          = regexp.MustCompile(`\s+`)
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Table: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Dd: true, atom.Dt: true, atom.Figcaption: true,
	atom.Pre: true, atom.Figure: true,
}

func defaultNoiseKeywords() []string {
	return append([]string(nil), helpers.DefaultNoiseKeywords...)
}

// contentExtractor pulls body text out of a parsed detail page
type contentExtractor interface {
	extract(doc *goquery.Selection) string
}

// newContentExtractor picks the extraction strategy for a config. Every
// strategy's output goes through the same cleaner.
func newContentExtractor(cfg CrawlerConfig) contentExtractor {
	base := extractorBase{
		selectors: cfg.ContentSelectors,
		remove:    cfg.RemoveSelectors,
		cleaner: helpers.ContentCleaner{
			NoiseKeywords: cfg.NoiseKeywords,
			MinLineLength: cfg.MinLineLength,
		},
	}
	switch cfg.Strategy {
	case StrategyParagraphs:
		return paragraphsExtractor{base}
	case StrategyTextLines:
		return textLinesExtractor{base}
	default:
		return selectorExtractor{base}
	}
}

type extractorBase struct {
	selectors []string
	remove    []string
	cleaner   helpers.ContentCleaner
}

// container returns a cleaned copy of the first content selector's match. The
// whole document is used only when no selector is configured; a configured
// container that is missing yields an empty selection.
func (e extractorBase) container(doc *goquery.Selection) *goquery.Selection {
	if len(e.selectors) == 0 {
		return stripUnwanted(doc, e.remove)
	}
	if sel := findContainer(doc, e.selectors); sel != nil {
		return stripUnwanted(sel, e.remove)
	}
	return doc.Slice(0, 0)
}

// findContainer returns the first element matched by selectors, tried in
// order, or nil when none matches
func findContainer(doc *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if strings.TrimSpace(selector) == "" {
			continue
		}
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// selectorExtractor concatenates every element matched by a content selector.
// The first selector that yields text after cleaning wins; later selectors
// are never merged in.
type selectorExtractor struct{ extractorBase }

func (e selectorExtractor) extract(doc *goquery.Selection) string {
	for _, selector := range e.selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		clean := stripUnwanted(sel, e.remove)

		var parts []string
		clean.Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(lineText(s)); text != "" {
				parts = append(parts, text)
			}
		})
		if text := e.cleaner.Clean(strings.Join(parts, "\n")); text != "" {
			return text
		}
	}
	return ""
}

// paragraphsExtractor joins the text of each p element inside the container
type paragraphsExtractor struct{ extractorBase }

func (e paragraphsExtractor) extract(doc *goquery.Selection) string {
	var parts []string
	e.container(doc).Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(spaceRun.ReplaceAllString(p.Text(), " "))
		if text == "" || e.cleaner.IsNoise(text) {
			return
		}
		parts = append(parts, text)
	})
	return e.cleaner.Clean(strings.Join(parts, "\n"))
}

// textLinesExtractor splits the container on line breaks and block boundaries
type textLinesExtractor struct{ extractorBase }

func (e textLinesExtractor) extract(doc *goquery.Selection) string {
	var parts []string
	for _, line := range strings.Split(lineText(e.container(doc)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || e.cleaner.IsNoise(line) || pathOrNumericLine.MatchString(line) {
			continue
		}
		parts = append(parts, line)
	}
	return e.cleaner.Clean(strings.Join(parts, "\n"))
}

// stripUnwanted clones sel and removes scripts, ads and the extra selectors
// from the copy
func stripUnwanted(sel *goquery.Selection, remove []string) *goquery.Selection {
	clone := sel.Clone()
	clone.Find(unwantedSelector).Remove()
	for _, selector := range remove {
		if strings.TrimSpace(selector) != "" {
			clone.Find(selector).Remove()
		}
	}
	return clone
}

// lineText renders the text of sel with a newline at every br and around
// every block element
func lineText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeLines(n, &b)
	}
	return b.String()
}

func writeLines(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Script, atom.Style, atom.Noscript:
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeLines(c, b)
	}
	if block {
		b.WriteByte('\n')
	}
}

// firstText returns the collapsed text of the first selector that yields any.
// meta elements contribute their content attribute and time elements their
// datetime attribute.
func firstText(doc *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if text := elementText(doc.Find(selector).First()); text != "" {
			return text
		}
	}
	return ""
}

func elementText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var text string
	switch goquery.NodeName(sel) {
	case "meta":
		text, _ = sel.Attr("content")
	case "time":
		if dt, ok := sel.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			text = dt
		} else {
			text = sel.Text()
		}
	default:
		text = sel.Text()
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}
