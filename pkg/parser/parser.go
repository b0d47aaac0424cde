// Package parser extracts the normalized document model an audit run
// consumes. It is deliberately forgiving: malformed HTML never fails the
// parse, and every field degrades to nil or an empty collection.
package parser

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Link is a hyperlink with its resolved absolute href and anchor text.
type Link struct {
	Href       string `json:"href"`
	AnchorText string `json:"anchorText"`
}

// Image is an image reference. Alt is nil when the attribute is absent.
type Image struct {
	Src string  `json:"src"`
	Alt *string `json:"alt"`
}

// Headings holds heading texts in document order.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// Links splits page links by hostname equality with the page itself.
type Links struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// ScriptStats counts external scripts and how many of them load deferred
// or async.
type ScriptStats struct {
	External int
	Deferred int
}

// FormStats counts non-hidden form controls and how many carry an
// associated label or aria-label.
type FormStats struct {
	Controls int
	Labeled  int
}

// ButtonStats counts buttons and how many have visible text or an
// aria-label.
type ButtonStats struct {
	Total   int
	Labeled int
}

// ParsedDocument is the read-only view of a fetched page. It is created
// once per audit run and consumed by every check.
type ParsedDocument struct {
	Title               *string
	MetaDescription     *string
	CanonicalURL        *string
	Headings            Headings
	Images              []Image
	Links               Links
	StructuredDataTypes []string
	BodyText            string
	WordCount           int

	RobotsMeta       string
	Viewport         string
	Lang             string
	HasCharset       bool
	HasFavicon       bool
	OGTitle          bool
	OGDescription    bool
	OGImage          bool
	TwitterCard      bool
	Landmarks        int
	Forms            FormStats
	Buttons          ButtonStats
	EmptyLinks       int
	SkipLinkPresent  bool
	Scripts          ScriptStats
	ModernImageCount int

	skipLinkSeen bool
}

// Parse builds a ParsedDocument from raw HTML. The page URL provides the
// hostname for internal/external link classification. The only error case
// is a broken reader inside html.Parse; malformed markup parses leniently.
func Parse(rawHTML string, pageURL *url.URL) (*ParsedDocument, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	d := &ParsedDocument{}

	d.Title = optionalText(doc.Find("title").First().Text())
	d.MetaDescription = optionalAttr(doc.Find(`meta[name="description"]`).First(), "content")
	d.CanonicalURL = optionalAttr(doc.Find(`link[rel="canonical"]`).First(), "href")

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		switch goquery.NodeName(s) {
		case "h1":
			d.Headings.H1 = append(d.Headings.H1, text)
		case "h2":
			d.Headings.H2 = append(d.Headings.H2, text)
		case "h3":
			d.Headings.H3 = append(d.Headings.H3, text)
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		img := Image{Src: src}
		if alt, ok := s.Attr("alt"); ok {
			trimmed := strings.TrimSpace(alt)
			img.Alt = &trimmed
		}
		d.Images = append(d.Images, img)
		if isModernImageFormat(src) {
			d.ModernImageCount++
		}
	})

	d.collectLinks(doc, pageURL)
	d.collectStructuredData(doc)
	d.collectMeta(doc)
	d.collectAccessibility(doc)
	d.collectScripts(doc)

	// Body text extraction mutates the tree, so it runs last.
	doc.Find("script, style, noscript, nav, footer").Remove()
	d.BodyText = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	d.WordCount = len(strings.Fields(d.BodyText))

	return d, nil
}

func (d *ParsedDocument) collectLinks(doc *goquery.Document, pageURL *url.URL) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		anchor := strings.TrimSpace(s.Text())

		if anchor == "" && strings.TrimSpace(s.AttrOr("aria-label", "")) == "" {
			d.EmptyLinks++
		}

		// Only the first fragment anchor counts as a skip link candidate.
		if !d.skipLinkSeen && strings.HasPrefix(href, "#") {
			d.skipLinkSeen = true
			d.SkipLinkPresent = strings.Contains(strings.ToLower(anchor), "skip")
		}

		if href == "" {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := pageURL.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		link := Link{Href: resolved.String(), AnchorText: anchor}
		if strings.EqualFold(resolved.Hostname(), pageURL.Hostname()) {
			d.Links.Internal = append(d.Links.Internal, link)
		} else {
			d.Links.External = append(d.Links.External, link)
		}
	})
}

func (d *ParsedDocument) collectStructuredData(doc *goquery.Document) {
	seen := map[string]bool{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return // malformed blocks are skipped, not fatal
		}
		for _, t := range jsonLdTypes(raw) {
			if !seen[t] {
				seen[t] = true
				d.StructuredDataTypes = append(d.StructuredDataTypes, t)
			}
		}
	})
}

// jsonLdTypes walks a decoded JSON-LD value collecting @type strings,
// handling single objects, arrays, and @graph containers.
func jsonLdTypes(raw any) []string {
	var types []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			types = append(types, jsonLdTypes(item)...)
		}
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			types = append(types, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					types = append(types, s)
				}
			}
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				types = append(types, jsonLdTypes(item)...)
			}
		}
	}
	return types
}

func (d *ParsedDocument) collectMeta(doc *goquery.Document) {
	d.RobotsMeta = doc.Find(`meta[name="robots"]`).First().AttrOr("content", "")
	d.Viewport = doc.Find(`meta[name="viewport"]`).First().AttrOr("content", "")
	d.Lang = strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))

	if doc.Find("meta[charset]").Length() > 0 {
		d.HasCharset = true
	} else {
		httpEquiv := doc.Find(`meta[http-equiv="Content-Type"]`).First().AttrOr("content", "")
		d.HasCharset = strings.Contains(strings.ToLower(httpEquiv), "charset")
	}

	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		if rel == "icon" || rel == "shortcut icon" {
			d.HasFavicon = true
			return false
		}
		return true
	})

	d.OGTitle = metaContentPresent(doc, `meta[property="og:title"]`)
	d.OGDescription = metaContentPresent(doc, `meta[property="og:description"]`)
	d.OGImage = metaContentPresent(doc, `meta[property="og:image"]`)
	d.TwitterCard = metaContentPresent(doc, `meta[name="twitter:card"]`)
}

func (d *ParsedDocument) collectAccessibility(doc *goquery.Document) {
	landmarks := [][2]string{
		{"main", "main"},
		{"nav", "navigation"},
		{"header", "banner"},
		{"footer", "contentinfo"},
	}
	for _, lm := range landmarks {
		if doc.Find(lm[0]).Length() > 0 || doc.Find(`[role="`+lm[1]+`"]`).Length() > 0 {
			d.Landmarks++
		}
	}

	labelFor := map[string]bool{}
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		labelFor[s.AttrOr("for", "")] = true
	})
	doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "input" && strings.EqualFold(s.AttrOr("type", ""), "hidden") {
			return
		}
		d.Forms.Controls++
		id := s.AttrOr("id", "")
		if (id != "" && labelFor[id]) || strings.TrimSpace(s.AttrOr("aria-label", "")) != "" {
			d.Forms.Labeled++
		}
	})

	doc.Find(`button, [role="button"]`).Each(func(_ int, s *goquery.Selection) {
		d.Buttons.Total++
		if strings.TrimSpace(s.Text()) != "" || strings.TrimSpace(s.AttrOr("aria-label", "")) != "" {
			d.Buttons.Labeled++
		}
	})
}

func (d *ParsedDocument) collectScripts(doc *goquery.Document) {
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		d.Scripts.External++
		_, hasDefer := s.Attr("defer")
		_, hasAsync := s.Attr("async")
		if hasDefer || hasAsync {
			d.Scripts.Deferred++
		}
	})
}

func isModernImageFormat(src string) bool {
	path := strings.ToLower(src)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(path, ".webp") ||
		strings.HasSuffix(path, ".svg") ||
		strings.HasSuffix(path, ".avif")
}

func metaContentPresent(doc *goquery.Document, selector string) bool {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")) != ""
}

func optionalText(text string) *string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalAttr(s *goquery.Selection, attr string) *string {
	val, ok := s.Attr(attr)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
