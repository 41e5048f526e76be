package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/wayfarerhq/places-mcp/internal/cache"
)

const (
	RequestTimeout  = 20 * time.Second
	MaxResponseSize = 1 * 1024 * 1024 // 1MB

	// CategoryPages tags cached page summaries so they can be cleared
	// independently of the place lookups.
	CategoryPages = "place-pages"

	// DefaultPageTTL keeps page summaries short-lived; sites change more
	// often than place listings.
	DefaultPageTTL = 15 * time.Minute
)

// PageSummary is the distilled content of a place's website, shown to the
// traveller alongside the search result.
type PageSummary struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Markdown    string   `json:"markdown"`
	Links       []string `json:"links"`
}

// Fetcher retrieves and summarizes place websites, caching summaries under
// the page category.
type Fetcher struct {
	c     *colly.Collector
	cache cache.KV
	ttl   time.Duration
}

func NewFetcher(cacheStore cache.KV, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       1 * time.Second,
	})
	c.SetRequestTimeout(RequestTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", NextUserAgent())
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	return &Fetcher{c: c, cache: cacheStore, ttl: ttl}
}

func (f *Fetcher) cacheKey(rawURL string) string { return "place_page|" + rawURL }

// Fetch returns the summary for rawURL, preferring a cached one.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*PageSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errors.New("url must start with http:// or https://")
	}
	if v, err := f.cache.Get(f.cacheKey(rawURL)); err == nil {
		var ps PageSummary
		if json.Unmarshal(v, &ps) == nil {
			return &ps, nil
		}
	}

	var pageHTML []byte
	var finalURL string
	var contentType string

	originalCtx := f.c.Context
	f.c.Context = ctx
	defer func() { f.c.Context = originalCtx }()

	f.c.OnResponse(func(r *colly.Response) {
		if ctx.Err() != nil {
			return
		}
		finalURL = r.Request.URL.String()
		pageHTML = append([]byte(nil), r.Body...)
		contentType = r.Headers.Get("Content-Type")
	})

	if err := f.c.Visit(rawURL); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(pageHTML) == 0 {
		return nil, errors.New("empty response body")
	}
	if len(pageHTML) > MaxResponseSize {
		pageHTML = pageHTML[:MaxResponseSize]
		pageHTML = append(pageHTML, []byte("... [response trimmed due to size]")...)
	}

	lowerCT := strings.ToLower(contentType)
	isHTML := strings.Contains(lowerCT, "text/html")
	if !strings.HasPrefix(lowerCT, "text/") {
		return nil, errors.New("unsupported content type: binary files like images or PDFs are not supported")
	}

	var title, desc, body string
	var links []string

	if isHTML {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
		if err != nil {
			return nil, err
		}

		// Remove non-visible elements before extraction.
		doc.Find("script, style, noscript, iframe, object, embed, img, video, picture, svg, canvas, audio, source, track, map, area, form, label, input, button, select, textarea, progress").Remove()

		title = strings.TrimSpace(doc.Find("head > title").First().Text())
		desc = strings.TrimSpace(doc.Find("meta[name=description]").AttrOr("content", ""))

		plainText := strings.TrimSpace(doc.Find("body").Text())
		plainText = strings.Join(strings.Fields(plainText), " ")

		links = collectLinks(doc, finalURL)

		// Drop navigation chrome and anchors after collecting links, then
		// convert what remains to markdown.
		doc.Find("a, header, footer, aside, nav").Remove()
		htmlStr, err := doc.Html()
		if err != nil {
			return nil, err
		}
		markdown, err := htmltomarkdown.ConvertString(htmlStr)
		if err != nil {
			body = plainText
		} else {
			body = markdown
		}
	} else {
		body = string(pageHTML)
	}

	ps := &PageSummary{
		URL:         finalURL,
		Title:       title,
		Description: desc,
		Markdown:    body,
		Links:       links,
	}
	if b, err := json.Marshal(ps); err == nil {
		_ = f.cache.Put(f.cacheKey(rawURL), b, CategoryPages, f.ttl)
	}
	return ps, nil
}

// collectLinks extracts up to 50 absolute, fragment-free, deduplicated
// http(s) links from the document.
func collectLinks(doc *goquery.Document, finalURL string) []string {
	base, _ := url.Parse(finalURL)
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "javascript:") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if !u.IsAbs() && base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""
		seen[u.String()] = struct{}{}
	})

	links := make([]string, 0, len(seen))
	for l := range seen {
		links = append(links, l)
	}
	sort.Strings(links)
	if len(links) > 50 {
		links = links[:50]
	}
	return links
}
