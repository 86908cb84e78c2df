package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"linkaudit/internal/canon"
	"linkaudit/internal/models"
)

// Options control href normalization.
type Options struct {
	// KeepSlash leaves a trailing "/" on acceptors.
	KeepSlash bool
	// KeepWww leaves a leading "www." on acceptors.
	KeepWww bool
}

type Parser struct {
	opts Options
}

func New(opts Options) *Parser { return &Parser{opts: opts} }

var (
	trailingSlashRe     = regexp.MustCompile(`/\s*$`)
	trailingFragmentRe  = regexp.MustCompile(`/?#\s*$`)
	trailingHashSpaceRe = regexp.MustCompile(`#?\s*$`)
)

var skippedHrefs = map[string]struct{}{
	"":                    {},
	"#":                   {},
	"/":                   {},
	"javascript:void(0);": {},
}

// Extract reads an HTML body, decodes it to UTF-8 using contentType and
// <meta> hints, and returns its links and robots directives.
func (p *Parser) Extract(r io.Reader, contentType string) (models.Page, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return models.Page{}, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return models.Page{}, err
		}
		utf8data = data
	}

	return p.ExtractPage(string(utf8data)), nil
}

// ExtractPage parses already decoded markup.
func (p *Parser) ExtractPage(page string) models.Page {
	doc, marked := p.document(page)
	if doc == nil {
		return models.Page{}
	}
	return models.Page{
		Robots: robots(doc),
		Links:  p.links(doc, marked),
	}
}

// ExtractLinks returns one Link per usable anchor of page, in document order.
// Malformed markup yields whatever anchors the parser could recover.
func (p *Parser) ExtractLinks(page string) []models.Link {
	doc, marked := p.document(page)
	if doc == nil {
		return nil
	}
	return p.links(doc, marked)
}

// document parses the prepared markup and also returns, per <a> tag in
// source order, whether the raw token stream had it inside <noindex>.
func (p *Parser) document(page string) (*goquery.Document, []bool) {
	prepared := prepare(page)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(prepared))
	if err != nil {
		return nil, nil
	}
	return doc, markupNoindex(prepared)
}

func (p *Parser) links(doc *goquery.Document, marked []bool) []models.Link {
	var links []models.Link
	anchors := doc.Find("a")
	// the tree builder may clone misnested anchors; then tags and elements
	// no longer pair up and only the tree is trusted.
	if anchors.Length() != len(marked) {
		marked = nil
	}
	anchors.Each(func(i int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if _, skip := skippedHrefs[href]; skip {
			return
		}
		node := s.Get(0)
		links = append(links, models.Link{
			Acceptor:    p.acceptor(href),
			Anchor:      s.Text(),
			Rel:         s.AttrOr("rel", ""),
			Noindex:     inNoindex(node) || (marked != nil && marked[i]),
			NoindexOnly: onlyInNoindex(node),
		})
	})
	return links
}

func (p *Parser) acceptor(href string) string {
	href = fixDoubleEncoding(href)
	href = canon.DecodeForm(href)
	href = canon.StripProtocol(strings.TrimSpace(href))
	if !p.opts.KeepWww {
		href = canon.StripWww(href)
	}
	if p.opts.KeepSlash {
		href = trailingHashSpaceRe.ReplaceAllString(href, "")
	} else {
		href = trailingSlashRe.ReplaceAllString(href, "")
		href = trailingFragmentRe.ReplaceAllString(href, "")
	}
	return strings.ToLower(href)
}
