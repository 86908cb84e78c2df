// Package app wires configuration into the services shared by the CLI and the
// HTTP server.
package app

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"linkaudit/internal/cache"
	"linkaudit/internal/checker"
	"linkaudit/internal/classifier"
	"linkaudit/internal/config"
	"linkaudit/internal/crawler"
	"linkaudit/internal/ioformats"
	"linkaudit/internal/models"
	"linkaudit/internal/parser"
	"linkaudit/internal/urlcmp"
	"linkaudit/pkg/logger"
)

type App struct {
	Config   config.Config
	Log      *logger.Logger
	Client   *crawler.HTTPClient
	Checker  *checker.Checker
	Comparer *urlcmp.Comparer

	flush func() error
}

func New(cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	client := crawler.NewHTTPClient(cfg.Timeout, cfg.DialTimeout, cfg.SizeCap).WithUserAgent(cfg.UserAgent)

	a := &App{
		Config:   cfg,
		Log:      log,
		Client:   client,
		Comparer: urlcmp.New(nil),
		flush:    func() error { return nil },
	}

	var c checker.Cache
	if cfg.Cache.Enabled {
		switch cfg.Cache.Kind {
		case "file":
			fc, err := cache.OpenFile(cfg.Cache.Path, cfg.Cache.TTL)
			if err != nil {
				return nil, err
			}
			c = fc
			a.flush = fc.Flush
		default:
			c = cache.NewMemory(cache.Options{TTL: cfg.Cache.TTL, MaxEntries: cfg.Cache.MaxEntries})
		}
		log.Debugf("check cache enabled (%s)", cfg.Cache.Kind)
	}
	a.Checker = checker.New(client, c, log.With("component", "checker")).WithTimeout(cfg.Timeout)
	return a, nil
}

// Close persists cached check results, if the cache is file backed.
func (a *App) Close() error {
	return a.flush()
}

func (a *App) Compare(p ioformats.Pair, strict, full bool) models.Comparison {
	same := a.Comparer.IsSameURL(p.URL1, p.URL2, strict)
	if full {
		same = a.Comparer.IsSameURLFull(p.URL1, p.URL2)
	}
	return models.Comparison{URL1: p.URL1, URL2: p.URL2, Strict: strict, Full: full, Same: same}
}

// CheckAll probes urls with at most Concurrency requests in flight. Results
// keep the input order.
func (a *App) CheckAll(ctx context.Context, urls []string) []models.HeaderInfo {
	return a.each(ctx, urls, a.Checker.CheckHeader)
}

// ValidateAll is CheckAll with the content constraints of checker.Validate.
func (a *App) ValidateAll(ctx context.Context, urls []string, contentType string, maxSize int64) []models.HeaderInfo {
	return a.each(ctx, urls, func(ctx context.Context, u string) models.HeaderInfo {
		return a.Checker.Validate(ctx, u, contentType, maxSize)
	})
}

func (a *App) each(ctx context.Context, urls []string, check func(context.Context, string) models.HeaderInfo) []models.HeaderInfo {
	out := make([]models.HeaderInfo, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.Concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			out[i] = check(gctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type LinksRequest struct {
	HTML      string `json:"html,omitempty"`
	URL       string `json:"url,omitempty"`
	KeepSlash bool   `json:"keepSlash,omitempty"`
	KeepWww   bool   `json:"keepWww,omitempty"`
	Site      string `json:"site,omitempty"`
}

type LinksResult struct {
	Source  string                  `json:"source,omitempty"`
	Robots  models.Robots           `json:"robots"`
	Links   []models.ClassifiedLink `json:"links"`
	Summary *models.LinkSummary     `json:"summary,omitempty"`
}

// Links extracts links from req.HTML, or from the page at req.URL. With a
// site (defaulting to the fetched URL) every link is classified.
func (a *App) Links(ctx context.Context, req LinksRequest) (LinksResult, error) {
	p := parser.New(parser.Options{KeepSlash: req.KeepSlash, KeepWww: req.KeepWww})

	var (
		page models.Page
		res  LinksResult
	)
	switch {
	case req.HTML != "":
		page = p.ExtractPage(req.HTML)
	case req.URL != "":
		body, finalURL, ct, elapsed, err := a.Client.Fetch(ctx, req.URL)
		if err != nil {
			return res, err
		}
		defer body.Close()
		a.Log.Debugf("fetched %s in %s", finalURL, elapsed)
		page, err = p.Extract(body, ct)
		if err != nil {
			return res, errors.Wrap(err, "extract")
		}
		res.Source = finalURL
		if req.Site == "" {
			req.Site = finalURL
		}
	default:
		return res, errors.New("html or url is required")
	}

	return classify(page, req.Site, a.Comparer, res), nil
}

// Anchors scans req.HTML, or the page at req.URL, for href/anchor pairs with
// the regex scanner instead of the DOM parser.
func (a *App) Anchors(ctx context.Context, req LinksRequest) ([]models.RawAnchor, error) {
	switch {
	case req.HTML != "":
		return parser.ScanAnchors(req.HTML), nil
	case req.URL != "":
		body, finalURL, _, elapsed, err := a.Client.Fetch(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		a.Log.Debugf("fetched %s in %s", finalURL, elapsed)
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, errors.Wrap(err, "read page")
		}
		return parser.ScanAnchors(string(data)), nil
	}
	return nil, errors.New("html or url is required")
}

// LinksFrom extracts links from a local HTML file body.
func (a *App) LinksFrom(r io.Reader, req LinksRequest) (LinksResult, error) {
	p := parser.New(parser.Options{KeepSlash: req.KeepSlash, KeepWww: req.KeepWww})
	page, err := p.Extract(r, "")
	if err != nil {
		return LinksResult{}, errors.Wrap(err, "extract")
	}
	return classify(page, req.Site, a.Comparer, LinksResult{}), nil
}

func classify(page models.Page, site string, cmp *urlcmp.Comparer, res LinksResult) LinksResult {
	res.Robots = page.Robots
	site = strings.TrimSpace(site)
	cl := classifier.New(site, cmp)
	if site == "" {
		res.Links = make([]models.ClassifiedLink, 0, len(page.Links))
		for _, l := range page.Links {
			res.Links = append(res.Links, models.ClassifiedLink{Link: l})
		}
		return res
	}
	res.Links = cl.ClassifyAll(page.Links)
	summary := cl.Summarize(page.Links, 10)
	res.Summary = &summary
	return res
}
