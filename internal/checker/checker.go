// Package checker probes pages over HTTP and reports a collapsed status:
// 200 and 404 pass through, anything else (including transport failures)
// becomes StatusFail. Results may be cached; cache failures never fail a check.
package checker

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/sync/singleflight"

	"linkaudit/internal/models"
	"linkaudit/pkg/logger"
)

const (
	StatusOK             = 200
	StatusNotFound       = 404
	StatusFail           = -1
	StatusInvalidContent = -2
)

// DefaultProbeTimeout bounds a shared probe once it is detached from its callers.
const DefaultProbeTimeout = 30 * time.Second

type Prober interface {
	Head(ctx context.Context, rawURL string) (models.HeaderInfo, error)
}

type Cache interface {
	Read(ctx context.Context, key string) (models.HeaderInfo, bool, error)
	Write(ctx context.Context, key string, info models.HeaderInfo) error
}

type Checker struct {
	prober Prober
	cache  Cache
	log     *logger.Logger
	sf      singleflight.Group
	timeout time.Duration
}

// New builds a Checker. cache and log may be nil.
func New(prober Prober, cache Cache, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{prober: prober, cache: cache, log: log, timeout: DefaultProbeTimeout}
}

// WithTimeout sets how long a shared probe may run; non-positive values are ignored.
func (c *Checker) WithTimeout(d time.Duration) *Checker {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func cacheKey(page string) string {
	key, err := purell.NormalizeURLString(page, purell.FlagsSafe)
	if err != nil {
		return page
	}
	return key
}

// CheckHeader returns the header of page with its status collapsed to
// StatusOK, StatusNotFound or StatusFail.
func (c *Checker) CheckHeader(ctx context.Context, page string) models.HeaderInfo {
	key := cacheKey(page)

	if c.cache != nil {
		info, ok, err := c.cache.Read(ctx, key)
		if err != nil {
			c.log.Warnf("cache read %s: %v", key, err)
		} else if ok {
			return info
		}
	}

	// the probe is shared by every caller waiting on key, so it must not die
	// with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	done := c.sf.DoChan(key, func() (interface{}, error) {
		pctx, cancel := context.WithTimeout(shared, c.timeout)
		defer cancel()
		info := c.probe(pctx, page)
		if c.cache != nil {
			if err := c.cache.Write(pctx, key, info); err != nil {
				c.log.Warnf("cache write %s: %v", key, err)
			}
		}
		return info, nil
	})

	select {
	case res := <-done:
		return res.Val.(models.HeaderInfo)
	case <-ctx.Done():
		return models.HeaderInfo{URL: page, Status: StatusFail}
	}
}

func (c *Checker) probe(ctx context.Context, page string) models.HeaderInfo {
	info, err := c.prober.Head(ctx, page)
	if err != nil {
		c.log.Debugf("probe %s: %v", page, err)
		return models.HeaderInfo{URL: page, Status: StatusFail}
	}
	if info.Status != StatusOK && info.Status != StatusNotFound {
		c.log.Debugf("probe %s: status %d", page, info.Status)
		info.Status = StatusFail
	}
	return info
}

// IsAvailable returns the collapsed status of page.
func (c *Checker) IsAvailable(ctx context.Context, page string) int {
	return c.CheckHeader(ctx, page).Status
}

// Validate is CheckHeader with content constraints: a StatusOK page becomes
// StatusInvalidContent when contentType (if set) does not occur in its
// Content-Type, or when its declared length exceeds maxSize (if set).
func (c *Checker) Validate(ctx context.Context, page, contentType string, maxSize int64) models.HeaderInfo {
	info := c.CheckHeader(ctx, page)
	if info.Status == StatusOK {
		if contentType != "" && !strings.Contains(info.ContentType, contentType) {
			info.Status = StatusInvalidContent
		} else if maxSize > 0 && info.ContentLength > 0 && maxSize < info.ContentLength {
			info.Status = StatusInvalidContent
		}
	}
	return info
}

// IsValid reports whether page passes Validate, and returns the URL reached
// after redirects for valid pages.
func (c *Checker) IsValid(ctx context.Context, page, contentType string, maxSize int64) (string, bool) {
	info := c.Validate(ctx, page, contentType, maxSize)
	if info.Status != StatusOK {
		return "", false
	}
	return info.URL, true
}
