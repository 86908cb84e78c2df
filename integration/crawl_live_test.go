//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"linkaudit/internal/checker"
	"linkaudit/internal/classifier"
	"linkaudit/internal/crawler"
	"linkaudit/internal/parser"
)

func TestLivePageLinks(t *testing.T) {
	// subject to change / blocking
	url := "https://www.iana.org/domains/reserved"

	client := crawler.NewHTTPClient(25*time.Second, 5*time.Second, 5*1024*1024)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	body, finalURL, ct, _, err := client.Fetch(ctx, url)
	if err != nil {
		t.Skipf("skipping: fetch failed due to network: %v", err)
		return
	}
	defer body.Close()

	page, err := parser.New(parser.Options{}).Extract(body, ct)
	if err != nil {
		t.Skipf("skipping: parse failed: %v", err)
		return
	}
	if len(page.Links) == 0 {
		t.Fatalf("expected links on %s", finalURL)
	}

	summary := classifier.New(finalURL, nil).Summarize(page.Links, 5)
	if summary.Internal == 0 {
		t.Errorf("expected internal links, got %#v", summary)
	}
}

func TestLiveAvailability(t *testing.T) {
	ch := checker.New(crawler.NewHTTPClient(25*time.Second, 5*time.Second, 1024), nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	status := ch.IsAvailable(ctx, "https://example.com/")
	if status == checker.StatusFail {
		t.Skip("skipping: network unavailable")
	}
	if status != checker.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
}
