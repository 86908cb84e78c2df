package models

// Link is one anchor found in a document, in document order.
type Link struct {
	Acceptor    string `json:"acceptor"`
	Anchor      string `json:"anchor"`
	Rel         string `json:"rel,omitempty"`
	Noindex     bool   `json:"noindex"`
	NoindexOnly bool   `json:"noindexOnly"`
}

// RawAnchor is an href/anchor pair found by scanning markup without a DOM.
type RawAnchor struct {
	Href   string `json:"href"`
	Anchor string `json:"anchor"`
}

type PunycodeForms struct {
	Encoded string `json:"encoded"`
	Decoded string `json:"decoded"`
}

// Robots holds page level <meta name="robots"> directives.
type Robots struct {
	Noindex  bool `json:"noindex"`
	Nofollow bool `json:"nofollow"`
}

type Page struct {
	Robots Robots `json:"robots"`
	Links  []Link `json:"links"`
}

type HeaderInfo struct {
	URL           string `json:"url"`
	Status        int    `json:"status"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength int64  `json:"contentLength,omitempty"`
}

type Comparison struct {
	URL1   string `json:"url1"`
	URL2   string `json:"url2"`
	Strict bool   `json:"strict,omitempty"`
	Full   bool   `json:"full,omitempty"`
	Same   bool   `json:"same"`
}

type Classification struct {
	Label  string            `json:"label"`
	Reason map[string]string `json:"reason,omitempty"`
}

type ClassifiedLink struct {
	Link
	Class *Classification `json:"class,omitempty"`
}

type LinkSummary struct {
	Total       int      `json:"total"`
	Internal    int      `json:"internal"`
	External    int      `json:"external"`
	Noindex     int      `json:"noindex"`
	NoindexOnly int      `json:"noindexOnly"`
	Nofollow    int      `json:"nofollow"`
	TopHosts    []string `json:"topHosts,omitempty"`
}
