package classifier

import (
	"sort"
	"strings"

	om "github.com/wk8/go-ordered-map/v2"

	"linkaudit/internal/canon"
	"linkaudit/internal/models"
	"linkaudit/internal/urlcmp"
)

const (
	LabelInternal = "internal"
	LabelExternal = "external"
)

// Classifier labels extracted links relative to the site they were found on.
type Classifier struct {
	site string
	cmp  *urlcmp.Comparer
}

func New(site string, cmp *urlcmp.Comparer) *Classifier {
	if cmp == nil {
		cmp = urlcmp.New(nil)
	}
	return &Classifier{site: site, cmp: cmp}
}

// relative acceptors ("/path", "?q", "page.html") belong to the site.
func (c *Classifier) isInternal(acceptor string) bool {
	if c.site == "" || acceptor == "" {
		return true
	}
	if strings.HasPrefix(acceptor, "/") || strings.HasPrefix(acceptor, "?") || !strings.Contains(canon.Host(acceptor, false), ".") {
		return true
	}
	return c.cmp.IsSameHostIDNA(c.site, acceptor, false)
}

func (c *Classifier) Classify(l models.Link) models.Classification {
	reason := map[string]string{}
	if l.Noindex {
		reason["noindex"] = "inside a noindex wrapper"
	}
	if l.NoindexOnly {
		reason["noindexOnly"] = "sole content of a noindex wrapper"
	}
	if hasDirective(l.Rel, "nofollow") {
		reason["nofollow"] = "rel contains nofollow"
	}

	label := LabelExternal
	if c.isInternal(l.Acceptor) {
		label = LabelInternal
	}
	if len(reason) == 0 {
		reason = nil
	}
	return models.Classification{Label: label, Reason: reason}
}

func (c *Classifier) ClassifyAll(links []models.Link) []models.ClassifiedLink {
	out := make([]models.ClassifiedLink, 0, len(links))
	for _, l := range links {
		class := c.Classify(l)
		out = append(out, models.ClassifiedLink{Link: l, Class: &class})
	}
	return out
}

// Summarize counts links per class and lists the n most linked external hosts.
func (c *Classifier) Summarize(links []models.Link, n int) models.LinkSummary {
	s := models.LinkSummary{Total: len(links)}
	freq := om.New[string, int]()
	for _, l := range links {
		class := c.Classify(l)
		if class.Label == LabelInternal {
			s.Internal++
		} else {
			s.External++
			host := strings.ToLower(canon.Host(l.Acceptor, true))
			count, _ := freq.Get(host)
			freq.Set(host, count+1)
		}
		if l.Noindex {
			s.Noindex++
		}
		if l.NoindexOnly {
			s.NoindexOnly++
		}
		if _, ok := class.Reason["nofollow"]; ok {
			s.Nofollow++
		}
	}
	s.TopHosts = topHosts(freq, n)
	return s
}

// topHosts ranks hosts by count; ties keep first-seen order.
func topHosts(freq *om.OrderedMap[string, int], n int) []string {
	type kv struct {
		K string
		V int
	}
	var list []kv
	for pair := freq.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, kv{pair.Key, pair.Value})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].V > list[j].V
	})
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list[i].K)
	}
	return out
}

func hasDirective(rel, directive string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == directive {
			return true
		}
	}
	return false
}
