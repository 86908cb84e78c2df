package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"linkaudit/internal/models"
)

const robotsXPath = `//meta[lower-case(@name)='robots']`

// robots reads page level <meta name="robots"> directives. "none" implies both.
func robots(doc *goquery.Document) models.Robots {
	var out models.Robots
	for _, root := range doc.Nodes {
		metas, err := htmlquery.QueryAll(root, robotsXPath)
		if err != nil {
			return out
		}
		for _, meta := range metas {
			for _, directive := range strings.Split(htmlquery.SelectAttr(meta, "content"), ",") {
				switch strings.ToLower(strings.TrimSpace(directive)) {
				case "noindex":
					out.Noindex = true
				case "nofollow":
					out.Nofollow = true
				case "none":
					out.Noindex = true
					out.Nofollow = true
				}
			}
		}
	}
	return out
}
