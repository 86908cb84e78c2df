package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"linkaudit/internal/app"
)

var (
	flagKeepSlash bool
	flagKeepWww   bool
	flagSite      string
	flagRegex     bool
)

var linksCmd = &cobra.Command{
	Use:   "links <file-or-url>",
	Short: "Extract links from an HTML file or page as NDJSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinks,
}

func init() {
	linksCmd.Flags().BoolVar(&flagKeepSlash, "keep-slash", false, "keep trailing slashes")
	linksCmd.Flags().BoolVar(&flagKeepWww, "keep-www", false, "keep www. prefixes")
	linksCmd.Flags().StringVar(&flagSite, "site", "", "classify links relative to this site")
	linksCmd.Flags().BoolVar(&flagRegex, "regex", false, "scan raw href/anchor pairs with regular expressions instead of parsing the DOM")
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer closeApp(a)

	src := args[0]
	req := app.LinksRequest{KeepSlash: flagKeepSlash || a.Config.KeepSlash, KeepWww: flagKeepWww || a.Config.KeepWww, Site: flagSite}

	if flagRegex {
		return runAnchors(cmd, a, src)
	}

	var res app.LinksResult
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.Timeout)
		defer cancel()
		req.URL = src
		res, err = a.Links(ctx, req)
	} else {
		var f *os.File
		f, err = os.Open(src)
		if err != nil {
			return errors.Wrap(err, "open page")
		}
		defer f.Close()
		res, err = a.LinksFrom(f, req)
	}
	if err != nil {
		return err
	}
	if res.Robots.Noindex || res.Robots.Nofollow {
		a.Log.Infof("page robots: noindex=%t nofollow=%t", res.Robots.Noindex, res.Robots.Nofollow)
	}
	if res.Summary != nil {
		a.Log.Infof("links: %d internal, %d external, top hosts %v", res.Summary.Internal, res.Summary.External, res.Summary.TopHosts)
	}
	return writeNDJSON(res.Links)
}

func runAnchors(cmd *cobra.Command, a *app.App, src string) error {
	var req app.LinksRequest
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req.URL = src
	} else {
		data, err := os.ReadFile(src)
		if err != nil {
			return errors.Wrap(err, "read page")
		}
		req.HTML = string(data)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.Timeout)
	defer cancel()
	anchors, err := a.Anchors(ctx, req)
	if err != nil {
		return err
	}
	a.Log.Debugf("scanned %d anchors", len(anchors))
	return writeNDJSON(anchors)
}
