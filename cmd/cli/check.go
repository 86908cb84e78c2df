package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"linkaudit/internal/canon"
	"linkaudit/internal/ioformats"
	"linkaudit/internal/models"
)

var (
	flagCheckInput string
	flagCheckType  string
	flagMaxSize    int64
)

var checkCmd = &cobra.Command{
	Use:   "check <url>... | --input urls.csv",
	Short: "Probe pages and print their collapsed status as NDJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		if flagCheckInput != "" {
			fromFile, err := ioformats.ReadURLs(flagCheckInput)
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			urls = append(urls, fromFile...)
		}
		urls = ensureProtocol(urls)
		if len(urls) == 0 {
			return errors.New("no urls given")
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer closeApp(a)

		var out []models.HeaderInfo
		if flagCheckType != "" || flagMaxSize > 0 {
			out = a.ValidateAll(cmd.Context(), urls, flagCheckType, flagMaxSize)
		} else {
			out = a.CheckAll(cmd.Context(), urls)
		}
		a.Log.Infof("checked %d urls", len(out))
		return writeNDJSON(out)
	},
}

// ensureProtocol gives bare hosts an http:// prefix and drops blank entries.
func ensureProtocol(urls []string) []string {
	out := urls[:0:0]
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, canon.EnsureProtocol(u))
		}
	}
	return out
}

func init() {
	checkCmd.Flags().StringVar(&flagCheckInput, "input", "", "input file (csv with 'url' column or ndjson)")
	checkCmd.Flags().StringVar(&flagCheckType, "type", "", "report -2 unless the Content-Type contains this")
	checkCmd.Flags().Int64Var(&flagMaxSize, "max-size", 0, "report -2 when the declared length exceeds this many bytes")
	rootCmd.AddCommand(checkCmd)
}
