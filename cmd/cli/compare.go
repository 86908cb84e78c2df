package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"linkaudit/internal/ioformats"
	"linkaudit/internal/models"
)

var (
	flagStrict bool
	flagFull   bool
	flagInput  string
)

var sameCmd = &cobra.Command{
	Use:   "same <url1> <url2>",
	Short: "Print whether two URLs address the same page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer closeApp(a)
		c := a.Compare(ioformats.Pair{URL1: args[0], URL2: args[1]}, flagStrict, flagFull)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Same)
		return err
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch --input pairs.csv",
	Short: "Compare url1/url2 pairs from a CSV or NDJSON file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagInput == "" {
			return errors.New("missing --input")
		}
		pairs, err := ioformats.ReadPairs(flagInput)
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		a, err := setup()
		if err != nil {
			return err
		}
		defer closeApp(a)

		out := make([]models.Comparison, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, a.Compare(p, flagStrict, flagFull))
		}
		a.Log.Infof("compared %d pairs", len(out))
		return writeNDJSON(out)
	},
}

func init() {
	for _, c := range []*cobra.Command{sameCmd, batchCmd} {
		c.Flags().BoolVar(&flagStrict, "strict", false, "treat www. as part of the host")
		c.Flags().BoolVar(&flagFull, "full", false, "also accept case, decoding and punycode variants")
		rootCmd.AddCommand(c)
	}
	batchCmd.Flags().StringVar(&flagInput, "input", "", "CSV with url1,url2 columns or NDJSON of {url1,url2}")
}
