package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkaudit/internal/canon"
	"linkaudit/internal/ioformats"
	"linkaudit/internal/uri"
	"linkaudit/internal/urlcmp"
)

var (
	flagCutWww bool
	flagIDN    bool
	flagForm   bool

	flagDecodeIDN bool
)

func printer(fn func(args []string) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), fn(args))
		return err
	}
}

var hostCmd = &cobra.Command{
	Use:   "host <url>",
	Short: "Print the host of a URL",
	Args:  cobra.ExactArgs(1),
	RunE: printer(func(args []string) string {
		if flagIDN {
			return urlcmp.HostIDN(args[0], flagCutWww)
		}
		return canon.Host(args[0], flagCutWww)
	}),
}

var uriCmd = &cobra.Command{
	Use:   "uri <url> [site]",
	Short: "Print the part of a URL after its site",
	Args:  cobra.RangeArgs(1, 2),
	RunE: printer(func(args []string) string {
		site := ""
		if len(args) == 2 {
			site = args[1]
		}
		return urlcmp.URI(site, args[0])
	}),
}

var encodeCmd = &cobra.Command{
	Use:   "encode <url>",
	Short: "Percent-encode the path, query and fragment of a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  printer(func(args []string) string { return canon.Encode(args[0]) }),
}

var decodeCmd = &cobra.Command{
	Use:   "decode <url>",
	Short: "Percent-decode a URL",
	Args:  cobra.ExactArgs(1),
	RunE: printer(func(args []string) string {
		if flagForm {
			return canon.DecodeForm(args[0])
		}
		return canon.Decode(args[0])
	}),
}

var punycodeCmd = &cobra.Command{
	Use:   "punycode <url>",
	Short: "Print the ASCII and Unicode host forms of a URL as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ioformats.WriteNDJSON(cmd.OutOrStdout(), []any{urlcmp.ConvertToPunycode(args[0])})
	},
}

var idnCmd = &cobra.Command{
	Use:   "idn <url>",
	Short: "Rewrite the host of a URL to punycode, or back with --decode",
	Args:  cobra.ExactArgs(1),
	RunE: printer(func(args []string) string {
		if flagDecodeIDN {
			return urlcmp.FromIDN(args[0])
		}
		return urlcmp.ToIDN(args[0])
	}),
}

var partsCmd = &cobra.Command{
	Use:   "parts <url>",
	Short: "Print the decomposed parts of a URL as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := uri.Parse(args[0])
		return ioformats.WriteNDJSON(cmd.OutOrStdout(), []any{map[string]any{
			"parts": p,
			"valid": canon.IsValid(args[0]),
		}})
	},
}

// formsCmd prints the protocol-level rewrites of a URL.
var formsCmd = &cobra.Command{
	Use:   "forms <url>",
	Short: "Print protocol, slash and video-link forms of a URL as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ioformats.WriteNDJSON(cmd.OutOrStdout(), []any{urlForms(args[0])})
	},
}

type forms struct {
	Scheme       string `json:"scheme"`
	Rest         string `json:"rest"`
	WithProtocol string `json:"withProtocol"`
	Video        string `json:"video"`
	NoSlash      string `json:"noSlash"`
}

func urlForms(u string) forms {
	scheme, rest := canon.SplitURL(u)
	return forms{
		Scheme:       scheme,
		Rest:         rest,
		WithProtocol: canon.WithProtocol(u),
		Video:        canon.ClearVideoURL(u),
		NoSlash:      canon.ExcludeTrailingSlash(u),
	}
}

func init() {
	hostCmd.Flags().BoolVar(&flagCutWww, "cut-www", false, "drop a leading www.")
	hostCmd.Flags().BoolVar(&flagIDN, "idn", false, "print the ASCII (punycode) form")
	decodeCmd.Flags().BoolVar(&flagForm, "form", false, "also turn '+' into a space")
	idnCmd.Flags().BoolVar(&flagDecodeIDN, "decode", false, "convert a punycode host to Unicode")
	rootCmd.AddCommand(hostCmd, uriCmd, encodeCmd, decodeCmd, punycodeCmd, idnCmd, partsCmd, formsCmd)
}
