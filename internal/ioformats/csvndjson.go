package ioformats

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var ErrNoURLs = errors.New("no urls found")

// Pair is one line of a comparison batch.
type Pair struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`
}

// ReadURLs reads URLs from a CSV (expects header with "url") or NDJSON file.
// If ext cannot be determined, tries CSV first then NDJSON.
func ReadURLs(path string) ([]string, error) {
	var rows [][]string
	err := readByExt(path, func(r io.Reader) error {
		var err error
		rows, err = csvColumns(r, "url")
		return err
	}, func(r io.Reader) error {
		return eachLine(r, func(line string) error {
			// allow raw string or {"url": "..."}
			if strings.HasPrefix(line, "{") {
				var obj struct {
					URL string `json:"url"`
				}
				if err := json.Unmarshal([]byte(line), &obj); err == nil && obj.URL != "" {
					rows = append(rows, []string{obj.URL})
					return nil
				}
			}
			rows = append(rows, []string{line})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[0])
	}
	return out, nil
}

// ReadPairs reads url1/url2 pairs from a CSV with both header columns, or
// from NDJSON lines of {"url1": "...", "url2": "..."}.
func ReadPairs(path string) ([]Pair, error) {
	var out []Pair
	err := readByExt(path, func(r io.Reader) error {
		rows, err := csvColumns(r, "url1", "url2")
		if err != nil {
			return err
		}
		for _, row := range rows {
			out = append(out, Pair{URL1: row[0], URL2: row[1]})
		}
		return nil
	}, func(r io.Reader) error {
		return eachLine(r, func(line string) error {
			var p Pair
			if err := json.Unmarshal([]byte(line), &p); err != nil {
				return errors.Wrapf(err, "decode %q", line)
			}
			out = append(out, p)
			return nil
		})
	})
	return out, err
}

func readByExt(path string, readCSV, readNDJSON func(io.Reader) error) error {
	read := func(fn func(io.Reader) error) error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		return fn(f)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return read(readCSV)
	case ".ndjson", ".jsonl":
		return read(readNDJSON)
	default:
		// try csv then ndjson
		if err := read(readCSV); err == nil {
			return nil
		}
		return read(readNDJSON)
	}
}

// csvColumns returns, per data row, the trimmed values of the named header
// columns. Rows with an empty value are skipped.
func csvColumns(r io.Reader, names ...string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}

	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = -1
		for j, h := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				cols[i] = j
				break
			}
		}
		if cols[i] == -1 {
			return nil, errors.Errorf("csv must contain a '%s' header column", name)
		}
	}

	var out [][]string
rows:
	for _, row := range rows[1:] {
		values := make([]string, len(cols))
		for i, col := range cols {
			if col >= len(row) {
				continue rows
			}
			values[i] = strings.TrimSpace(row[col])
			if values[i] == "" {
				continue rows
			}
		}
		out = append(out, values)
	}
	if len(out) == 0 {
		return nil, ErrNoURLs
	}
	return out, nil
}

func eachLine(r io.Reader, fn func(line string) error) error {
	n := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read ndjson")
	}
	if n == 0 {
		return ErrNoURLs
	}
	return nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return errors.Wrap(err, "encode ndjson")
		}
	}
	return nil
}
