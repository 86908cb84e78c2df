package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"linkaudit/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadURLs(t *testing.T) {
	type test struct {
		description string
		name        string
		content     string
		expected    []string
	}

	tests := []test{
		{
			description: "should read the url column of a csv",
			name:        "in.csv",
			content:     "id,URL\n1, http://a.ru \n2,\n3,http://b.ru\n",
			expected:    []string{"http://a.ru", "http://b.ru"},
		},
		{
			description: "should read objects and raw lines from ndjson",
			name:        "in.ndjson",
			content:     "{\"url\":\"http://a.ru\"}\n\nhttp://b.ru\n",
			expected:    []string{"http://a.ru", "http://b.ru"},
		},
		{
			description: "should fall back to ndjson for unknown extensions",
			name:        "in.txt",
			content:     "http://a.ru\nhttp://b.ru\n",
			expected:    []string{"http://a.ru", "http://b.ru"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			urls, err := ReadURLs(writeFile(t, tc.name, tc.content))
			require.NoError(t, err)
			require.Equal(t, tc.expected, urls)
		})
	}
}

func TestReadURLsErrors(t *testing.T) {
	_, err := ReadURLs(writeFile(t, "in.csv", "id,link\n1,http://a.ru\n"))
	require.Error(t, err)

	_, err = ReadURLs(writeFile(t, "in.ndjson", "\n\n"))
	require.True(t, errors.Is(err, ErrNoURLs))

	_, err = ReadURLs(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestReadPairs(t *testing.T) {
	pairs, err := ReadPairs(writeFile(t, "pairs.csv", "url1,url2\nhttp://a.ru,a.ru/\nhttp://b.ru,\n"))
	require.NoError(t, err)
	require.Equal(t, []Pair{{URL1: "http://a.ru", URL2: "a.ru/"}}, pairs)

	pairs, err = ReadPairs(writeFile(t, "pairs.jsonl", "{\"url1\":\"x.ru\",\"url2\":\"www.x.ru\"}\n"))
	require.NoError(t, err)
	require.Equal(t, []Pair{{URL1: "x.ru", URL2: "www.x.ru"}}, pairs)

	_, err = ReadPairs(writeFile(t, "pairs.ndjson", "not json\n"))
	require.Error(t, err)
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteNDJSON(&buf, []models.Comparison{
		{URL1: "a.ru", URL2: "www.a.ru", Same: true},
	})
	require.NoError(t, err)
	require.Equal(t, "{\"url1\":\"a.ru\",\"url2\":\"www.a.ru\",\"same\":true}\n", buf.String())
}
