package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"linkaudit/internal/app"
	"linkaudit/internal/checker"
	"linkaudit/internal/config"
	"linkaudit/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := app.New(config.Default(), nil)
	require.NoError(t, err)
	ts := httptest.NewServer(newRouter(a))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/compare", `{"url1":"http://www.a.ru/x/","url2":"a.ru/x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c models.Comparison
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	require.True(t, c.Same)

	resp = post(t, ts.URL+"/compare", `{"url1":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareBatch(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/compare/batch", `{"strict":true,"pairs":[{"url1":"a.ru","url2":"www.a.ru"},{"url1":"a.ru/?b=1&a=2","url2":"a.ru/?a=2&b=1"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []models.Comparison
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	require.False(t, out[0].Same)
	require.True(t, out[1].Same)
}

func TestLinks(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/links", `{"html":"<noindex><a href=\"http://b.ru/\">b</a></noindex><a href=\"/c\">c</a>","site":"a.ru"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res app.LinksResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Links, 2)
	require.True(t, res.Links[0].NoindexOnly)
	require.Equal(t, "external", res.Links[0].Class.Label)
	require.Equal(t, 1, res.Summary.External)

	resp = post(t, ts.URL+"/links", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLinksRejectsNonHTML(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer upstream.Close()

	ts := newTestServer(t)
	resp := post(t, ts.URL+"/links", `{"url":"`+upstream.URL+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCheckEndpoints(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
		}
	}))
	defer upstream.Close()
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/check", `{"url":"`+upstream.URL+`/ok"}`)
	var info models.HeaderInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Equal(t, checker.StatusOK, info.Status)

	resp = post(t, ts.URL+"/check/batch", `{"urls":["`+upstream.URL+`/ok","`+upstream.URL+`/gone"]}`)
	var infos []models.HeaderInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 2)
	require.Equal(t, checker.StatusOK, infos[0].Status)
	require.Equal(t, checker.StatusFail, infos[1].Status)

	resp = post(t, ts.URL+"/check", `{"url":"`+upstream.URL+`/ok","type":"image/png"}`)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Equal(t, checker.StatusInvalidContent, info.Status)

	resp = post(t, ts.URL+"/check/batch", `{"urls":["`+upstream.URL+`/ok","`+upstream.URL+`/gone"],"type":"image/png"}`)
	infos = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 2)
	require.Equal(t, checker.StatusInvalidContent, infos[0].Status)
	require.Equal(t, checker.StatusFail, infos[1].Status)
}

func TestCheckUpload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "urls.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("url\n" + upstream.URL + "/a\n" + upstream.URL + "/b\n"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/check/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	dec := json.NewDecoder(resp.Body)
	n := 0
	for dec.More() {
		var info models.HeaderInfo
		require.NoError(t, dec.Decode(&info))
		require.Equal(t, checker.StatusOK, info.Status)
		n++
	}
	require.Equal(t, 2, n)
}
