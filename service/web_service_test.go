package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/cortex-be/types"
)

const samplePage = `<html>
<head>
	<title>  Deep Sea Handbook  </title>
	<style>body { color: red; }</style>
</head>
<body>
	<script>console.log("tracking");</script>
	<h1>Chapter One</h1>

	<p>   The abyssal plain covers half the planet.   </p>
	<noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestFetchPageExtractsTitleAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, crawlerUserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	ws := NewWebService(5 * time.Second)
	title, text, err := ws.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Deep Sea Handbook", title)
	assert.Contains(t, text, "Chapter One")
	assert.Contains(t, text, "The abyssal plain covers half the planet.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Enable JavaScript")
}

func TestFetchPageTitleFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>no title here</p></body></html>"))
	}))
	defer srv.Close()

	ws := NewWebService(5 * time.Second)
	title, text, err := ws.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, title)
	assert.Equal(t, "no title here", text)
}

func TestFetchPageDropsBlankLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p> first </p>\n\n\n<p> second </p></body></html>"))
	}))
	defer srv.Close()

	ws := NewWebService(5 * time.Second)
	_, text, err := ws.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", text)
}

func TestFetchPageNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ws := NewWebService(5 * time.Second)
	_, _, err := ws.FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrFetch))
}

func TestFetchPageUnreachableHost(t *testing.T) {
	ws := NewWebService(time.Second)
	_, _, err := ws.FetchPage(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrFetch))
}

func TestFetchPageInvalidURL(t *testing.T) {
	ws := NewWebService(time.Second)
	_, _, err := ws.FetchPage(context.Background(), "http://\x7f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrFetch))
}
