package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catlover7211/news-aggregator/internal/news"
	"github.com/catlover7211/news-aggregator/internal/source"
)

// newsServer 为每个来源路径返回一页两则新闻，/fail/ 前缀返回 500
func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/fail/") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/slow/") {
			time.Sleep(300 * time.Millisecond)
		}
		q := r.URL.Query().Get("q")
		fmt.Fprintf(w, `<html><body>
<div class="n"><a href="%s/1">%s 第一則</a></div>
<div class="n"><a href="%s/2">%s 第二則</a></div>
</body></html>`, r.URL.Path, q, r.URL.Path, q)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serverSource(base, name, prefix string) source.Config {
	return source.Config{
		Name:              name,
		SearchURLTemplate: base + "/" + prefix + "/" + name + "?q={keyword}",
		ArticleSelector:   "div.n",
		TitleSelector:     "a",
		LinkSelector:      "a",
		BaseURL:           base,
	}
}

func newTestFetcher(t *testing.T, configs []source.Config, opts Options) *Fetcher {
	t.Helper()
	reg, errs := source.NewRegistry(configs)
	require.Empty(t, errs)
	return NewFetcher(reg, opts)
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	srv := newsServer(t)

	var configs []source.Config
	for i := range 13 {
		prefix := "ok"
		if i%5 == 0 {
			prefix = "fail"
		}
		configs = append(configs, serverSource(srv.URL, fmt.Sprintf("src%02d", i), prefix))
	}

	f := newTestFetcher(t, configs, Options{Timeout: 2 * time.Second})
	articles := f.FetchAll(context.Background(), "颱風")

	// src00、src05、src10 失败，其余十个来源各贡献两则
	assert.Len(t, articles, 20)

	seen := map[string]int{}
	for _, a := range articles {
		seen[a.Source]++
		assert.Contains(t, a.Title, "颱風")
		assert.True(t, strings.HasPrefix(a.Link, srv.URL+"/ok/"), a.Link)
		assert.Equal(t, source.DefaultCountry, a.Country)
		assert.False(t, a.IsGlobal)
	}
	assert.Len(t, seen, 10)
	assert.NotContains(t, seen, "src00")
}

func TestFetchSourceWrapsError(t *testing.T) {
	srv := newsServer(t)
	f := newTestFetcher(t, nil, Options{})

	_, err := f.FetchSource(context.Background(), serverSource(srv.URL, "bad", "fail"), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, news.ErrSourceFetch))
	assert.Contains(t, err.Error(), "500")
}

func TestFetchSourceRespectsMaxPerSource(t *testing.T) {
	srv := newsServer(t)
	f := newTestFetcher(t, nil, Options{MaxPerSource: 1})

	articles, err := f.FetchSource(context.Background(), serverSource(srv.URL, "one", "ok"), "x")
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFetchSourceTimeout(t *testing.T) {
	srv := newsServer(t)
	f := newTestFetcher(t, nil, Options{Timeout: 50 * time.Millisecond})

	_, err := f.FetchSource(context.Background(), serverSource(srv.URL, "slow", "slow"), "x")
	assert.ErrorIs(t, err, news.ErrSourceFetch)
}

func TestFetchAllIgnoresCallerCancel(t *testing.T) {
	srv := newsServer(t)
	f := newTestFetcher(t, []source.Config{serverSource(srv.URL, "a", "ok")}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Len(t, f.FetchAll(ctx, "x"), 2)
}

func TestSetHeaders(t *testing.T) {
	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil, Options{UserAgent: "test-agent"})
	_, err := f.get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "test-agent", ua.Load())
}

type stubRenderer struct {
	html  string
	err   error
	calls atomic.Int32
}

func (s *stubRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	s.calls.Add(1)
	return s.html, s.err
}

func TestBrowserSourceUsesRenderer(t *testing.T) {
	r := &stubRenderer{html: `<div class="n"><a href="/r/1">渲染後的新聞</a></div>`}
	f := newTestFetcher(t, nil, Options{Renderer: r})

	src := serverSource("https://spa.example", "spa", "ok")
	src.Render = source.RenderBrowser

	articles, err := f.FetchSource(context.Background(), src, "x")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://spa.example/r/1", articles[0].Link)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestBrowserRenderFailureFallsBackToHTTP(t *testing.T) {
	srv := newsServer(t)
	r := &stubRenderer{err: errors.New("no chrome")}
	f := newTestFetcher(t, nil, Options{Renderer: r})

	src := serverSource(srv.URL, "spa", "ok")
	src.Render = source.RenderBrowser

	articles, err := f.FetchSource(context.Background(), src, "x")
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestHTTPSourceSkipsRenderer(t *testing.T) {
	srv := newsServer(t)
	r := &stubRenderer{}
	f := newTestFetcher(t, nil, Options{Renderer: r})

	_, err := f.FetchSource(context.Background(), serverSource(srv.URL, "plain", "ok"), "x")
	require.NoError(t, err)
	assert.Zero(t, r.calls.Load())
}
