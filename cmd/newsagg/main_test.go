package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catlover7211/news-aggregator/internal/news"
)

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, news.SearchResponse{
		Success: true,
		Message: "Search service unavailable, showing simulated results",
		Results: []news.Article{
			{Source: "中央社", Country: "台灣", Title: "颱風動態", Link: "https://www.cna.com.tw/news/1", Date: "2024-06-01"},
			{Source: "BBC News", Country: "英國", Title: "Typhoon update", Link: "https://bbc.com/x", IsGlobal: true},
		},
		Pagination: news.NewPagination(12, 1, 10),
	})

	out := buf.String()
	assert.Contains(t, out, "12 results, page 1/2")
	assert.Contains(t, out, "note: Search service unavailable")
	assert.Contains(t, out, " 1. [local] 颱風動態")
	assert.Contains(t, out, " 2. [global] Typhoon update")
}

func TestBuildAppFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  enabled: false
history:
  enabled: false
sources:
  - name: 測試
    search_url: https://news.test/search?q={keyword}
    article_selector: li
    base_url: https://news.test
  - name: 壞掉
    search_url: https://bad.test/search
    article_selector: li
    base_url: https://bad.test
`), 0o644))

	flagConfig = path
	t.Cleanup(func() { flagConfig = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)

	a, err := buildApp(cfg, true)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"測試"}, a.registry.Names())
	assert.Nil(t, a.browser)
	assert.Nil(t, a.history)
	assert.NotNil(t, a.aggregator)
}

func TestLoadConfigMissingFile(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { flagConfig = "" })

	_, err := loadConfig()
	assert.Error(t, err)
}
