package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	reg, errs := NewRegistry(Defaults())
	require.Empty(t, errs)
	assert.Equal(t, 13, reg.Len())

	for _, c := range reg.All() {
		assert.Equal(t, DefaultCountry, c.Country, c.Name)
		assert.Equal(t, DefaultLanguage, c.Language, c.Name)
		assert.NotEmpty(t, c.Render, c.Name)
	}
}

func TestLookup(t *testing.T) {
	reg, _ := NewRegistry(Defaults())

	c, ok := reg.Lookup("中央社")
	require.True(t, ok)
	assert.Equal(t, "https://www.cna.com.tw", c.BaseURL)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRegistrySkipsInvalidAndDuplicates(t *testing.T) {
	good := Config{
		Name:              "a",
		SearchURLTemplate: "https://a.test/s?q={keyword}",
		ArticleSelector:   "li",
		BaseURL:           "https://a.test",
	}
	noPlaceholder := good
	noPlaceholder.Name = "b"
	noPlaceholder.SearchURLTemplate = "https://b.test/s"
	badBase := good
	badBase.Name = "c"
	badBase.BaseURL = "not a url"

	reg, errs := NewRegistry([]Config{good, good, noPlaceholder, badBase})
	assert.Len(t, errs, 3)
	assert.Equal(t, []string{"a"}, reg.Names())
}

func TestSearchURLEscapesKeyword(t *testing.T) {
	c := Config{SearchURLTemplate: "https://a.test/s?q={keyword}&p=1"}
	assert.Equal(t, "https://a.test/s?q=%E5%8F%B0%E7%A9%8D%E9%9B%BB+AI&p=1", c.SearchURL("台積電 AI"))
}

func TestAllReturnsCopy(t *testing.T) {
	reg, _ := NewRegistry(Defaults())
	all := reg.All()
	all[0].Name = "mutated"

	_, ok := reg.Lookup("mutated")
	assert.False(t, ok)
	assert.Equal(t, "中央社", reg.All()[0].Name)
}
