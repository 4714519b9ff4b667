package l10n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCatalog_English(t *testing.T) {
	c, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "en", c.Language())
	assert.Equal(t, "Download", c.T("download"))
	assert.Equal(t, "Download finished", c.T("download-finish"))
}

func TestCatalog_Russian(t *testing.T) {
	for _, lang := range []string{"ru", "ru_RU", "ru_RU.UTF-8", "ru-RU"} {
		c, err := New(lang)
		require.NoError(t, err)

		assert.Equal(t, "ru", c.Language(), "lang %q", lang)
		assert.Equal(t, "Загрузка", c.T("download"))
	}
}

func TestCatalog_Fallbacks(t *testing.T) {
	c, err := New("ja")
	require.NoError(t, err)
	assert.Equal(t, "en", c.Language())
	assert.Equal(t, "Download error", c.T("download-error"))

	c, err = New("not a language")
	require.NoError(t, err)
	assert.Equal(t, "en", c.Language())

	// unknown ids come back unchanged
	assert.Equal(t, "no-such-message", c.T("no-such-message"))
}

func TestCatalog_System(t *testing.T) {
	c, err := New(System)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Language())
	assert.NotEqual(t, "download", c.T("download"))
}

func TestMatch(t *testing.T) {
	supported := []language.Tag{language.English, language.Russian}
	assert.Equal(t, language.Russian, match("ru_RU", supported))
	assert.Equal(t, language.English, match("en_GB.UTF-8", supported))
	assert.Equal(t, language.English, match("", supported))
}

func TestCatalogsAgree(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	ru, err := New("ru")
	require.NoError(t, err)

	ids := []string{
		"about", "wrong-format-string", "error-in-reading-file", "error-count",
		"error-jobs", "error-input", "error-exclusive", "error-progress",
		"error-strict", "download", "download-finish", "download-error",
	}
	for _, id := range ids {
		assert.NotEqual(t, id, en.T(id), "en lacks %s", id)
		assert.NotEqual(t, id, ru.T(id), "ru lacks %s", id)
		assert.NotEqual(t, en.T(id), ru.T(id), "ru copies en for %s", id)
	}
}
