// Package l10n looks up user-facing messages by id in the user's language.
package l10n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	locale "github.com/jeandeaual/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// System asks the OS for the user's language.
const System = "system"

// Catalog is an immutable set of translations bound to one language.
type Catalog struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New loads the embedded catalogs and binds them to lang. An empty lang or
// System uses the OS locale; unknown languages fall back to English.
func New(lang string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, e := range entries {
		name := path.Join("locales", e.Name())
		buf, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(buf, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	if lang == "" || lang == System {
		lang = systemLanguage()
	}
	tag := match(lang, bundle.LanguageTags())
	return &Catalog{
		tag:       tag,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
	}, nil
}

// Language returns the tag messages are rendered in.
func (c *Catalog) Language() string { return c.tag.String() }

// T returns the message for id, the English text when the language lacks
// it, or id itself when no catalog has it.
func (c *Catalog) T(id string) string {
	s, _ := c.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if s == "" {
		return id
	}
	return s
}

func systemLanguage() string {
	lang, err := locale.GetLanguage()
	if err != nil || lang == "" {
		return language.English.String()
	}
	return lang
}

// match maps a locale string such as "ru_RU.UTF-8" onto a supported tag.
func match(lang string, supported []language.Tag) language.Tag {
	lang = strings.SplitN(lang, ".", 2)[0]
	lang = strings.ReplaceAll(lang, "_", "-")
	want, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, conf := language.NewMatcher(supported).Match(want)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}
