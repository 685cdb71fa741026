// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides translations for the public site.
//
// Locale files are nested JSON (locales/<lang>/translation.json). Nested
// objects are flattened to dotted keys; arrays of objects are kept aside and
// served by Objects.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when nothing better matches.
const DefaultLanguage = "ko"

// SupportedLanguages lists the site languages, default first.
var SupportedLanguages = []string{"ko", "en"}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string              // lang -> key -> text
	objects      map[string]map[string][]map[string]string // lang -> key -> list
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// Init loads the embedded locale files.
func Init(logger *slog.Logger) error {
	c, err := Load(localesFS, logger)
	if err != nil {
		return err
	}
	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

// Load reads locales/<lang>/translation.json for every supported language
// from fsys.
func Load(fsys fs.FS, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		objects:      make(map[string]map[string][]map[string]string),
		defaultLang:  DefaultLanguage,
		logger:       logger,
	}
	for _, lang := range SupportedLanguages {
		c.supported = append(c.supported, language.MustParse(lang))
	}
	c.matcher = language.NewMatcher(c.supported)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(fsys, lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}
	return c, nil
}

func (c *Catalog) loadLanguage(fsys fs.FS, lang string) error {
	path := fmt.Sprintf("locales/%s/translation.json", lang)
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	texts := make(map[string]string)
	lists := make(map[string][]map[string]string)
	flatten("", tree, texts, lists)

	c.mu.Lock()
	c.translations[lang] = texts
	c.objects[lang] = lists
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(texts))
	}
	return nil
}

func flatten(prefix string, node map[string]any, texts map[string]string, lists map[string][]map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			texts[key] = val
		case map[string]any:
			flatten(key, val, texts, lists)
		case []any:
			items := make([]map[string]string, 0, len(val))
			for _, item := range val {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				m := make(map[string]string, len(obj))
				for f, fv := range obj {
					m[f] = fmt.Sprint(fv)
				}
				items = append(items, m)
			}
			lists[key] = items
		default:
			texts[key] = fmt.Sprint(val)
		}
	}
}

// T translates key into lang, falling back to the default language and then
// to the key itself. args are name/value pairs replacing {{name}}.
func (c *Catalog) T(lang, key string, args ...any) string {
	c.mu.RLock()
	text, ok := c.translations[lang][key]
	if !ok && lang != c.defaultLang {
		text, ok = c.translations[c.defaultLang][key]
		if ok && c.logger != nil {
			c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	c.mu.RUnlock()
	if !ok {
		return key
	}
	return interpolate(text, args)
}

// Objects returns the list stored under key, e.g. the programs list.
func (c *Catalog) Objects(lang, key string) []map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if list, ok := c.objects[lang][key]; ok {
		return list
	}
	return c.objects[c.defaultLang][key]
}

// Match finds the best supported language for an Accept-Language header or
// a bare language code.
func (c *Catalog) Match(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return c.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.supported) {
		return c.defaultLang
	}
	return SupportedLanguages[idx]
}

// Count returns the number of texts loaded for lang.
func (c *Catalog) Count(lang string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations[lang])
}

func interpolate(text string, args []any) string {
	if len(args) < 2 || !strings.Contains(text, "{{") {
		return text
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{{"+fmt.Sprint(args[i])+"}}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// T translates with the global catalog.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}
	return catalog.T(lang, key, args...)
}

// Objects reads a list from the global catalog.
func Objects(lang, key string) []map[string]string {
	if catalog == nil {
		return nil
	}
	return catalog.Objects(lang, key)
}

// MatchLanguage matches against the global catalog.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return DefaultLanguage
	}
	return catalog.Match(acceptLang)
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of texts loaded for lang.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	return catalog.Count(lang)
}
