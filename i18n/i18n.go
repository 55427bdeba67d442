// Package i18n serves the UI strings in the languages found under locales/.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
)

//go:embed locales/*.json
var locales embed.FS

const DefaultLang = "en"

// fixedKeys are messages users and clients match on verbatim. They are always
// served from the default catalog, whatever language was negotiated.
var fixedKeys = map[string]bool{
	"InvalidCredentials": true,
	"PropertyNotFound":   true,
}

var (
	mu       sync.RWMutex
	catalogs = map[string]map[string]string{}
)

// LoadTranslations reads every locales/<lang>.json catalog. It fails when the
// default catalog is missing.
func LoadTranslations() error {
	files, err := fs.Glob(locales, "locales/*.json")
	if err != nil {
		return err
	}

	loaded := make(map[string]map[string]string, len(files))
	for _, file := range files {
		data, err := locales.ReadFile(file)
		if err != nil {
			return err
		}
		var catalog map[string]string
		if err := json.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("locale %s: %w", file, err)
		}
		loaded[strings.TrimSuffix(path.Base(file), ".json")] = catalog
	}
	if _, ok := loaded[DefaultLang]; !ok {
		return fmt.Errorf("locale %s: missing", DefaultLang)
	}

	mu.Lock()
	catalogs = loaded
	mu.Unlock()
	return nil
}

// T looks key up in lang, then in the default language. Unknown keys come
// back unchanged.
func T(lang, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if !fixedKeys[key] {
		if val, ok := catalogs[lang][key]; ok {
			return val
		}
	}
	if val, ok := catalogs[DefaultLang][key]; ok {
		return val
	}
	return key
}

func supported(lang string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := catalogs[lang]
	return ok
}

// DetectLanguage picks the first Accept-Language entry, in header order, whose
// primary subtag has a catalog. Quality values are not weighed.
func DetectLanguage(r *http.Request) string {
	for _, entry := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(entry), ";")
		primary, _, _ := strings.Cut(tag, "-")
		if lang := strings.ToLower(primary); supported(lang) {
			return lang
		}
	}
	return DefaultLang
}
