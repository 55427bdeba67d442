package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := LoadTranslations(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestT(t *testing.T) {
	assert.Equal(t, "Invalid username or password. Please try again.", T("en", "InvalidCredentials"))
	assert.Equal(t, "Connexion", T("fr", "Login"))
	// unknown language falls back to English
	assert.Equal(t, "Log in", T("de", "Login"))
	// unknown key is returned as is
	assert.Equal(t, "NoSuchKey", T("fr", "NoSuchKey"))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	require.Contains(t, catalogs, "en")
	require.Contains(t, catalogs, "fr")
	for key := range catalogs["en"] {
		if fixedKeys[key] {
			assert.NotContains(t, catalogs["fr"], key, "fr must not translate %s", key)
			continue
		}
		assert.Contains(t, catalogs["fr"], key, "fr is missing %s", key)
	}
}

func TestFixedMessagesIgnoreLanguage(t *testing.T) {
	for _, lang := range []string{"en", "fr", "de"} {
		assert.Equal(t, "Invalid username or password. Please try again.", T(lang, "InvalidCredentials"))
		assert.Equal(t, "Property not found.", T(lang, "PropertyNotFound"))
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"fr-CH, fr;q=0.9, en;q=0.8", "fr"},
		{"de-DE, de;q=0.9", "en"},
		{"de;q=0.9, FR;q=0.8", "fr"},
		{"*", "en"},
		{"fr", "fr"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Accept-Language", tt.header)
		}
		assert.Equal(t, tt.want, DetectLanguage(r), "header %q", tt.header)
	}
}
