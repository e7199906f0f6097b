// Package testutil provides shared test helpers for config files and a fake dream-book site.
package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigOption configures optional fields of a test config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	sourceURL   string
	accessToken string
}

// WithSourceURL points the interpretation source at url, usually a DreamBookServer.
func WithSourceURL(url string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.sourceURL = url
	}
}

// WithAccessToken requires the given bearer token on the HTTP API.
func WithAccessToken(token string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.accessToken = token
	}
}

// SetupTestConfig creates a config file with a SQLite database inside tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		// nothing listens on port 1, so lookups fail fast unless a server is given
		sourceURL: "http://127.0.0.1:1/",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	configContent := fmt.Sprintf(`analyzer:
  language: russian
source:
  base_url: %s
  timeout: 5s
  request_interval: 0s
  retry_attempts: 0
database:
  driver: sqlite
  path: %s
server:
  port: 18080
  access_token: %q
`,
		cfg.sourceURL,
		filepath.Join(tmpDir, "sonnik.db"),
		cfg.accessToken,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// DreamBookServer serves pages in the layout of the dream-book site: an h4 heading per symbol followed by its paragraph.
type DreamBookServer struct {
	*httptest.Server
	requests atomic.Int32
}

// NewDreamBookServer starts a DreamBookServer that knows entries. It is closed when the test ends.
func NewDreamBookServer(t *testing.T, entries map[string]string) *DreamBookServer {
	t.Helper()

	terms := make([]string, 0, len(entries))
	for term := range entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var sb strings.Builder
	sb.WriteString("<html><body><div class=\"content\">\n")
	for _, term := range terms {
		fmt.Fprintf(&sb, "<h4>%s</h4>\n<p>%s</p>\n", html.EscapeString(capitalize(term)), html.EscapeString(entries[term]))
	}
	sb.WriteString("</div></body></html>\n")
	page := sb.String()

	s := &DreamBookServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns how many requests the server has received.
func (s *DreamBookServer) Requests() int {
	return int(s.requests.Load())
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
