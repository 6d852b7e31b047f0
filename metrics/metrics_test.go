package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveTier(t *testing.T) {
	m := New()
	m.ObserveTier("eip", "short", 3, 1, 2, 120)
	m.ObserveTier("eip", "short", 1, 0, 0, 40)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.documents.WithLabelValues("eip", "short", OutcomeSummarized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("eip", "short", OutcomeSkipped)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.documents.WithLabelValues("eip", "short", OutcomeFailed)))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.tokens.WithLabelValues("eip", "short")))
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun("erc", 150*time.Millisecond)
	m.ObserveRun("erc", time.Second)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("erc")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveTier("eip", "long", 2, 0, 0, 300)
	path := filepath.Join(t.TempDir(), "digestius.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `digestius_tier_tokens{kind="eip",tier="long"} 300`)
}

func TestServeHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digestius.prom")
	scrape := func() string {
		rec := httptest.NewRecorder()
		ServeHandler(path).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	body := scrape()
	assert.Contains(t, body, "go_goroutines")
	assert.NotContains(t, body, "digestius_")

	m := New()
	m.ObserveRun("eip", time.Second)
	m.ObserveTier("eip", "short", 2, 1, 0, 80)
	require.NoError(t, m.WriteTextfile(path))

	body = scrape()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, `digestius_runs_total{kind="eip"} 1`)
	assert.Contains(t, body, `digestius_tier_tokens{kind="eip",tier="short"} 80`)
}

func TestTextfile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digestius.prom")
	require.NoError(t, os.WriteFile(path, []byte("not a metric {\n"), 0o644))
	_, err := Textfile(path).Gather()
	assert.Error(t, err)
}
