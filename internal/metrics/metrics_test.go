package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePrometheus(t *testing.T) {
	TimerStarts.Inc()
	TimerStops.WithLabelValues("idle").Inc()

	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf))
	assert.Contains(t, buf.String(), "horalis_timer_starts_total")
	assert.Contains(t, buf.String(), `horalis_timer_stops_total{reason="idle"}`)
}

func TestHandler(t *testing.T) {
	RenderErrors.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "horalis_render_errors_total")
}
