package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
)

var (
	_ document.Observer    = (*Metrics)(nil)
	_ events.EventHandler = (*Metrics)(nil)
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveLoad("recipes", true)
	m.ObserveLoad("recipes", false)
	m.ObserveLoad("recipes", true)
	m.ObserveWrite("baseline", nil)
	m.ObserveWrite("baseline", errors.New("disk full"))
	m.SetSessions(3)
	m.ObserveRequest("/generate", 200)

	feed := events.NewInMemoryEventStore(nil)
	require.NoError(t, feed.Subscribe(events.AllEventTypes, m))
	require.NoError(t, feed.AppendEvent("session:s", events.NewListGeneratedEvent(events.ListGenerated{Session: "s", Rows: 7})))

	body := scrape(t, m)
	for _, want := range []string{
		`shoplist_store_loads_total{source="cache",store="recipes"} 2`,
		`shoplist_store_loads_total{source="backend",store="recipes"} 1`,
		`shoplist_store_writes_total{result="error",store="baseline"} 1`,
		`shoplist_store_writes_total{result="ok",store="baseline"} 1`,
		`shoplist_active_sessions 3`,
		`shoplist_http_requests_total{code="200",route="/generate"} 1`,
		`shoplist_events_total{type="list.generated"} 1`,
		`shoplist_list_rows_sum 7`,
		`shoplist_list_rows_count 1`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.SetSessions(1)
	assert.NotContains(t, scrape(t, b), "shoplist_active_sessions 1")
}
