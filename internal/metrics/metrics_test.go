package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewRegistersAllCollectorsWithoutPanic(t *testing.T) {
	c := New()
	if c.Registry == nil {
		t.Fatalf("want a registry")
	}
}

func TestObserveRequestIncrementsCounters(t *testing.T) {
	c := New()
	c.ObserveRequest("glyph.get_token", 10*time.Millisecond, nil)
	c.ObserveRequest("glyph.get_token", 5*time.Millisecond, errTest("boom"))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "rxindexer_requests_total") {
		t.Fatalf("want requests_total metric in output, got:\n%s", body)
	}
	if !strings.Contains(body, "rxindexer_requests_errors_total") {
		t.Fatalf("want requests_errors_total metric in output")
	}
}

func TestObserveBlockUpdatesHeightGauge(t *testing.T) {
	c := New()
	c.ObserveBlock(12345, 2*time.Second)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "rxindexer_block_height 12345") {
		t.Fatalf("want block height reflected in metrics output, got:\n%s", w.Body.String())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
