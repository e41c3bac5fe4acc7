package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/styva/vecsearch/internal/domain"
	"github.com/styva/vecsearch/internal/usecase/chat"
)

type mockSearcher struct {
	results []domain.SearchResult
	err     error
	calls   int
}

func (m *mockSearcher) SimilaritySearch(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	m.calls++
	return m.results, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestServer(search *mockSearcher, ping *mockPinger) *Server {
	return NewServer(chat.New(search, zap.NewNop()), ping, zap.NewNop())
}

func postSearch(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleSearch(rec, req)
	return rec
}

func TestHandleSearch_BlankQuery(t *testing.T) {
	search := &mockSearcher{}
	rec := postSearch(t, newTestServer(search, &mockPinger{}), `{"query": "   ", "k": 3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Reply, "valid search query") {
		t.Errorf("expected instructional reply, got %q", resp.Reply)
	}
	if search.calls != 0 {
		t.Error("blank query must not reach the searcher")
	}
}

func TestHandleSearch_Results(t *testing.T) {
	search := &mockSearcher{results: []domain.SearchResult{
		{Content: "weather forecast is cloudy", Metadata: map[string]string{"source": "news"}, Rank: 1},
	}}
	rec := postSearch(t, newTestServer(search, &mockPinger{}), `{"query": "What's the weather like?", "k": 2}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Reply, "weather forecast is cloudy") {
		t.Errorf("reply missing result content: %q", resp.Reply)
	}
	if !strings.Contains(resp.Reply, "news") {
		t.Errorf("reply missing source: %q", resp.Reply)
	}
}

func TestHandleSearch_BackendFailureStays200(t *testing.T) {
	search := &mockSearcher{err: errors.New("cluster unreachable")}
	rec := postSearch(t, newTestServer(search, &mockPinger{}), `{"query": "anything", "k": 3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cluster unreachable") {
		t.Errorf("reply should carry the error text: %s", rec.Body.String())
	}
}

func TestHandleSearch_InvalidBody(t *testing.T) {
	rec := postSearch(t, newTestServer(&mockSearcher{}, &mockPinger{}), `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(&mockSearcher{}, &mockPinger{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.HandleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"vector search assistant",
		`min="1"`, `max="10"`, `value="3"`,
		"Will it be hot tomorrow?",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer(&mockSearcher{}, &mockPinger{})
	rec := httptest.NewRecorder()
	s.HandleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("got status %d, want 200", rec.Code)
	}

	down := newTestServer(&mockSearcher{}, &mockPinger{err: errors.New("no reachable servers")})
	rec = httptest.NewRecorder()
	down.HandleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", rec.Code)
	}
}
