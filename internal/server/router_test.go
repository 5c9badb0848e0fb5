package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate/rulebased"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/report"
)

type stubAnalyzer struct {
	report report.Report
	err    error
	panic  bool
	ready  bool
	got    synsys.Request
}

func (s *stubAnalyzer) Report(ctx context.Context, req synsys.Request) (report.Report, error) {
	s.got = req
	if s.panic {
		panic("boom")
	}
	return s.report, s.err
}

func (s *stubAnalyzer) Ready() bool { return s.ready }

func newTestHandler(t *testing.T, a Analyzer) http.Handler {
	t.Helper()
	return NewRouter(Config{MaxBodyBytes: 4096}, a, nil, metrics.NewCollector("test")).Setup()
}

func realAnalyzer(t *testing.T) *synsys.Analyzer {
	t.Helper()
	tagger, err := rulebased.NewDefault()
	require.NoError(t, err)
	return synsys.New(synsys.Options{Tagger: tagger})
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analisar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestAnalyzeSuccess(t *testing.T) {
	h := newTestHandler(t, realAnalyzer(t))

	rec, body := post(t, h, `{"texto": "O sol brilha. O sol é quente."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sucesso", body["status"])
	assert.Equal(t, 1.0, body["total_palavras_repetidas"])
	assert.NotEmpty(t, body["id"])

	results := body["resultados"].([]interface{})
	require.Len(t, results, 1)
	entry := results[0].(map[string]interface{})
	assert.Equal(t, "Sol", entry["palavra"])
	assert.Equal(t, 2.0, entry["frequencia"])
	assert.Equal(t, "N/A - Sugestões de vocabulário", entry["sinonimos"])
}

func TestAnalyzeNoRepeatsReturnsEmptyList(t *testing.T) {
	h := newTestHandler(t, realAnalyzer(t))

	rec, body := post(t, h, `{"texto": "Uma frase curta."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["resultados"])
	assert.Equal(t, 0.0, body["total_palavras_repetidas"])
}

func TestAnalyzeHTML(t *testing.T) {
	stub := &stubAnalyzer{ready: true, report: report.Report{ID: "x", Entries: []report.Entry{}}}
	h := newTestHandler(t, stub)

	rec, _ := post(t, h, `{"texto": "<p>oi</p>", "formato": "html"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, synsys.Request{Text: "<p>oi</p>", Format: "html"}, stub.got)
}

func TestAnalyzeBadRequests(t *testing.T) {
	h := newTestHandler(t, &stubAnalyzer{ready: true})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing texto", `{}`, msgMissingText},
		{"empty texto", `{"texto": ""}`, msgMissingText},
		{"blank texto", `{"texto": "   \n"}`, msgMissingText},
		{"null body", `null`, msgMissingText},
		{"invalid json", `{"texto": `, msgInvalidBody},
		{"wrong type", `{"texto": 42}`, msgInvalidBody},
		{"unknown format", `{"texto": "x", "formato": "pdf"}`, "Requisição inválida. O campo 'formato' deve ser um de: texto html."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := post(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["erro"])
		})
	}
}

func TestAnalyzeBodyTooLarge(t *testing.T) {
	h := newTestHandler(t, &stubAnalyzer{ready: true})

	big := fmt.Sprintf(`{"texto": %q}`, strings.Repeat("palavra ", 1000))
	rec, body := post(t, h, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, msgBodyTooLarge, body["erro"])
}

func TestAnalyzeInternalError(t *testing.T) {
	stub := &stubAnalyzer{ready: true, err: fmt.Errorf("%w: sidecar timeout", internalerr.ErrAnalysis)}
	h := newTestHandler(t, stub)

	rec, body := post(t, h, `{"texto": "O sol."}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erro interno durante a análise: analysis failed: sidecar timeout", body["erro"])
}

func TestAnalyzeInvalidInputFromAnalyzer(t *testing.T) {
	stub := &stubAnalyzer{ready: true, err: fmt.Errorf("%w: bad markup", internalerr.ErrInvalidInput)}
	h := newTestHandler(t, stub)

	rec, _ := post(t, h, `{"texto": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzePanicIsContained(t *testing.T) {
	h := newTestHandler(t, &stubAnalyzer{ready: true, panic: true})

	rec, body := post(t, h, `{"texto": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, body["erro"])
}

func TestAnalyzeDegraded(t *testing.T) {
	h := newTestHandler(t, synsys.New(synsys.Options{}))

	rec, body := post(t, h, `{"texto": "O sol brilha. O sol é quente."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, body["total_palavras_repetidas"])
	assert.Equal(t, true, body["degradado"])
}

func TestHealthAndReady(t *testing.T) {
	stub := &stubAnalyzer{ready: true}
	h := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	stub.ready = false
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, realAnalyzer(t))
	post(t, h, `{"texto": "O sol brilha. O sol é quente."}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="POST",route="/analisar",status="200"} 1`)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubAnalyzer{ready: true})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analisar", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, &stubAnalyzer{ready: true})

	req := httptest.NewRequest(http.MethodOptions, "/analisar", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerRunStopsOnCancel(t *testing.T) {
	srv := New(Config{Address: "127.0.0.1:0"}, &stubAnalyzer{ready: true}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

func TestServerRunReportsListenError(t *testing.T) {
	srv := New(Config{Address: "256.0.0.1:bad"}, &stubAnalyzer{ready: true}, nil, nil)

	err := srv.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
