package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cours-de-latin/koref/internal/config"
)

const boyOn = `# newdoc id = boy-on
# sent_id = boy-on-1
1	Chłopiec	chłopiec	NOUN	subst:sg:nom:m1	Animacy=Hum|Case=Nom|Gender=Masc|Number=Sing	2	nsubj	_	_
2	wszedł	wejść	VERB	praet:sg:m1:perf	Aspect=Perf|Gender=Masc|Mood=Ind|Number=Sing|Tense=Past|VerbForm=Fin|Voice=Act	0	root	_	_
3	.	.	PUNCT	interp	_	2	punct	_	_

# sent_id = boy-on-2
1	On	on	PRON	ppron3:sg:nom:m1:ter:akc:npraep	Case=Nom|Gender=Masc|Number=Sing|Person=3|PronType=Prs	3	nsubj	_	_
2	był	być	AUX	praet:sg:m1:imperf	Aspect=Imp|Gender=Masc|Mood=Ind|Number=Sing|Tense=Past|VerbForm=Fin|Voice=Act	3	cop	_	_
3	szczęśliwy	szczęśliwy	ADJ	adj:sg:nom:m1:pos	Case=Nom|Degree=Pos|Gender=Masc|Number=Sing	0	root	_	_
4	.	.	PUNCT	interp	_	3	punct	_	_
`

func lexiconYAML(distance int) string {
	return "language: pl\n" +
		"deps:\n  sibling: [conj]\n  subject: [nsubj]\n  auxiliary: [aux]\n" +
		"pronouns:\n  on: [masc-sg]\n" +
		"reflexive_pronouns: [siebie]\n" +
		"finite_tags: [fin, praet]\n" +
		"max_anaphora_sentence_distance: " + strconv.Itoa(distance) + "\n"
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.RequestsPerSecond = 0
	cfg.Server.AllowedOrigins = []string{"https://example.org"}
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestAnalyze(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	rec := post(t, h, "/api/analyze", map[string]any{"conllu": boyOn})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decodeBody[analyzeResponse](t, rec)
	if len(resp.Documents) != 1 {
		t.Fatalf("got %d documents, want 1", len(resp.Documents))
	}
	d := resp.Documents[0]
	if d.ID != "boy-on" || len(d.Tokens) != 7 || len(d.Links) == 0 {
		t.Errorf("document = %s with %d tokens and %d links", d.ID, len(d.Tokens), len(d.Links))
	}
	if !d.Tokens[3].PotentialAnaphor {
		t.Errorf("On not reported as anaphor: %+v", d.Tokens[3])
	}

	rec = post(t, h, "/api/analyze", map[string]any{"conllu": boyOn, "tokens": false})
	if d := decodeBody[analyzeResponse](t, rec).Documents[0]; d.Tokens != nil {
		t.Errorf("tokens returned although disabled")
	}
}

func TestPair(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	tests := []struct {
		anaphor int
		score   string
		value   int
	}{
		{3, "compatible", 2},
		{0, "incompatible", 0},
	}
	for _, tt := range tests {
		rec := post(t, h, "/api/pair", map[string]any{"conllu": boyOn, "referent": 0, "anaphor": tt.anaphor})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		resp := decodeBody[pairResponse](t, rec)
		if resp.Score != tt.score || resp.ScoreValue != tt.value {
			t.Errorf("pair(0, %d) = %s (%d), want %s (%d)", tt.anaphor, resp.Score, resp.ScoreValue, tt.score, tt.value)
		}
		if resp.Referent != "Chłopiec(0)" || resp.ReflexivePair {
			t.Errorf("pair(0, %d) = %+v", tt.anaphor, resp)
		}
	}
}

func TestAntecedents(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	rec := post(t, h, "/api/antecedents", map[string]any{"conllu": boyOn, "token": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decodeBody[antecedentsResponse](t, rec)
	if resp.Token != "On(3)" {
		t.Errorf("Token = %q, want On(3)", resp.Token)
	}
	found := false
	for _, c := range resp.Candidates {
		found = found || c.Root == 0
	}
	if !found {
		t.Errorf("candidates = %+v, want Chłopiec(0)", resp.Candidates)
	}
}

func TestRequestErrors(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"no conllu", "/api/analyze", map[string]any{}, http.StatusBadRequest},
		{"malformed", "/api/analyze", map[string]any{"conllu": "1\tx\n"}, http.StatusUnprocessableEntity},
		{"document", "/api/pair", map[string]any{"conllu": boyOn, "document": 1}, http.StatusBadRequest},
		{"referent", "/api/pair", map[string]any{"conllu": boyOn, "referent": 40, "anaphor": 3}, http.StatusBadRequest},
		{"token", "/api/antecedents", map[string]any{"conllu": boyOn, "token": -1}, http.StatusBadRequest},
		{"not an object", "/api/pair", "text", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := post(t, h, tt.path, tt.body)
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, rec.Code, tt.status, rec.Body)
		}
		if e := decodeBody[errorResponse](t, rec); e.Error == "" {
			t.Errorf("%s: empty error message", tt.name)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/analyze status = %d, want 405", rec.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64
	h := newTestServer(t, cfg).Handler()
	rec := post(t, h, "/api/analyze", map[string]any{"conllu": boyOn})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestLexiconAndHealth(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lexicon", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("lexicon status = %d", rec.Code)
	}
	lx := decodeBody[map[string]any](t, rec)
	if lx["language"] != "pl" {
		t.Errorf("language = %v, want pl", lx["language"])
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	for origin, want := range map[string]string{
		"https://example.org": "https://example.org",
		"https://evil.test":   "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", origin, got, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestsPerSecond = 0.001
	cfg.Server.Burst = 1
	h := newTestServer(t, cfg).Handler()

	codes := make([]int, 0, 3)
	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.1:2000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestDocumentCache(t *testing.T) {
	s := newTestServer(t, testConfig())
	first, err := s.documents(boyOn)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.documents(boyOn)
	if err != nil {
		t.Fatal(err)
	}
	if first[0] != second[0] {
		t.Errorf("identical input parsed twice")
	}
	if s.docs.ItemCount() != 1 {
		t.Errorf("cache holds %d entries, want 1", s.docs.ItemCount())
	}
}

func TestLexiconFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(lexiconYAML(1)), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Analysis.Lexicon = path
	s := newTestServer(t, cfg)
	if got := s.Analyzer().Lexicon().MaxAnaphoraSentenceDistance; got != 1 {
		t.Fatalf("distance = %d, want 1", got)
	}

	if err := os.WriteFile(path, []byte("language: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := s.Analyzer()
	if err := s.ReloadLexicon(); err == nil {
		t.Errorf("ReloadLexicon accepted a broken file")
	}
	if s.Analyzer() != before {
		t.Errorf("broken lexicon replaced the analyzer")
	}

	cfg.Analysis.Lexicon = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := New(cfg, nil); err == nil {
		t.Errorf("New accepted a missing lexicon")
	}
}

func TestWatchLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(lexiconYAML(1)), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Analysis.Lexicon = path
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.WatchLexicon(ctx); err != nil {
		t.Fatalf("WatchLexicon: %v", err)
	}
	if err := os.WriteFile(path, []byte(lexiconYAML(2)), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Analyzer().Lexicon().MaxAnaphoraSentenceDistance == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("lexicon not reloaded after the file changed")
}

func TestWatchWithoutLexicon(t *testing.T) {
	s := newTestServer(t, testConfig())
	if err := s.WatchLexicon(context.Background()); err == nil {
		t.Errorf("WatchLexicon without a lexicon file succeeded")
	}
}
