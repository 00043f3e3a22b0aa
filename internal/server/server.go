// Package server exposes the coreference rules as a JSON REST API.
//
// Endpoints:
//
//	POST /api/analyze       body: {"conllu":"...","tokens":true,"links":true}
//	POST /api/pair          body: {"conllu":"...","document":0,"referent":0,"anaphor":3}
//	POST /api/antecedents   body: {"conllu":"...","document":0,"token":3}
//	GET  /api/lexicon
//	GET  /healthz
package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/cours-de-latin/koref"
	"github.com/cours-de-latin/koref/internal/config"
	"github.com/cours-de-latin/koref/internal/report"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"
)

// Server holds the analyzer and the per-process caches behind the API.
type Server struct {
	analyzer    atomic.Pointer[koref.Analyzer]
	docs        *gocache.Cache
	limiter     *clientLimiter
	log         *slog.Logger
	cfg         config.ServerConfig
	lexiconPath string
}

// New builds a server from cfg. A configured lexicon file is loaded now
// so that a broken one fails at start-up.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		docs:        gocache.New(cfg.Server.CacheTTL, cfg.Server.CacheCleanup),
		log:         log,
		cfg:         cfg.Server,
		lexiconPath: cfg.Analysis.Lexicon,
	}
	if cfg.Server.RequestsPerSecond > 0 {
		s.limiter = newClientLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst)
	}
	if s.lexiconPath != "" {
		if err := s.ReloadLexicon(); err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	} else {
		s.analyzer.Store(koref.New(koref.WithLogger(log)))
	}
	return s, nil
}

// Analyzer returns the analyzer currently serving requests.
func (s *Server) Analyzer() *koref.Analyzer { return s.analyzer.Load() }

// Handler returns the API with rate limiting and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/pair", s.handlePair)
	mux.HandleFunc("/api/antecedents", s.handleAntecedents)
	mux.HandleFunc("/api/lexicon", s.handleLexicon)
	mux.HandleFunc("/healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.limit(mux))
}

func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientAddr(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---- JSON request and response types ------------------------------------

type analyzeRequest struct {
	CoNLLU string `json:"conllu"`
	Tokens *bool  `json:"tokens"`
	Links  *bool  `json:"links"`
}

type analyzeResponse struct {
	Documents []report.Document `json:"documents"`
}

type pairRequest struct {
	CoNLLU          string `json:"conllu"`
	Document        int    `json:"document"`
	Referent        int    `json:"referent"`
	IncludeSiblings bool   `json:"include_siblings"`
	Anaphor         int    `json:"anaphor"`
	Directly        *bool  `json:"directly"`
}

type pairResponse struct {
	Referent      string `json:"referent"`
	Anaphor       string `json:"anaphor"`
	Score         string `json:"score"`
	ScoreValue    int    `json:"score_value"`
	ReflexivePair bool   `json:"reflexive_pair"`
	Reflexivity   string `json:"reflexivity"`
}

type antecedentsRequest struct {
	CoNLLU   string `json:"conllu"`
	Document int    `json:"document"`
	Token    int    `json:"token"`
}

type antecedentsResponse struct {
	Token      string             `json:"token"`
	Candidates []report.Candidate `json:"candidates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers -------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "body must be a JSON object")
		return false
	}
	return true
}

// documents parses text, reusing the documents of an identical earlier
// request. Documents are immutable, so cached ones are shared freely.
func (s *Server) documents(text string) ([]*koref.Document, error) {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])
	if v, ok := s.docs.Get(key); ok {
		return v.([]*koref.Document), nil
	}
	docs, err := koref.ParseCoNLLU(text)
	if err != nil {
		return nil, err
	}
	s.docs.SetDefault(key, docs)
	return docs, nil
}

// document returns document i of text, writing the error response itself.
func (s *Server) document(w http.ResponseWriter, text string, i int) (*koref.Document, bool) {
	if text == "" {
		writeError(w, http.StatusBadRequest, "missing 'conllu' field")
		return nil, false
	}
	docs, err := s.documents(text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	if i < 0 || i >= len(docs) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("document %d out of range (%d documents)", i, len(docs)))
		return nil, false
	}
	return docs[i], true
}

func token(w http.ResponseWriter, doc *koref.Document, field string, i int) (*koref.Token, bool) {
	if i < 0 || i >= doc.Len() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s %d out of range (%d tokens)", field, i, doc.Len()))
		return nil, false
	}
	return doc.Token(i), true
}

func orTrue(b *bool) bool { return b == nil || *b }

// ---- handlers ------------------------------------------------------------

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.CoNLLU == "" {
		writeError(w, http.StatusBadRequest, "missing 'conllu' field")
		return
	}
	docs, err := s.documents(req.CoNLLU)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	az := s.Analyzer()
	opts := report.Options{Tokens: orTrue(req.Tokens), Links: orTrue(req.Links)}
	out := make([]report.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, report.Analyze(az, d, opts))
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Documents: out})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !s.decode(w, r, &req) {
		return
	}
	doc, ok := s.document(w, req.CoNLLU, req.Document)
	if !ok {
		return
	}
	referent, ok := token(w, doc, "referent", req.Referent)
	if !ok {
		return
	}
	anaphor, ok := token(w, doc, "anaphor", req.Anaphor)
	if !ok {
		return
	}

	a := s.Analyzer().Analyze(doc)
	m := koref.NewMention(referent, req.IncludeSiblings)
	score := a.IsPotentialAnaphoricPair(m, anaphor, orTrue(req.Directly))
	writeJSON(w, http.StatusOK, pairResponse{
		Referent:      m.String(),
		Anaphor:       anaphor.String(),
		Score:         score.String(),
		ScoreValue:    int(score),
		ReflexivePair: a.IsPotentialReflexivePair(m, anaphor),
		Reflexivity:   a.ReflexiveAnaphor(anaphor).String(),
	})
}

func (s *Server) handleAntecedents(w http.ResponseWriter, r *http.Request) {
	var req antecedentsRequest
	if !s.decode(w, r, &req) {
		return
	}
	doc, ok := s.document(w, req.CoNLLU, req.Document)
	if !ok {
		return
	}
	t, ok := token(w, doc, "token", req.Token)
	if !ok {
		return
	}
	a := s.Analyzer().Analyze(doc)
	writeJSON(w, http.StatusOK, antecedentsResponse{
		Token:      t.String(),
		Candidates: report.Candidates(a.Antecedents(t)),
	})
}

func (s *Server) handleLexicon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, s.Analyzer().Lexicon())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
