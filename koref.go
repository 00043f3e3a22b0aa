// Package koref provides the rule layer of a Polish coreference resolver.
// It reads dependency-parsed documents (CoNLL-U) and answers the questions
// a chain builder asks: which tokens are coordinated, which tokens can
// introduce or take up a referent, and whether a referent/anaphor pair is
// compatible.
package koref

import (
	"fmt"
	"log/slog"
)

// Analyzer holds the lexicon and logger shared by every analysis. It is
// immutable and safe for concurrent use.
type Analyzer struct {
	lex *Lexicon
	log *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger traces rule decisions to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithLexicon replaces the embedded Polish lexicon.
func WithLexicon(lx *Lexicon) Option {
	return func(a *Analyzer) {
		if lx != nil {
			a.lex = lx
		}
	}
}

// New returns an Analyzer using the embedded Polish lexicon unless
// WithLexicon says otherwise.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(a)
	}
	if a.lex == nil {
		a.lex = DefaultLexicon()
	}
	return a
}

// Lexicon returns the lexicon in use.
func (a *Analyzer) Lexicon() *Lexicon { return a.lex }

// Analyze starts the analysis of doc. The returned Analysis caches
// coordination results and must not be used from several goroutines.
func (a *Analyzer) Analyze(doc *Document) *Analysis {
	return &Analysis{
		doc:      doc,
		lex:      a.lex,
		c:        &a.lex.compiled,
		log:      a.log,
		siblings: make([]siblingEntry, doc.Len()),
	}
}

// Analysis answers rule questions about the tokens of one document.
type Analysis struct {
	doc *Document
	lex *Lexicon
	c   *compiledLexicon
	log *slog.Logger

	// siblings is filled lazily, one entry per token index.
	siblings []siblingEntry
}

type siblingEntry struct {
	depsDone  bool
	deps      []*Token
	hasOr     bool
	govDone   bool
	governing *Token
}

// Document returns the analysed document.
func (a *Analysis) Document() *Document { return a.doc }

// own panics when t belongs to another document.
func (a *Analysis) own(t *Token) {
	if t == nil || t.doc != a.doc {
		panic(fmt.Sprintf("koref: token %v does not belong to the analysed document", t))
	}
}

func (a *Analysis) key(s string) string { return NormalizeKey(s) }
