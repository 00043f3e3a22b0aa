package koref

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTree is returned by NewDocument when the heads of a sentence
// do not form a single rooted tree.
var ErrInvalidTree = errors.New("invalid dependency tree")

// Token is one word of a parsed document.
type Token struct {
	// Index is the position of the token in the whole document.
	Index int
	// ID is the 1-based CoNLL-U id inside the sentence.
	ID       int
	Sentence int
	Form     string
	Lemma    string
	POS      POS
	// Tag is the language-specific (XPOS) tag, e.g. "praet:sg:m1:perf".
	Tag   string
	Feats Features
	Dep   string
	// Head is nil for the root of a sentence.
	Head *Token
	// Entity is the named-entity label, e.g. "persName", or "".
	Entity string
	Misc   map[string]string

	doc *Document
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%d)", t.Form, t.Index)
}

// Children returns the dependents of t ordered by position.
func (t *Token) Children() []*Token {
	return t.doc.children[t.Index]
}

// Document returns the document t belongs to.
func (t *Token) Document() *Document { return t.doc }

// Sentence is a contiguous token range of a document.
type Sentence struct {
	Index int
	ID    string
	Text  string
	// Start and End delimit the tokens [Start, End).
	Start, End int
}

// Document is an immutable parsed document. It is safe to share between
// goroutines once built.
type Document struct {
	ID        string
	tokens    []*Token
	sentences []Sentence
	children  [][]*Token
}

// Row is one token line as read from a parser output, before heads are
// resolved to pointers.
type Row struct {
	ID    int
	Form  string
	Lemma string
	UPOS  string
	XPOS  string
	Feats string
	// Head is the CoNLL-U head id; 0 marks the sentence root.
	Head int
	Dep  string
	Misc string
}

// SentenceRows holds the rows of one sentence.
type SentenceRows struct {
	ID   string
	Text string
	Rows []Row
}

// NewDocument links rows into a Document and checks that every sentence is a
// tree: ids run from 1, heads stay inside the sentence, there is exactly one
// root and no cycle.
func NewDocument(id string, sentences []SentenceRows) (*Document, error) {
	d := &Document{ID: id}
	for si, s := range sentences {
		start := len(d.tokens)
		for i, r := range s.Rows {
			if r.ID != i+1 {
				return nil, fmt.Errorf("sentence %d: token %d has id %d: %w", si, i+1, r.ID, ErrInvalidTree)
			}
			misc := parseMisc(r.Misc)
			d.tokens = append(d.tokens, &Token{
				Index:    start + i,
				ID:       r.ID,
				Sentence: si,
				Form:     r.Form,
				Lemma:    r.Lemma,
				POS:      ParsePOS(r.UPOS),
				Tag:      normalizeField(r.XPOS),
				Feats:    ParseFeatures(r.Feats),
				Dep:      strings.ToLower(normalizeField(r.Dep)),
				Entity:   entityLabel(misc),
				Misc:     misc,
				doc:      d,
			})
		}
		roots := 0
		for i, r := range s.Rows {
			switch {
			case r.Head == 0:
				roots++
			case r.Head < 0 || r.Head > len(s.Rows):
				return nil, fmt.Errorf("sentence %d: token %d: head %d outside sentence: %w", si, r.ID, r.Head, ErrInvalidTree)
			case r.Head == r.ID:
				return nil, fmt.Errorf("sentence %d: token %d is its own head: %w", si, r.ID, ErrInvalidTree)
			default:
				d.tokens[start+i].Head = d.tokens[start+r.Head-1]
			}
		}
		if len(s.Rows) > 0 && roots != 1 {
			return nil, fmt.Errorf("sentence %d: %d roots: %w", si, roots, ErrInvalidTree)
		}
		for _, t := range d.tokens[start:] {
			steps := 0
			for h := t.Head; h != nil; h = h.Head {
				if steps++; steps > len(s.Rows) {
					return nil, fmt.Errorf("sentence %d: cycle through token %d: %w", si, t.ID, ErrInvalidTree)
				}
			}
		}
		d.sentences = append(d.sentences, Sentence{
			Index: si,
			ID:    s.ID,
			Text:  s.Text,
			Start: start,
			End:   len(d.tokens),
		})
	}

	d.children = make([][]*Token, len(d.tokens))
	for _, t := range d.tokens {
		if t.Head != nil {
			d.children[t.Head.Index] = append(d.children[t.Head.Index], t)
		}
	}
	for _, c := range d.children {
		sort.Slice(c, func(i, j int) bool { return c[i].Index < c[j].Index })
	}
	return d, nil
}

// Len returns the number of tokens.
func (d *Document) Len() int { return len(d.tokens) }

// Token returns the token at document position i.
func (d *Document) Token(i int) *Token { return d.tokens[i] }

// Tokens returns all tokens in document order.
func (d *Document) Tokens() []*Token { return d.tokens }

// Sentences returns the sentence table.
func (d *Document) Sentences() []Sentence { return d.sentences }

// SentenceOf returns the sentence containing t.
func (d *Document) SentenceOf(t *Token) Sentence { return d.sentences[t.Sentence] }

// SentenceTokens returns the tokens of sentence i.
func (d *Document) SentenceTokens(i int) []*Token {
	s := d.sentences[i]
	return d.tokens[s.Start:s.End]
}

func normalizeField(s string) string {
	if s == "_" {
		return ""
	}
	return s
}

func parseMisc(s string) map[string]string {
	s = strings.TrimSpace(s)
	if s == "" || s == "_" {
		return nil
	}
	m := make(map[string]string)
	for _, pair := range strings.Split(s, "|") {
		k, v, _ := strings.Cut(pair, "=")
		m[k] = v
	}
	return m
}

// entityLabel reads the named-entity label from the MISC column. Both
// "NER=persName" and BIO style "NE=B-persName" are accepted.
func entityLabel(misc map[string]string) string {
	for _, key := range []string{"NER", "NE", "Entity"} {
		v, ok := misc[key]
		if !ok || v == "" || v == "O" {
			continue
		}
		if len(v) > 2 && (v[:2] == "B-" || v[:2] == "I-") {
			v = v[2:]
		}
		return v
	}
	return ""
}
