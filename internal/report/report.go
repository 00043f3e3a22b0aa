// Package report turns rule answers into the JSON and YAML shapes printed
// by the command line and returned by the server.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cours-de-latin/koref"
	"github.com/cours-de-latin/koref/internal/worker"
)

// Candidate is one scored antecedent.
type Candidate struct {
	Root            int    `json:"root" yaml:"root"`
	Mention         string `json:"mention" yaml:"mention"`
	IncludeSiblings bool   `json:"include_siblings" yaml:"include_siblings"`
	Score           string `json:"score" yaml:"score"`
}

// Link lists the antecedents of one anaphor or referring-back noun.
type Link struct {
	Token      int         `json:"token" yaml:"token"`
	Form       string      `json:"form" yaml:"form"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// Document is the report of one analysed document.
type Document struct {
	ID        string               `json:"id" yaml:"id"`
	Sentences int                  `json:"sentences" yaml:"sentences"`
	Tokens    []koref.TokenSummary `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Links     []Link               `json:"links,omitempty" yaml:"links,omitempty"`
}

// File is the report of one input file.
type File struct {
	Path      string     `json:"path" yaml:"path"`
	Documents []Document `json:"documents,omitempty" yaml:"documents,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Options selects the parts of a document report.
type Options struct {
	Tokens bool
	Links  bool
}

// Candidates converts rule candidates to their report form.
func Candidates(cands []koref.Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, Candidate{
			Root:            c.Mention.Root.Index,
			Mention:         c.Mention.String(),
			IncludeSiblings: c.Mention.IncludeDependentSiblings,
			Score:           c.Score.String(),
		})
	}
	return out
}

// Links returns the antecedent lists of every token having one.
func Links(a *koref.Analysis) []Link {
	var out []Link
	for _, t := range a.Document().Tokens() {
		cands := a.Antecedents(t)
		if len(cands) == 0 {
			continue
		}
		out = append(out, Link{Token: t.Index, Form: t.Form, Candidates: Candidates(cands)})
	}
	return out
}

// Analyze builds the report of doc.
func Analyze(az *koref.Analyzer, doc *koref.Document, opts Options) Document {
	a := az.Analyze(doc)
	d := Document{ID: doc.ID, Sentences: len(doc.Sentences())}
	if opts.Tokens {
		d.Tokens = a.DescribeAll()
	}
	if opts.Links {
		d.Links = Links(a)
	}
	return d
}

// AnalyzeFiles reads and analyses paths on workers goroutines, keeping
// the input order. A file that cannot be read is reported with its error
// and does not stop the others.
func AnalyzeFiles(ctx context.Context, az *koref.Analyzer, log *slog.Logger, paths []string, workers int, opts Options) ([]File, error) {
	pool := worker.NewPool(workers, func(_ context.Context, path string) File {
		f := File{Path: path}
		docs, err := koref.ReadCoNLLUFile(path)
		if err != nil {
			log.Warn("skip file", "path", path, "err", err)
			f.Error = err.Error()
			return f
		}
		for _, doc := range docs {
			f.Documents = append(f.Documents, Analyze(az, doc, opts))
		}
		log.Debug("analysed file", "path", path, "documents", len(docs))
		return f
	})
	files, err := pool.Run(ctx, paths)
	if err != nil {
		return files, fmt.Errorf("analyse files: %w", err)
	}
	return files, nil
}
