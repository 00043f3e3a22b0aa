package koref

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoDocs = "\ufeff# newdoc id = first\n" +
	"# sent_id = first-1\n" +
	"# text = Anna przyszła.\n" +
	"1\tAnna\tAnna\tPROPN\tsubst:sg:nom:f\tCase=Nom|Gender=Fem|Number=Sing\t2\tnsubj\t_\tNER=B-persName\n" +
	"2-3\tprzyszła.\t_\t_\t_\t_\t_\t_\t_\t_\n" +
	"2\tprzyszła\tprzyjść\tVERB\tpraet:sg:f:perf\tGender=Fem|Number=Sing|VerbForm=Fin\t0\troot\t_\tSpaceAfter=No\n" +
	"3\t.\t.\tPUNCT\tinterp\t_\t2\tpunct\t_\t_\n" +
	"\n" +
	"# newdoc id = second\n" +
	"# sent_id = second-1\n" +
	"1\tPoszła\tpójść\tVERB\tpraet:sg:f:perf\tGender=Fem|Number=Sing\t0\tROOT\t_\t_\n" +
	"1.1\tona\ton\tPRON\t_\t_\t_\t_\t1:nsubj\t_\n" +
	"\n" +
	"# sent_id = second-2\n" +
	"1\tWróciła\twrócić\tVERB\tpraet:sg:f:perf\tGender=Fem|Number=Sing\t0\troot\t_\t_\n"

func TestParseCoNLLU(t *testing.T) {
	docs, err := ParseCoNLLU(twoDocs)
	if err != nil {
		t.Fatalf("ParseCoNLLU: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("ParseCoNLLU returned %d documents, want 2", len(docs))
	}
	first, second := docs[0], docs[1]
	if first.ID != "first" || second.ID != "second" {
		t.Errorf("ids = %q, %q, want first, second", first.ID, second.ID)
	}
	if first.Len() != 3 {
		t.Fatalf("first.Len() = %d, want 3", first.Len())
	}
	anna := first.Token(0)
	if anna.Entity != "persName" {
		t.Errorf("Entity = %q, want persName", anna.Entity)
	}
	if anna.Head != first.Token(1) || anna.Dep != "nsubj" {
		t.Errorf("Anna head = %v (%s), want przyszła(1) (nsubj)", anna.Head, anna.Dep)
	}
	if got := first.Token(1).Misc["SpaceAfter"]; got != "No" {
		t.Errorf("Misc[SpaceAfter] = %q, want No", got)
	}
	if s := first.Sentences()[0]; s.ID != "first-1" || s.Text != "Anna przyszła." {
		t.Errorf("sentence = %+v", s)
	}

	if len(second.Sentences()) != 2 || second.Len() != 2 {
		t.Fatalf("second: %d sentences, %d tokens, want 2 and 2", len(second.Sentences()), second.Len())
	}
	if got := second.Token(0).Dep; got != "root" {
		t.Errorf("Dep = %q, want root", got)
	}
	w := second.Token(1)
	if w.Sentence != 1 || second.SentenceOf(w).ID != "second-2" {
		t.Errorf("Wróciła in sentence %d (%q), want 1 (second-2)", w.Sentence, second.SentenceOf(w).ID)
	}
	if toks := second.SentenceTokens(1); len(toks) != 1 || toks[0] != w {
		t.Errorf("SentenceTokens(1) = %v", toks)
	}
}

func TestParseCoNLLUWithoutNewdoc(t *testing.T) {
	docs, err := ParseCoNLLU("1\tIdzie\tiść\tVERB\tfin:sg:ter:imperf\tNumber=Sing|Person=3\t0\troot\t_\t_\n")
	if err != nil {
		t.Fatalf("ParseCoNLLU: %v", err)
	}
	if len(docs) != 1 || docs[0].Len() != 1 {
		t.Fatalf("got %d documents, want one with one token", len(docs))
	}
	if docs[0].Token(0).Head != nil {
		t.Errorf("root has head %v", docs[0].Token(0).Head)
	}
}

func TestParseCoNLLUEmpty(t *testing.T) {
	docs, err := ParseCoNLLU("\n\n# just a comment\n")
	if err != nil {
		t.Fatalf("ParseCoNLLU: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d documents, want 0", len(docs))
	}
}

func TestParseCoNLLUErrors(t *testing.T) {
	row := func(id, head string) string {
		return id + "\tx\tx\tNOUN\t_\t_\t" + head + "\tdep\t_\t_\n"
	}
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"columns", "1\tx\tx\n", ErrMalformedCoNLLU},
		{"id", row("a", "0"), ErrMalformedCoNLLU},
		{"head", row("1", "x"), ErrMalformedCoNLLU},
		{"gap", row("1", "0") + row("3", "1"), ErrInvalidTree},
		{"outside", row("1", "0") + row("2", "5"), ErrInvalidTree},
		{"self", row("1", "0") + row("2", "2"), ErrInvalidTree},
		{"two roots", row("1", "0") + row("2", "0"), ErrInvalidTree},
		{"no root", row("1", "2") + row("2", "1"), ErrInvalidTree},
		{"cycle", row("1", "0") + row("2", "3") + row("3", "2"), ErrInvalidTree},
	}
	for _, tt := range tests {
		_, err := ParseCoNLLU(tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: ParseCoNLLU error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestReadCoNLLUFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.conllu")
	if err := os.WriteFile(path, []byte(twoDocs), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, err := ReadCoNLLUFile(path)
	if err != nil {
		t.Fatalf("ReadCoNLLUFile: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}

	empty := filepath.Join(dir, "empty.conllu")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if docs, err := ReadCoNLLUFile(empty); err != nil || docs != nil {
		t.Errorf("ReadCoNLLUFile(empty) = %v, %v, want nil, nil", docs, err)
	}

	if _, err := ReadCoNLLUFile(filepath.Join(dir, "missing.conllu")); err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadCoNLLUFile(missing) error = %v, want not-exist", err)
	}
}

func TestFixturesParse(t *testing.T) {
	for _, name := range []string{"siblings.conllu", "candidates.conllu", "pairs.conllu", "reflexive.conllu"} {
		docs, err := ReadCoNLLUFile(filepath.Join("testdata", name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		for _, d := range docs {
			for _, s := range d.Sentences() {
				if !strings.HasPrefix(s.ID, d.ID+"-") {
					t.Errorf("%s: sentence %q outside document %q", name, s.ID, d.ID)
				}
			}
		}
	}
}
