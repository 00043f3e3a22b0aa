package koref

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalLexicon = `
language: pl
deps:
  sibling: [conj]
  subject: [nsubj]
  auxiliary: [aux]
pronouns:
  ona: [masc-sg]
reflexive_pronouns: [siebie]
finite_tags: [fin]
max_anaphora_sentence_distance: 1
`

func TestDefaultLexicon(t *testing.T) {
	lx := DefaultLexicon()
	if lx != DefaultLexicon() {
		t.Errorf("DefaultLexicon not shared")
	}
	if lx.Language != "pl" {
		t.Errorf("Language = %q, want pl", lx.Language)
	}
	if lx.MaxAnaphoraSentenceDistance != 5 || lx.MaxCoreferringNounSentenceDistance != 3 {
		t.Errorf("distances = %d, %d, want 5, 3", lx.MaxAnaphoraSentenceDistance, lx.MaxCoreferringNounSentenceDistance)
	}
	if got := lx.compiled.pronouns["ona"]; got != FeminineSingular {
		t.Errorf("pronoun ona = %s, want fem-sg", got)
	}
	if !lx.compiled.orLemmas.has("lub") || !lx.compiled.sibling.has("conj") {
		t.Errorf("compiled tables missing entries")
	}
}

func TestParseLexiconInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "language: [pl"},
		{"empty", ""},
		{"no pronouns", "language: pl\ndeps: {sibling: [conj], subject: [nsubj], auxiliary: [aux]}\nreflexive_pronouns: [siebie]\nfinite_tags: [fin]\n"},
		{"bad class", strings.Replace(minimalLexicon, "[masc-sg]", "[dual]", 1)},
		{"negative", minimalLexicon + "max_coreferring_noun_sentence_distance: -1\n"},
	}
	for _, tt := range tests {
		if _, err := ParseLexicon([]byte(tt.yaml)); !errors.Is(err, ErrInvalidLexicon) {
			t.Errorf("%s: ParseLexicon error = %v, want ErrInvalidLexicon", tt.name, err)
		}
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(minimalLexicon), 0o644); err != nil {
		t.Fatal(err)
	}
	lx, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if lx.MaxAnaphoraSentenceDistance != 1 {
		t.Errorf("MaxAnaphoraSentenceDistance = %d, want 1", lx.MaxAnaphoraSentenceDistance)
	}

	docs, err := ParseCoNLLU("1\tona\ton\tPRON\tppron3:sg:nom:f:ter\tCase=Nom|Gender=Fem|Number=Sing|Person=3|PronType=Prs\t0\troot\t_\t_\n")
	if err != nil {
		t.Fatal(err)
	}
	a := New(WithLexicon(lx)).Analyze(docs[0])
	if got := a.TokenAgreement(docs[0].Token(0)); got != MasculineSingular {
		t.Errorf("TokenAgreement(ona) = %s, want masc-sg from the loaded lexicon", got)
	}
	if got := New(WithLexicon(nil)).Lexicon(); got != DefaultLexicon() {
		t.Errorf("WithLexicon(nil) replaced the default lexicon")
	}

	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadLexicon(missing) succeeded")
	}
}
