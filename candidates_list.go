package koref

// Candidate is a scored referent for an anaphor.
type Candidate struct {
	Mention Mention
	Score   Score
}

// Antecedents lists the referents t may point back to, nearest first.
//
// For a potential anaphor the candidates are independent nouns and other
// anaphors from the current and the preceding sentences, each also taken
// together with its coordinated siblings; incompatible ones are left out.
// For a referring-back noun the candidates are earlier independent nouns
// with the same lemma. Other tokens have no antecedents.
func (a *Analysis) Antecedents(t *Token) []Candidate {
	a.own(t)
	switch {
	case a.IsPotentialAnaphor(t):
		return a.anaphorAntecedents(t)
	case a.IsPotentiallyReferringBackNoun(t):
		return a.nounAntecedents(t)
	}
	return nil
}

func (a *Analysis) windowStart(t *Token, sentences int) int {
	first := t.Sentence - sentences
	if first < 0 {
		first = 0
	}
	return a.doc.sentences[first].Start
}

func (a *Analysis) anaphorAntecedents(anaphor *Token) []Candidate {
	var out []Candidate
	start := a.windowStart(anaphor, a.lex.MaxAnaphoraSentenceDistance)
	for i := anaphor.Index - 1; i >= start; i-- {
		t := a.doc.tokens[i]
		if !a.IsIndependentNoun(t) && !a.IsPotentialAnaphor(t) {
			continue
		}
		mentions := []Mention{NewMention(t, false)}
		if !t.POS.IsVerbal() && len(a.DependentSiblings(t)) > 0 {
			mentions = append(mentions, NewMention(t, true))
		}
		for _, m := range mentions {
			if s := a.IsPotentialAnaphoricPair(m, anaphor, true); s != Incompatible {
				out = append(out, Candidate{Mention: m, Score: s})
			}
		}
	}
	return out
}

func (a *Analysis) nounAntecedents(noun *Token) []Candidate {
	var out []Candidate
	lemma := a.key(noun.Lemma)
	start := a.windowStart(noun, a.lex.MaxCoreferringNounSentenceDistance)
	for i := noun.Index - 1; i >= start; i-- {
		t := a.doc.tokens[i]
		if a.IsIndependentNoun(t) && a.key(t.Lemma) == lemma {
			out = append(out, Candidate{Mention: NewMention(t, false), Score: Compatible})
		}
	}
	return out
}

// TokenSummary collects every rule answer for one token.
type TokenSummary struct {
	Index     int      `json:"index" yaml:"index"`
	Sentence  int      `json:"sentence" yaml:"sentence"`
	Form      string   `json:"form" yaml:"form"`
	Lemma     string   `json:"lemma" yaml:"lemma"`
	POS       string   `json:"pos" yaml:"pos"`
	Dep       string   `json:"dep" yaml:"dep"`
	Head      int      `json:"head" yaml:"head"`
	Agreement []string `json:"agreement" yaml:"agreement"`

	IndependentNoun  bool   `json:"independent_noun" yaml:"independent_noun"`
	PotentialAnaphor bool   `json:"potential_anaphor" yaml:"potential_anaphor"`
	Reflexivity      string `json:"reflexivity" yaml:"reflexivity"`
	Indefinite       bool   `json:"potentially_indefinite" yaml:"potentially_indefinite"`
	Definite         bool   `json:"potentially_definite" yaml:"potentially_definite"`
	Introducing      bool   `json:"potentially_introducing" yaml:"potentially_introducing"`
	ReferringBack    bool   `json:"potentially_referring_back" yaml:"potentially_referring_back"`

	Siblings  []int `json:"dependent_siblings,omitempty" yaml:"dependent_siblings,omitempty"`
	Governing int   `json:"governing_sibling" yaml:"governing_sibling"`
	HasOr     bool  `json:"has_or_coordination" yaml:"has_or_coordination"`
}

// Describe summarises the rule answers for t. Head and Governing are -1
// when absent.
func (a *Analysis) Describe(t *Token) TokenSummary {
	a.own(t)
	info := a.DependentSiblingInfo(t)
	s := TokenSummary{
		Index:     t.Index,
		Sentence:  t.Sentence,
		Form:      t.Form,
		Lemma:     t.Lemma,
		POS:       t.POS.String(),
		Dep:       t.Dep,
		Head:      -1,
		Agreement: a.TokenAgreement(t).Names(),

		IndependentNoun:  a.IsIndependentNoun(t),
		PotentialAnaphor: a.IsPotentialAnaphor(t),
		Reflexivity:      a.ReflexiveAnaphor(t).String(),
		Indefinite:       a.IsPotentiallyIndefinite(t),
		Definite:         a.IsPotentiallyDefinite(t),
		Introducing:      a.IsPotentiallyIntroducingNoun(t),
		ReferringBack:    a.IsPotentiallyReferringBackNoun(t),

		Governing: -1,
		HasOr:     info.HasOr,
	}
	if t.Head != nil {
		s.Head = t.Head.Index
	}
	if info.Governing != nil {
		s.Governing = info.Governing.Index
	}
	for _, d := range info.Dependents {
		s.Siblings = append(s.Siblings, d.Index)
	}
	return s
}

// DescribeAll summarises every token of the document.
func (a *Analysis) DescribeAll() []TokenSummary {
	out := make([]TokenSummary, 0, a.doc.Len())
	for _, t := range a.doc.tokens {
		out = append(out, a.Describe(t))
	}
	return out
}
