package koref

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLexicon is returned when a lexicon file lacks a required table
// or names an unknown agreement class.
var ErrInvalidLexicon = errors.New("invalid lexicon")

//go:embed data/pl.yaml
var lexiconFS embed.FS

// DepLabels groups dependency labels by the role the rules give them.
type DepLabels struct {
	Sibling           []string `yaml:"sibling" json:"sibling"`
	Conjunction       []string `yaml:"conjunction" json:"conjunction"`
	Comitative        []string `yaml:"comitative" json:"comitative"`
	Case              []string `yaml:"case" json:"case"`
	Subject           []string `yaml:"subject" json:"subject"`
	Auxiliary         []string `yaml:"auxiliary" json:"auxiliary"`
	Copula            []string `yaml:"copula" json:"copula"`
	Continuation      []string `yaml:"continuation" json:"continuation"`
	Clausal           []string `yaml:"clausal" json:"clausal"`
	RelativeClause    []string `yaml:"relative_clause" json:"relative_clause"`
	Possessive        []string `yaml:"possessive" json:"possessive"`
	GenitiveModifier  []string `yaml:"genitive_modifier" json:"genitive_modifier"`
	Impersonal        []string `yaml:"impersonal" json:"impersonal"`
	Expletive         []string `yaml:"expletive" json:"expletive"`
	ClausalComplement []string `yaml:"clausal_complement" json:"clausal_complement"`
}

// Lexicon holds every language-particular table the rules consult.
// Lemmas and forms are compared through NormalizeKey.
type Lexicon struct {
	Language                 string              `yaml:"language" json:"language"`
	Deps                     DepLabels           `yaml:"deps" json:"deps"`
	OrLemmas                 []string            `yaml:"or_lemmas" json:"or_lemmas"`
	ComitativePrepositions   []string            `yaml:"comitative_prepositions" json:"comitative_prepositions"`
	Pronouns                 map[string][]string `yaml:"pronouns" json:"pronouns"`
	ReflexivePronouns        []string            `yaml:"reflexive_pronouns" json:"reflexive_pronouns"`
	ReflexivePossessives     []string            `yaml:"reflexive_possessives" json:"reflexive_possessives"`
	ReflexiveClitics         []string            `yaml:"reflexive_clitics" json:"reflexive_clitics"`
	PossessiveDeterminers    []string            `yaml:"possessive_determiners" json:"possessive_determiners"`
	DemonstrativeDeterminers []string            `yaml:"demonstrative_determiners" json:"demonstrative_determiners"`
	IndefiniteDeterminers    []string            `yaml:"indefinite_determiners" json:"indefinite_determiners"`
	RelativePronouns         []string            `yaml:"relative_pronouns" json:"relative_pronouns"`
	Blacklist                [][]string          `yaml:"blacklist" json:"blacklist"`
	PersonNouns              []string            `yaml:"person_nouns" json:"person_nouns"`
	PersonEntities           []string            `yaml:"person_entities" json:"person_entities"`
	PersonalVerbs            []string            `yaml:"personal_verbs" json:"personal_verbs"`
	FiniteTags               []string            `yaml:"finite_tags" json:"finite_tags"`
	NonFiniteTags            []string            `yaml:"non_finite_tags" json:"non_finite_tags"`

	MaxAnaphoraSentenceDistance        int `yaml:"max_anaphora_sentence_distance" json:"max_anaphora_sentence_distance"`
	MaxCoreferringNounSentenceDistance int `yaml:"max_coreferring_noun_sentence_distance" json:"max_coreferring_noun_sentence_distance"`

	compiled compiledLexicon
}

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[NormalizeKey(w)] = struct{}{}
	}
	return s
}

// has looks up an already normalized key.
func (s wordSet) has(key string) bool {
	_, ok := s[key]
	return ok
}

type labelSet map[string]struct{}

func newLabelSet(labels []string) labelSet {
	s := make(labelSet, len(labels))
	for _, l := range labels {
		s[strings.ToLower(l)] = struct{}{}
	}
	return s
}

func (s labelSet) has(dep string) bool {
	_, ok := s[dep]
	return ok
}

type compiledLexicon struct {
	sibling, conjunction, comitative, caseDep, subject, auxiliary labelSet
	copula                                                        labelSet
	continuation, clausal, relcl, possessive, genitiveModifier    labelSet
	impersonal, expletive, clausalComplement                      labelSet

	orLemmas, comitativePreps, reflexivePronouns, reflexivePossessives wordSet
	reflexiveClitics, possessiveDets, demonstrativeDets                wordSet
	indefiniteDets, relativePronouns, personNouns, personalVerbs       wordSet

	personEntities map[string]struct{}
	pronouns       map[string]Agreement
	blacklist      [][]string
	finiteTags     []string
	nonFiniteTags  []string
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconOnce sync.Once
)

// DefaultLexicon returns the embedded Polish lexicon. It panics if the
// embedded file is broken, which only a bad build can cause.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		data, err := lexiconFS.ReadFile("data/pl.yaml")
		if err != nil {
			panic(fmt.Sprintf("koref: read embedded lexicon: %v", err))
		}
		lx, err := ParseLexicon(data)
		if err != nil {
			panic(fmt.Sprintf("koref: embedded lexicon: %v", err))
		}
		defaultLexicon = lx
	})
	return defaultLexicon
}

// LoadLexicon reads a lexicon YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	lx, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lx, nil
}

// ParseLexicon decodes, validates and compiles a lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	lx := &Lexicon{}
	if err := yaml.Unmarshal(data, lx); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w: %w", err, ErrInvalidLexicon)
	}
	if err := lx.Validate(); err != nil {
		return nil, err
	}
	if err := lx.compile(); err != nil {
		return nil, err
	}
	return lx, nil
}

// Validate checks that the tables the rules cannot work without are present.
func (lx *Lexicon) Validate() error {
	var missing []string
	check := func(name string, n int) {
		if n == 0 {
			missing = append(missing, name)
		}
	}
	check("language", len(lx.Language))
	check("deps.sibling", len(lx.Deps.Sibling))
	check("deps.subject", len(lx.Deps.Subject))
	check("deps.auxiliary", len(lx.Deps.Auxiliary))
	check("pronouns", len(lx.Pronouns))
	check("reflexive_pronouns", len(lx.ReflexivePronouns))
	check("finite_tags", len(lx.FiniteTags))
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrInvalidLexicon)
	}
	if lx.MaxAnaphoraSentenceDistance < 0 || lx.MaxCoreferringNounSentenceDistance < 0 {
		return fmt.Errorf("negative sentence distance: %w", ErrInvalidLexicon)
	}
	for form, classes := range lx.Pronouns {
		if len(classes) == 0 {
			return fmt.Errorf("pronoun %q has no agreement class: %w", form, ErrInvalidLexicon)
		}
		for _, c := range classes {
			if _, err := ParseAgreement(c); err != nil {
				return fmt.Errorf("pronoun %q: %w: %w", form, err, ErrInvalidLexicon)
			}
		}
	}
	return nil
}

func (lx *Lexicon) compile() error {
	d := lx.Deps
	c := compiledLexicon{
		sibling:           newLabelSet(d.Sibling),
		conjunction:       newLabelSet(d.Conjunction),
		comitative:        newLabelSet(d.Comitative),
		caseDep:           newLabelSet(d.Case),
		subject:           newLabelSet(d.Subject),
		auxiliary:         newLabelSet(d.Auxiliary),
		copula:            newLabelSet(d.Copula),
		continuation:      newLabelSet(d.Continuation),
		clausal:           newLabelSet(d.Clausal),
		relcl:             newLabelSet(d.RelativeClause),
		possessive:        newLabelSet(d.Possessive),
		genitiveModifier:  newLabelSet(d.GenitiveModifier),
		impersonal:        newLabelSet(d.Impersonal),
		expletive:         newLabelSet(d.Expletive),
		clausalComplement: newLabelSet(d.ClausalComplement),

		orLemmas:             newWordSet(lx.OrLemmas),
		comitativePreps:      newWordSet(lx.ComitativePrepositions),
		reflexivePronouns:    newWordSet(lx.ReflexivePronouns),
		reflexivePossessives: newWordSet(lx.ReflexivePossessives),
		reflexiveClitics:     newWordSet(lx.ReflexiveClitics),
		possessiveDets:       newWordSet(lx.PossessiveDeterminers),
		demonstrativeDets:    newWordSet(lx.DemonstrativeDeterminers),
		indefiniteDets:       newWordSet(lx.IndefiniteDeterminers),
		relativePronouns:     newWordSet(lx.RelativePronouns),
		personNouns:          newWordSet(lx.PersonNouns),
		personalVerbs:        newWordSet(lx.PersonalVerbs),

		personEntities: make(map[string]struct{}, len(lx.PersonEntities)),
		pronouns:       make(map[string]Agreement, len(lx.Pronouns)),
		finiteTags:     lx.FiniteTags,
		nonFiniteTags:  lx.NonFiniteTags,
	}
	for _, e := range lx.PersonEntities {
		c.personEntities[e] = struct{}{}
	}
	for form, classes := range lx.Pronouns {
		var a Agreement
		for _, name := range classes {
			v, err := ParseAgreement(name)
			if err != nil {
				return fmt.Errorf("pronoun %q: %w", form, err)
			}
			a |= v
		}
		c.pronouns[NormalizeKey(form)] = a
	}
	for _, seq := range lx.Blacklist {
		if len(seq) == 0 {
			continue
		}
		keys := make([]string, len(seq))
		for i, w := range seq {
			keys[i] = NormalizeKey(w)
		}
		c.blacklist = append(c.blacklist, keys)
	}
	lx.compiled = c
	return nil
}

// tagHasPrefix reports whether the first segment of a colon-separated XPOS
// tag is one of prefixes.
func tagHasPrefix(tag string, prefixes []string) bool {
	if tag == "" {
		return false
	}
	head, _, _ := strings.Cut(tag, ":")
	for _, p := range prefixes {
		if head == p {
			return true
		}
	}
	return false
}
