package koref

import "strings"

// POS is a Universal Dependencies part-of-speech tag.
type POS uint8

const (
	POSUnknown POS = iota
	POSNoun
	POSProperNoun
	POSPronoun
	POSVerb
	POSAuxiliary
	POSAdjective
	POSDeterminer
	POSAdposition
	POSAdverb
	POSCoordConj
	POSSubordConj
	POSParticle
	POSNumeral
	POSPunctuation
	POSSymbol
	POSInterjection
	POSOther
)

var posNames = map[string]POS{
	"NOUN":  POSNoun,
	"PROPN": POSProperNoun,
	"PRON":  POSPronoun,
	"VERB":  POSVerb,
	"AUX":   POSAuxiliary,
	"ADJ":   POSAdjective,
	"DET":   POSDeterminer,
	"ADP":   POSAdposition,
	"ADV":   POSAdverb,
	"CCONJ": POSCoordConj,
	"SCONJ": POSSubordConj,
	"PART":  POSParticle,
	"NUM":   POSNumeral,
	"PUNCT": POSPunctuation,
	"SYM":   POSSymbol,
	"INTJ":  POSInterjection,
	"X":     POSOther,
}

// ParsePOS maps a UPOS string to a POS. Unrecognised tags give POSUnknown.
func ParsePOS(s string) POS {
	return posNames[strings.ToUpper(strings.TrimSpace(s))]
}

func (p POS) String() string {
	for name, v := range posNames {
		if v == p {
			return name
		}
	}
	return "_"
}

// IsNominal reports whether p heads a noun phrase that can be a referent.
func (p POS) IsNominal() bool {
	return p == POSNoun || p == POSProperNoun
}

// IsVerbal reports whether p can carry verbal agreement.
func (p POS) IsVerbal() bool {
	return p == POSVerb || p == POSAuxiliary
}

// Gender is one Polish gender value. Masculine is split by animacy.
type Gender uint8

const (
	MasculinePersonal Gender = 1 << iota
	MasculineAnimate
	MasculineInanimate
	Feminine
	Neuter
)

// GenderSet is a set of genders. The empty set means the gender is unknown.
type GenderSet uint8

const (
	masculineGenders = GenderSet(MasculinePersonal | MasculineAnimate | MasculineInanimate)
	allGenders       = masculineGenders | GenderSet(Feminine|Neuter)
)

func (s GenderSet) Has(g Gender) bool { return s&GenderSet(g) != 0 }
func (s GenderSet) Unknown() bool     { return s == 0 }

// Only reports whether g is the single member of s.
func (s GenderSet) Only(g Gender) bool { return s == GenderSet(g) }

func (s GenderSet) String() string {
	if s == 0 {
		return "unknown"
	}
	var parts []string
	for _, g := range []struct {
		g    Gender
		name string
	}{
		{MasculinePersonal, "masc-pers"},
		{MasculineAnimate, "masc-anim"},
		{MasculineInanimate, "masc-inan"},
		{Feminine, "fem"},
		{Neuter, "neut"},
	} {
		if s.Has(g.g) {
			parts = append(parts, g.name)
		}
	}
	return strings.Join(parts, ",")
}

// Number is a grammatical number value.
type Number uint8

const (
	Singular Number = 1 << iota
	Plural
)

// NumberSet is a set of numbers; empty means unknown.
type NumberSet uint8

func (s NumberSet) Has(n Number) bool { return s&NumberSet(n) != 0 }
func (s NumberSet) Unknown() bool     { return s == 0 }

// Case is a Polish grammatical case.
type Case uint8

const (
	Nominative Case = 1 << iota
	Genitive
	Dative
	Accusative
	Instrumental
	Locative
	Vocative
)

// CaseSet is a set of cases; empty means unknown.
type CaseSet uint8

func (s CaseSet) Has(c Case) bool { return s&CaseSet(c) != 0 }

// Person is a grammatical person. PersonZero marks impersonal forms.
type Person uint8

const (
	PersonZero Person = 1 << iota
	FirstPerson
	SecondPerson
	ThirdPerson
)

// PersonSet is a set of persons; empty means unmarked.
type PersonSet uint8

func (s PersonSet) Has(p Person) bool { return s&PersonSet(p) != 0 }

// VerbForm is the UD VerbForm value.
type VerbForm uint8

const (
	VerbFormUnknown VerbForm = iota
	VerbFormFinite
	VerbFormInfinitive
	VerbFormParticiple
	VerbFormConverb
	VerbFormGerund
)

// Mood is the UD Mood value.
type Mood uint8

const (
	MoodUnknown Mood = iota
	MoodIndicative
	MoodImperative
	MoodConditional
)

// PronType is the UD PronType value.
type PronType uint8

const (
	PronTypeUnknown PronType = iota
	PronTypePersonal
	PronTypeDemonstrative
	PronTypeIndefinite
	PronTypeInterrogative
	PronTypeRelative
	PronTypeTotal
	PronTypeNegative
)

// Features is the typed morphological feature bag of one token.
type Features struct {
	Gender   GenderSet
	Number   NumberSet
	Case     CaseSet
	Person   PersonSet
	VerbForm VerbForm
	Mood     Mood
	PronType PronType
	Poss     bool
	Reflex   bool
	// raw keeps every feature as written, including those without a typed field.
	raw map[string]string
}

// Get returns the raw value of feature name, or "" when absent.
func (f Features) Get(name string) string {
	return f.raw[name]
}
