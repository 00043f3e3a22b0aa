package koref

import (
	"fmt"
	"strings"
)

// Agreement is a set of agreement classes a referent or an anaphor can
// take. Polish plural distinguishes only virile (masculine-personal) from
// non-virile.
type Agreement uint8

const (
	MasculineSingular Agreement = 1 << iota
	FeminineSingular
	NeuterSingular
	VirilePlural
	NonVirilePlural
)

const (
	singularAgreements = MasculineSingular | FeminineSingular | NeuterSingular
	pluralAgreements   = VirilePlural | NonVirilePlural
	// AnyAgreement is the permissive default for tokens without usable features.
	AnyAgreement = singularAgreements | pluralAgreements
)

var agreementNames = []struct {
	a    Agreement
	name string
}{
	{MasculineSingular, "masc-sg"},
	{FeminineSingular, "fem-sg"},
	{NeuterSingular, "neut-sg"},
	{VirilePlural, "virile-pl"},
	{NonVirilePlural, "nonvirile-pl"},
}

// ParseAgreement maps a class name such as "fem-sg" to its Agreement.
func ParseAgreement(name string) (Agreement, error) {
	for _, n := range agreementNames {
		if n.name == name {
			return n.a, nil
		}
	}
	return 0, fmt.Errorf("unknown agreement class %q", name)
}

func (a Agreement) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, n := range agreementNames {
		if a&n.a != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// Names returns the class names in a, in declaration order.
func (a Agreement) Names() []string {
	var names []string
	for _, n := range agreementNames {
		if a&n.a != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (a Agreement) Intersects(b Agreement) bool { return a&b != 0 }

// PluralOnly reports whether a admits plural classes and no singular one.
func (a Agreement) PluralOnly() bool {
	return a&pluralAgreements != 0 && a&singularAgreements == 0
}

// FeaturesAgreement maps morphological features to agreement classes.
// Unknown gender or number widen the result instead of narrowing it.
func FeaturesAgreement(f Features) Agreement {
	genders := f.Gender
	if genders.Unknown() {
		genders = allGenders
	}
	numbers := f.Number
	if numbers.Unknown() {
		numbers = NumberSet(Singular | Plural)
	}

	var a Agreement
	if numbers.Has(Singular) {
		if genders&masculineGenders != 0 {
			a |= MasculineSingular
		}
		if genders.Has(Feminine) {
			a |= FeminineSingular
		}
		if genders.Has(Neuter) {
			a |= NeuterSingular
		}
	}
	if numbers.Has(Plural) {
		if genders.Has(MasculinePersonal) {
			a |= VirilePlural
		}
		if genders&^GenderSet(MasculinePersonal) != 0 {
			a |= NonVirilePlural
		}
	}
	return a
}
