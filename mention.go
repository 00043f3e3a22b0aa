package koref

// Mention is a referent candidate: a root token, optionally together with
// the tokens coordinated under it ("Piotr i Anna").
type Mention struct {
	Root                     *Token
	IncludeDependentSiblings bool
}

// NewMention returns the mention rooted at root.
func NewMention(root *Token, includeDependentSiblings bool) Mention {
	return Mention{Root: root, IncludeDependentSiblings: includeDependentSiblings}
}

func (m Mention) String() string {
	if m.IncludeDependentSiblings {
		return m.Root.String() + "+"
	}
	return m.Root.String()
}

// Personal is a three-valued answer to "does this refer to a person".
type Personal uint8

const (
	PersonalUnknown Personal = iota
	PersonalYes
	PersonalNo
)

func (p Personal) String() string {
	switch p {
	case PersonalYes:
		return "yes"
	case PersonalNo:
		return "no"
	}
	return "unknown"
}

// Members returns the root of m followed by its dependent siblings when
// the mention includes them.
func (a *Analysis) Members(m Mention) []*Token {
	a.own(m.Root)
	if !m.IncludeDependentSiblings {
		return []*Token{m.Root}
	}
	deps := a.DependentSiblings(m.Root)
	members := make([]*Token, 0, len(deps)+1)
	members = append(members, m.Root)
	return append(members, deps...)
}

// TokenAgreement returns the agreement classes t is compatible with.
func (a *Analysis) TokenAgreement(t *Token) Agreement {
	a.own(t)
	switch {
	case a.isReflexiveForm(t), a.isReflexiveClitic(t):
		return AnyAgreement
	case t.POS == POSPronoun:
		if ag, ok := a.c.pronouns[a.key(t.Form)]; ok {
			return ag
		}
	case t.POS.IsVerbal():
		return a.verbAgreement(t)
	}
	return FeaturesAgreement(t.Feats)
}

// verbAgreement narrows a genderless verb form ("jest", "będzie") by the
// predicate it supports ("szczęśliwa jest").
func (a *Analysis) verbAgreement(t *Token) Agreement {
	own := FeaturesAgreement(t.Feats)
	if !t.Feats.Gender.Unknown() {
		return own
	}
	if pred := a.predicateOf(t); pred != t {
		if x := own & FeaturesAgreement(pred.Feats); x != 0 {
			return x
		}
	}
	return own
}

// MentionAgreement returns the agreement classes of the whole mention.
// Coordinated nouns joined by "i" or "z" agree in the plural, virile as
// soon as one member is masculine-personal; disjunctions agree with any
// of their members.
func (a *Analysis) MentionAgreement(m Mention) Agreement {
	members := a.Members(m)
	if len(members) == 1 || m.Root.POS.IsVerbal() {
		return a.TokenAgreement(m.Root)
	}
	if a.HasOrCoordination(m.Root) {
		var ag Agreement
		for _, t := range members {
			ag |= a.TokenAgreement(t)
		}
		return ag
	}
	ag := mergedAgreement(members)
	if v := a.governingVerbAgreement(m.Root); v != 0 && ag&v != 0 {
		ag &= v
	}
	return ag
}

// mergedAgreement is the plural agreement of an and-coordination.
func mergedAgreement(members []*Token) Agreement {
	const (
		mascFamily = 1 << iota
		femFamily
		neutFamily
	)
	families := 0
	for _, t := range members {
		g := t.Feats.Gender
		if g.Only(MasculinePersonal) {
			return VirilePlural
		}
		if g.Unknown() || t.POS == POSPronoun || t.POS.IsVerbal() {
			return pluralAgreements
		}
		if g&masculineGenders != 0 {
			families |= mascFamily
		}
		if g.Has(Feminine) {
			families |= femFamily
		}
		if g.Has(Neuter) {
			families |= neutFamily
		}
	}
	switch families {
	case mascFamily, femFamily, neutFamily:
		return NonVirilePlural
	}
	return pluralAgreements
}

// governingVerbAgreement returns the plural agreement of the verb whose
// subject is root, when that verb marks gender; otherwise 0.
func (a *Analysis) governingVerbAgreement(root *Token) Agreement {
	if root.Head == nil || !a.c.subject.has(root.Dep) {
		return 0
	}
	b := a.bearer(root.Head)
	if b == nil {
		return 0
	}
	if b.Feats.Gender.Unknown() || !b.Feats.Number.Has(Plural) {
		return 0
	}
	return FeaturesAgreement(b.Feats) & pluralAgreements
}

// MentionIsPersonal reports whether m refers to people. Nouns are personal
// when tagged as person names or listed as person nouns; pronouns and
// verbs leave the answer open.
func (a *Analysis) MentionIsPersonal(m Mention) Personal {
	result := PersonalNo
	for _, t := range a.Members(m) {
		switch a.tokenIsPersonal(t) {
		case PersonalYes:
			return PersonalYes
		case PersonalUnknown:
			result = PersonalUnknown
		}
	}
	return result
}

func (a *Analysis) tokenIsPersonal(t *Token) Personal {
	if !t.POS.IsNominal() {
		return PersonalUnknown
	}
	if _, ok := a.c.personEntities[t.Entity]; ok && t.Entity != "" {
		return PersonalYes
	}
	if a.c.personNouns.has(a.key(t.Lemma)) {
		return PersonalYes
	}
	return PersonalNo
}
