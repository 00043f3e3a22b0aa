package koref

// Reflexivity grades how strongly an anaphor needs a local antecedent.
type Reflexivity uint8

const (
	// NotReflexive anaphors must not be bound inside their clause.
	NotReflexive Reflexivity = iota
	// OptionallyReflexive anaphors (third-person possessives) may be bound
	// locally or not.
	OptionallyReflexive
	// Reflexive anaphors must be bound inside their clause.
	Reflexive
)

func (r Reflexivity) String() string {
	switch r {
	case OptionallyReflexive:
		return "optional"
	case Reflexive:
		return "reflexive"
	}
	return "none"
}

// IsIndependentNoun reports whether t heads a noun phrase that can
// introduce a referent of its own.
func (a *Analysis) IsIndependentNoun(t *Token) bool {
	a.own(t)
	if !t.POS.IsNominal() || !HasAlnum(t.Form) {
		return false
	}
	if a.c.continuation.has(t.Dep) {
		return false
	}
	return !a.inBlacklistedPhrase(t)
}

func (a *Analysis) inBlacklistedPhrase(t *Token) bool {
	sent := a.doc.sentences[t.Sentence]
	for _, seq := range a.c.blacklist {
		for offset := range seq {
			start := t.Index - offset
			if start < sent.Start || start+len(seq) > sent.End {
				continue
			}
			match := true
			for i, lemma := range seq {
				if a.key(a.doc.tokens[start+i].Lemma) != lemma {
					match = false
					break
				}
			}
			if match {
				return true
			}
		}
	}
	return false
}

// IsPotentialAnaphor reports whether t can refer back to an earlier
// referent: a third-person pronoun, a reflexive, or a verb whose subject
// is dropped.
func (a *Analysis) IsPotentialAnaphor(t *Token) bool {
	a.own(t)
	switch {
	case a.c.expletive.has(t.Dep), a.isReflexiveClitic(t):
		return false
	case a.isReflexiveForm(t):
		return true
	case t.POS == POSPronoun, t.POS == POSDeterminer:
		return a.isThirdPersonPronoun(t)
	case t.POS.IsVerbal():
		return a.isAnaphoricVerb(t)
	}
	return false
}

// ReflexiveAnaphor grades the reflexivity of t.
func (a *Analysis) ReflexiveAnaphor(t *Token) Reflexivity {
	a.own(t)
	switch {
	case a.isReflexiveForm(t), a.isReflexiveClitic(t):
		return Reflexive
	case a.isThirdPersonPronoun(t) && (t.Feats.Poss || a.c.possessive.has(t.Dep)):
		return OptionallyReflexive
	}
	return NotReflexive
}

// IsReflexiveAnaphor reports whether t must be bound locally.
func (a *Analysis) IsReflexiveAnaphor(t *Token) bool {
	return a.ReflexiveAnaphor(t) == Reflexive
}

// isReflexiveForm covers siebie/sobie/sobą and the possessive swój.
func (a *Analysis) isReflexiveForm(t *Token) bool {
	if a.isReflexiveClitic(t) {
		return false
	}
	lemma := a.key(t.Lemma)
	return a.c.reflexivePronouns.has(lemma) ||
		a.c.reflexivePronouns.has(a.key(t.Form)) ||
		a.c.reflexivePossessives.has(lemma)
}

func (a *Analysis) isReflexiveClitic(t *Token) bool {
	return a.c.reflexiveClitics.has(a.key(t.Form))
}

func (a *Analysis) isThirdPersonPronoun(t *Token) bool {
	if t.POS != POSPronoun && t.POS != POSDeterminer {
		return false
	}
	p := t.Feats.Person
	if p.Has(FirstPerson) || p.Has(SecondPerson) {
		return false
	}
	if _, ok := a.c.pronouns[a.key(t.Form)]; ok && t.POS == POSPronoun {
		return true
	}
	return t.Feats.PronType == PronTypePersonal && p.Has(ThirdPerson)
}

// predicateOf returns the clause predicate t belongs to: its head when t
// is an auxiliary or copula, otherwise t itself.
func (a *Analysis) predicateOf(t *Token) *Token {
	if t.Head != nil && a.c.auxiliary.has(t.Dep) {
		return t.Head
	}
	return t
}

// bearer returns the token carrying the subject agreement of the clause
// headed by pred: the leftmost finite verb or auxiliary with a Number
// feature. It returns nil for non-finite clauses.
func (a *Analysis) bearer(pred *Token) *Token {
	var best *Token
	consider := func(t *Token) {
		if !t.POS.IsVerbal() || t.Feats.Number.Unknown() || !a.isFiniteLike(t) {
			return
		}
		if best == nil || t.Index < best.Index {
			best = t
		}
	}
	consider(pred)
	for _, ch := range pred.Children() {
		if a.c.auxiliary.has(ch.Dep) {
			consider(ch)
		}
	}
	return best
}

func (a *Analysis) isFiniteLike(t *Token) bool {
	switch {
	case tagHasPrefix(t.Tag, a.c.finiteTags):
		return true
	case tagHasPrefix(t.Tag, a.c.nonFiniteTags):
		return false
	}
	return t.Feats.VerbForm == VerbFormFinite
}

func (a *Analysis) isAnaphoricVerb(t *Token) bool {
	if !t.POS.IsVerbal() {
		return false
	}
	pred := a.predicateOf(t)
	if a.bearer(pred) != t {
		return false
	}
	p := t.Feats.Person
	if p.Has(FirstPerson) || p.Has(SecondPerson) || t.Feats.Mood == MoodImperative {
		return false
	}
	return !a.hasSubject(pred) && !a.isImpersonal(pred, t)
}

// subjectOf returns the subject of the clause headed by pred. Conjoined
// predicates without a subject of their own share the one of the
// predicate they are conjoined to.
func (a *Analysis) subjectOf(pred *Token) *Token {
	for p := pred; p != nil; p = p.Head {
		for _, ch := range p.Children() {
			if a.c.subject.has(ch.Dep) {
				return ch
			}
		}
		if !a.c.sibling.has(p.Dep) {
			return nil
		}
	}
	return nil
}

func (a *Analysis) hasSubject(pred *Token) bool {
	return a.subjectOf(pred) != nil
}

// isImpersonal recognises "okazuje się, że ..." and explicitly marked
// impersonal clauses.
func (a *Analysis) isImpersonal(pred, bearer *Token) bool {
	if tagHasPrefix(bearer.Tag, []string{"imps"}) {
		return true
	}
	var clitic, complement bool
	for _, n := range []*Token{pred, bearer} {
		for _, ch := range n.Children() {
			switch {
			case a.c.impersonal.has(ch.Dep):
				return true
			case a.isReflexiveClitic(ch):
				clitic = true
			case a.c.clausalComplement.has(ch.Dep):
				complement = true
			}
		}
	}
	if !clitic || !complement {
		return false
	}
	f := bearer.Feats
	return f.Number.Has(Singular) && !f.Number.Has(Plural) &&
		(f.Gender.Unknown() || f.Gender.Only(Neuter))
}

// IsPotentiallyIndefinite reports whether the common noun t may be
// indefinite: it has no demonstrative or possessive determiner.
func (a *Analysis) IsPotentiallyIndefinite(t *Token) bool {
	a.own(t)
	if t.POS != POSNoun {
		return false
	}
	for _, ch := range t.Children() {
		if !isDeterminerLike(ch) {
			continue
		}
		lemma := a.key(ch.Lemma)
		if a.c.demonstrativeDets.has(lemma) || a.c.possessiveDets.has(lemma) ||
			ch.Feats.Poss || a.c.possessive.has(ch.Dep) {
			return false
		}
	}
	return true
}

// IsPotentiallyDefinite reports whether the common noun t may be definite:
// it has no indefinite determiner.
func (a *Analysis) IsPotentiallyDefinite(t *Token) bool {
	a.own(t)
	if t.POS != POSNoun {
		return false
	}
	for _, ch := range t.Children() {
		if isDeterminerLike(ch) && a.c.indefiniteDets.has(a.key(ch.Lemma)) {
			return false
		}
	}
	return true
}

func isDeterminerLike(t *Token) bool {
	return t.POS == POSDeterminer || t.POS == POSAdjective || t.POS == POSPronoun
}

func (a *Analysis) hasRelativeClause(t *Token) bool {
	for _, ch := range t.Children() {
		if a.c.relcl.has(ch.Dep) {
			return true
		}
	}
	return false
}

// IsPotentiallyIntroducingNoun reports whether t can introduce a new
// referent into the discourse.
func (a *Analysis) IsPotentiallyIntroducingNoun(t *Token) bool {
	if !a.IsIndependentNoun(t) {
		return false
	}
	return a.hasRelativeClause(t) || t.POS == POSProperNoun || a.IsPotentiallyIndefinite(t)
}

// IsPotentiallyReferringBackNoun reports whether t can take up a referent
// already in the discourse.
func (a *Analysis) IsPotentiallyReferringBackNoun(t *Token) bool {
	if !a.IsIndependentNoun(t) || a.hasRelativeClause(t) {
		return false
	}
	return t.POS == POSProperNoun || a.IsPotentiallyDefinite(t)
}
