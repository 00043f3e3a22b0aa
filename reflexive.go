package koref

// domain is the binding domain of an anaphor: the closest predicate or
// noun with a subject, or a finite predicate whose subject is dropped.
type domain struct {
	predicate *Token
	// subject is nil for a zero-subject clause.
	subject *Token
}

// IsPotentialReflexivePair reports whether anaphor lies in the binding
// domain of m, so that a reflexive anaphor must and a non-reflexive one
// must not refer to it.
func (a *Analysis) IsPotentialReflexivePair(m Mention, anaphor *Token) bool {
	a.own(m.Root)
	a.own(anaphor)
	h := m.Root
	if h == anaphor || h.Sentence != anaphor.Sentence {
		return false
	}

	role := h
	for g := a.GoverningSibling(role); g != nil; g = a.GoverningSibling(g) {
		role = g
	}
	group := append([]*Token{role}, a.DependentSiblings(role)...)
	if !containsToken(group, h) {
		group = append(group, h)
	}
	for _, g := range group {
		if !g.POS.IsVerbal() && a.withinOwnPhrase(g, anaphor) {
			return false
		}
	}

	if h.POS.IsVerbal() {
		d := a.bindingDomain(anaphor)
		return d.predicate != nil && d.subject == nil && a.predicateOf(role) == d.predicate
	}
	if anaphor.POS.IsVerbal() {
		p := a.predicateOf(anaphor)
		if role.Head == p {
			return true
		}
		return a.c.relcl.has(p.Dep) && p.Head == role
	}
	d := a.bindingDomain(anaphor)
	if d.subject == role {
		return true
	}
	return d.predicate != nil && role.Head == d.predicate && !a.c.subject.has(role.Dep) &&
		h.Index < anaphor.Index
}

// bindingDomain climbs from t to the nearest head closing a domain.
func (a *Analysis) bindingDomain(t *Token) domain {
	cur := t
	for h := t.Head; h != nil; cur, h = h, h.Head {
		if h.POS.IsNominal() {
			if p := a.possessorOf(h, cur); p != nil {
				return domain{predicate: h, subject: p}
			}
		}
		if !a.isPredicate(h) {
			continue
		}
		if s := a.clauseSubject(h); s != nil {
			return domain{predicate: h, subject: s}
		}
		// Conjoined predicates share the subject of their first conjunct;
		// infinitives take the one of the controlling verb.
		if a.c.sibling.has(h.Dep) || a.bearer(h) == nil {
			continue
		}
		return domain{predicate: h}
	}
	return domain{}
}

// possessorOf returns the possessor or genitive modifier of the noun h
// other than cur ("opinia przyjaciela o sobie").
func (a *Analysis) possessorOf(h, cur *Token) *Token {
	for _, ch := range h.Children() {
		if ch == cur {
			continue
		}
		if a.c.possessive.has(ch.Dep) && !a.isReflexiveForm(ch) {
			return ch
		}
		if a.c.genitiveModifier.has(ch.Dep) && ch.Feats.Case.Has(Genitive) &&
			(ch.POS.IsNominal() || ch.POS == POSPronoun) && !a.hasCaseMarker(ch) {
			return ch
		}
	}
	return nil
}

func (a *Analysis) hasCaseMarker(t *Token) bool {
	for _, ch := range t.Children() {
		if a.c.caseDep.has(ch.Dep) {
			return true
		}
	}
	return false
}

func (a *Analysis) isPredicate(h *Token) bool {
	if h.POS.IsVerbal() {
		return true
	}
	for _, ch := range h.Children() {
		if a.c.subject.has(ch.Dep) || a.c.copula.has(ch.Dep) {
			return true
		}
	}
	return false
}

// clauseSubject returns the subject of h, resolving a relative pronoun to
// the noun its clause modifies.
func (a *Analysis) clauseSubject(h *Token) *Token {
	for _, ch := range h.Children() {
		if !a.c.subject.has(ch.Dep) {
			continue
		}
		if a.c.relcl.has(h.Dep) && h.Head != nil && a.c.relativePronouns.has(a.key(ch.Lemma)) {
			return h.Head
		}
		return ch
	}
	return nil
}
