package koref

// Score grades a referent/anaphor pair.
type Score uint8

const (
	// Incompatible pairs can never corefer.
	Incompatible Score = iota
	// Bridging pairs are possible but unlikely, e.g. a speech verb whose
	// only candidate referent is a thing.
	Bridging
	// Compatible pairs pass every rule.
	Compatible
)

func (s Score) String() string {
	switch s {
	case Bridging:
		return "bridging"
	case Compatible:
		return "compatible"
	}
	return "incompatible"
}

// IsPotentialAnaphoricPair scores anaphor as a reference to m. With
// directly set, the binding rules for reflexive and non-reflexive
// anaphors apply as well; callers clear it when m is only reached through
// another chain member.
func (a *Analysis) IsPotentialAnaphoricPair(m Mention, anaphor *Token, directly bool) Score {
	a.own(m.Root)
	a.own(anaphor)
	s, rule := a.scorePair(m, anaphor, directly)
	a.log.Debug("pair",
		"referent", m.String(),
		"anaphor", anaphor.String(),
		"directly", directly,
		"score", s.String(),
		"rule", rule,
	)
	return s
}

func (a *Analysis) scorePair(m Mention, anaphor *Token, directly bool) (Score, string) {
	members := a.Members(m)
	if containsToken(members, anaphor) {
		return Incompatible, "anaphor in mention"
	}

	anaphorAgr := a.TokenAgreement(anaphor)
	if !a.MentionAgreement(m).Intersects(anaphorAgr) && !a.agreesWithComitativeGroup(members, anaphor, anaphorAgr) {
		return Incompatible, "agreement"
	}

	root := m.Root
	if !m.IncludeDependentSiblings && root.POS.IsNominal() && anaphorAgr.PluralOnly() &&
		len(a.DependentSiblings(root)) > 0 && !a.HasOrCoordination(root) &&
		a.MentionAgreement(NewMention(root, true)).Intersects(anaphorAgr) {
		return Incompatible, "plural anaphor takes whole coordination"
	}

	if directly {
		if root.POS.IsNominal() && a.withinOwnPhrase(root, anaphor) {
			return Incompatible, "anaphor inside referent phrase"
		}
		if anaphor.POS.IsVerbal() && a.closerSubjectIntervenes(members, anaphor, anaphorAgr) {
			return Incompatible, "referent in subordinate clause"
		}
		refl := a.ReflexiveAnaphor(anaphor)
		bound := a.IsPotentialReflexivePair(m, anaphor)
		switch {
		case bound && refl == NotReflexive:
			return Incompatible, "non-reflexive bound locally"
		case !bound && refl == Reflexive:
			return Incompatible, "reflexive not bound locally"
		}
	}

	if a.requiresPersonalReferent(anaphor) && a.MentionIsPersonal(m) == PersonalNo {
		return Bridging, "non-personal referent"
	}
	return Compatible, "compatible"
}

// agreesWithComitativeGroup handles "Piotr ... Kupili z żoną dom": a
// plural verb whose comitative companions complete the referent.
func (a *Analysis) agreesWithComitativeGroup(members []*Token, anaphor *Token, anaphorAgr Agreement) bool {
	if !anaphor.POS.IsVerbal() {
		return false
	}
	group := append([]*Token(nil), members...)
	for _, s := range a.DependentSiblings(anaphor) {
		if s.POS.IsNominal() || s.POS == POSPronoun {
			group = append(group, s)
		}
	}
	if len(group) == len(members) {
		return false
	}
	return mergedAgreement(group).Intersects(anaphorAgr)
}

// withinOwnPhrase reports whether t lies in the phrase headed by root
// without crossing a coordinated member or a clause boundary.
func (a *Analysis) withinOwnPhrase(root, t *Token) bool {
	for cur := t; cur != nil; cur = cur.Head {
		if cur == root {
			return true
		}
		if a.c.sibling.has(cur.Dep) || a.c.clausal.has(cur.Dep) || a.isComitativeMember(cur) {
			return false
		}
	}
	return false
}

// closerSubjectIntervenes handles "Gdy chłopiec przyszedł, ojciec
// powiedział, że wyszedł": a referent introduced only inside a subordinate
// clause cannot bind a later verb outside that clause across an agreeing
// subject.
func (a *Analysis) closerSubjectIntervenes(members []*Token, anaphor *Token, anaphorAgr Agreement) bool {
	root := members[0]
	if root.Sentence != anaphor.Sentence || root.Index > anaphor.Index {
		return false
	}
	clause := a.subordinateClause(root, anaphor)
	if clause == nil {
		return false
	}
	for _, t := range a.doc.tokens[root.Index+1 : anaphor.Index] {
		if !a.c.subject.has(t.Dep) || containsToken(members, t) || a.dominates(clause, t) {
			continue
		}
		if (t.POS.IsNominal() || t.POS == POSPronoun) && a.TokenAgreement(t).Intersects(anaphorAgr) {
			return true
		}
	}
	return false
}

// subordinateClause returns the head of the outermost clause containing t
// but not other, or nil.
func (a *Analysis) subordinateClause(t, other *Token) *Token {
	var clause *Token
	for cur := t; cur != nil && !a.dominates(cur, other); cur = cur.Head {
		if a.c.clausal.has(cur.Dep) {
			clause = cur
		}
	}
	return clause
}

// dominates reports whether t lies in the subtree of h.
func (a *Analysis) dominates(h, t *Token) bool {
	for cur := t; cur != nil; cur = cur.Head {
		if cur == h {
			return true
		}
	}
	return false
}

// requiresPersonalReferent reports whether the anaphor is the subject of a
// verb of saying or thinking.
func (a *Analysis) requiresPersonalReferent(anaphor *Token) bool {
	if anaphor.POS.IsVerbal() {
		return a.c.personalVerbs.has(a.key(anaphor.Lemma)) ||
			a.c.personalVerbs.has(a.key(a.predicateOf(anaphor).Lemma))
	}
	if anaphor.Head != nil && a.c.subject.has(anaphor.Dep) {
		return a.c.personalVerbs.has(a.key(anaphor.Head.Lemma))
	}
	return false
}
