package koref

import (
	"sort"
	"strings"
)

// SiblingInfo is the coordination annotation of one token.
type SiblingInfo struct {
	// Dependents are the other members of the coordination t heads,
	// comitative members included, ordered by position.
	Dependents []*Token
	// Governing is the head of the coordination t belongs to, or nil.
	Governing *Token
	// HasOr is set when the coordination t heads uses an "or" conjunction.
	HasOr bool
}

// String renders the dependents as "[Anna, Agnieszka]".
func (s SiblingInfo) String() string {
	return describeTokens(s.Dependents)
}

// DependentSiblingInfo returns the coordination annotation of t.
func (a *Analysis) DependentSiblingInfo(t *Token) SiblingInfo {
	a.own(t)
	e := a.depsEntry(t)
	return SiblingInfo{
		Dependents: e.deps,
		Governing:  a.GoverningSibling(t),
		HasOr:      e.hasOr,
	}
}

// DependentSiblings returns the tokens coordinated under t.
func (a *Analysis) DependentSiblings(t *Token) []*Token {
	a.own(t)
	return a.depsEntry(t).deps
}

// HasOrCoordination reports whether the coordination headed by t is
// disjunctive.
func (a *Analysis) HasOrCoordination(t *Token) bool {
	a.own(t)
	return a.depsEntry(t).hasOr
}

// GoverningSibling returns the token whose dependent siblings include t.
func (a *Analysis) GoverningSibling(t *Token) *Token {
	a.own(t)
	e := &a.siblings[t.Index]
	if e.govDone {
		return e.governing
	}
	e.govDone = true

	top := t
	for a.c.sibling.has(top.Dep) && top.Head != nil {
		top = top.Head
	}
	var g *Token
	switch {
	case a.isComitativeMember(top):
		g = top.Head
	case top != t:
		g = top
	}
	if g != nil && containsToken(a.depsEntry(g).deps, t) {
		e.governing = g
	}
	return e.governing
}

func (a *Analysis) depsEntry(t *Token) *siblingEntry {
	e := &a.siblings[t.Index]
	if e.depsDone {
		return e
	}
	e.depsDone = true
	if a.c.sibling.has(t.Dep) || a.c.conjunction.has(t.Dep) || a.isComitativeMember(t) {
		return e
	}

	var deps []*Token
	hasOr := false
	var walk func(*Token)
	walk = func(n *Token) {
		for _, ch := range n.Children() {
			switch {
			case a.c.sibling.has(ch.Dep):
				deps = append(deps, ch)
			case a.c.conjunction.has(ch.Dep):
			default:
				continue
			}
			if a.c.orLemmas.has(a.key(ch.Lemma)) {
				hasOr = true
			}
			walk(ch)
		}
	}
	walk(t)
	for _, ch := range t.Children() {
		if a.isComitativeMember(ch) {
			deps = append(deps, ch)
			walk(ch)
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Index < deps[j].Index })
	e.deps, e.hasOr = deps, hasOr
	if len(deps) > 0 {
		a.log.Debug("siblings", "token", t.String(), "dependents", len(deps), "or", hasOr)
	}
	return e
}

// isComitativeMember reports whether c is the second member of a "X z Y"
// pseudo-coordination: an instrumental nominal introduced by a comitative
// preposition standing right after its head.
func (a *Analysis) isComitativeMember(c *Token) bool {
	h := c.Head
	if h == nil || !a.c.comitative.has(c.Dep) {
		return false
	}
	if !(c.POS.IsNominal() || c.POS == POSPronoun) || a.isReflexiveForm(c) {
		return false
	}
	if !c.Feats.Case.Has(Instrumental) {
		return false
	}
	var prep *Token
	for _, ch := range c.Children() {
		if a.c.caseDep.has(ch.Dep) && a.c.comitativePreps.has(a.key(ch.Lemma)) {
			prep = ch
			break
		}
	}
	if prep == nil || prep.Index != h.Index+1 {
		return false
	}
	if h.POS.IsNominal() || h.POS == POSPronoun {
		return true
	}
	return h.POS.IsVerbal() && a.isAnaphoricVerb(h)
}

func containsToken(ts []*Token, t *Token) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func describeTokens(ts []*Token) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Form
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
