package koref

import "testing"

func TestMentionAgreement(t *testing.T) {
	tests := []struct {
		file     string
		doc      string
		root     int
		siblings bool
		want     string
	}{
		{"pairs.conllu", "are-syn-i-ojciec-oni", 1, false, "masc-sg"},
		{"pairs.conllu", "are-syn-i-córka-oni", 1, true, "virile-pl"},
		{"pairs.conllu", "are-pies-i-lew-one", 1, true, "nonvirile-pl"},
		{"pairs.conllu", "are-pies-i-kobieta-oni", 1, true, "virile-pl,nonvirile-pl"},
		{"pairs.conllu", "are-dom-z-samochodem-one", 1, true, "nonvirile-pl"},
		{"pairs.conllu", "are-psy-z-kobietami-one", 1, true, "virile-pl,nonvirile-pl"},
		{"pairs.conllu", "son-or-daughter-on", 1, true, "masc-sg,fem-sg"},
		{"pairs.conllu", "przyszli-women-children-oni", 1, true, "virile-pl"},
		{"pairs.conllu", "przyszły-women-children-one", 1, true, "nonvirile-pl"},
		{"pairs.conllu", "builds-and-rejoices-on", 0, true, "masc-sg,fem-sg,neut-sg"},
		{"pairs.conllu", "boy-masc-present", 4, false, "masc-sg"},
		{"pairs.conllu", "women-nvir-present", 4, false, "nonvirile-pl"},
		{"reflexive.conllu", "coordinated-subject", 0, true, "nonvirile-pl"},
		{"reflexive.conllu", "man-saw-himself", 2, false, "masc-sg,fem-sg,neut-sg,virile-pl,nonvirile-pl"},
	}
	for _, tt := range tests {
		a := analyze(t, tt.file, tt.doc)
		m := NewMention(a.Document().Token(tt.root), tt.siblings)
		if got := a.MentionAgreement(m).String(); got != tt.want {
			t.Errorf("%s: MentionAgreement(%v) = %s, want %s", tt.doc, m, got, tt.want)
		}
	}
}

func TestMentionIsPersonal(t *testing.T) {
	tests := []struct {
		file     string
		doc      string
		root     int
		siblings bool
		want     Personal
	}{
		{"pairs.conllu", "piotr-said", 0, false, PersonalYes},
		{"pairs.conllu", "house-said", 0, false, PersonalNo},
		{"pairs.conllu", "man-said", 0, false, PersonalYes},
		{"pairs.conllu", "builds-and-rejoices-on", 0, true, PersonalUnknown},
		{"reflexive.conllu", "coordinated-subject", 0, true, PersonalNo},
		{"reflexive.conllu", "coordinated-objects", 0, true, PersonalYes},
		{"reflexive.conllu", "conjoined-predicates", 0, false, PersonalUnknown},
	}
	for _, tt := range tests {
		a := analyze(t, tt.file, tt.doc)
		m := NewMention(a.Document().Token(tt.root), tt.siblings)
		if got := a.MentionIsPersonal(m); got != tt.want {
			t.Errorf("%s: MentionIsPersonal(%v) = %v, want %v", tt.doc, m, got, tt.want)
		}
	}
}

func TestMembers(t *testing.T) {
	a := analyze(t, "pairs.conllu", "are-psy-z-kobietami-one")
	root := a.Document().Token(1)
	if got := describeTokens(a.Members(NewMention(root, true))); got != "[psy, kobietami]" {
		t.Errorf("Members(%v+) = %s, want [psy, kobietami]", root, got)
	}
	if got := describeTokens(a.Members(NewMention(root, false))); got != "[psy]" {
		t.Errorf("Members(%v) = %s, want [psy]", root, got)
	}
}

func TestMentionString(t *testing.T) {
	a := analyze(t, "pairs.conllu", "are-psy-z-kobietami-one")
	root := a.Document().Token(1)
	if got := NewMention(root, true).String(); got != "psy(1)+" {
		t.Errorf("String() = %q, want %q", got, "psy(1)+")
	}
}
