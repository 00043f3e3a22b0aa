package koref

import "strings"

// ParseFeatures parses a UD feature column such as
// "Animacy=Hum|Case=Nom|Gender=Masc|Number=Sing".
// Unknown names and values are kept in the raw map and otherwise ignored;
// "_" and the empty string give an empty Features.
func ParseFeatures(s string) Features {
	f := Features{raw: make(map[string]string)}
	s = strings.TrimSpace(s)
	if s == "" || s == "_" {
		return f
	}
	for _, pair := range strings.Split(s, "|") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		f.raw[name] = value
	}

	f.Gender = parseGender(f.raw["Gender"], f.raw["Animacy"])
	for _, v := range splitValues(f.raw["Number"]) {
		switch v {
		case "Sing":
			f.Number |= NumberSet(Singular)
		case "Plur", "Ptan":
			f.Number |= NumberSet(Plural)
		}
	}
	for _, v := range splitValues(f.raw["Case"]) {
		f.Case |= CaseSet(caseValues[v])
	}
	for _, v := range splitValues(f.raw["Person"]) {
		f.Person |= PersonSet(personValues[v])
	}
	f.VerbForm = verbFormValues[f.raw["VerbForm"]]
	f.Mood = moodValues[f.raw["Mood"]]
	f.PronType = pronTypeValues[f.raw["PronType"]]
	f.Poss = f.raw["Poss"] == "Yes"
	f.Reflex = f.raw["Reflex"] == "Yes"
	return f
}

var caseValues = map[string]Case{
	"Nom": Nominative,
	"Gen": Genitive,
	"Dat": Dative,
	"Acc": Accusative,
	"Ins": Instrumental,
	"Loc": Locative,
	"Voc": Vocative,
}

var personValues = map[string]Person{
	"0": PersonZero,
	"1": FirstPerson,
	"2": SecondPerson,
	"3": ThirdPerson,
}

var verbFormValues = map[string]VerbForm{
	"Fin":   VerbFormFinite,
	"Inf":   VerbFormInfinitive,
	"Part":  VerbFormParticiple,
	"Conv":  VerbFormConverb,
	"Ger":   VerbFormGerund,
	"Vnoun": VerbFormGerund,
}

var moodValues = map[string]Mood{
	"Ind": MoodIndicative,
	"Imp": MoodImperative,
	"Cnd": MoodConditional,
}

var pronTypeValues = map[string]PronType{
	"Prs": PronTypePersonal,
	"Dem": PronTypeDemonstrative,
	"Ind": PronTypeIndefinite,
	"Int": PronTypeInterrogative,
	"Rel": PronTypeRelative,
	"Tot": PronTypeTotal,
	"Neg": PronTypeNegative,
}

// parseGender combines Gender and Animacy. Animacy only narrows the
// masculine gender; a masculine value without animacy stays ambiguous
// between all three masculine genders.
func parseGender(gender, animacy string) GenderSet {
	var s GenderSet
	for _, v := range splitValues(gender) {
		switch v {
		case "Masc":
			s |= masculineFromAnimacy(animacy)
		case "Fem":
			s |= GenderSet(Feminine)
		case "Neut":
			s |= GenderSet(Neuter)
		}
	}
	return s
}

func masculineFromAnimacy(animacy string) GenderSet {
	var s GenderSet
	for _, v := range splitValues(animacy) {
		switch v {
		case "Hum":
			s |= GenderSet(MasculinePersonal)
		case "Nhum":
			s |= GenderSet(MasculineAnimate)
		case "Anim":
			s |= GenderSet(MasculinePersonal | MasculineAnimate)
		case "Inan":
			s |= GenderSet(MasculineInanimate)
		}
	}
	if s == 0 {
		return masculineGenders
	}
	return s
}

func splitValues(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
