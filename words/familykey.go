package words

import (
	"strings"

	"api/nlp"
)

// FamilyKey returns the canonical identifier for word's morphological
// family: verb inflections and plural nouns collapse to the lemma,
// comparatives collapse to their base form, everything else keeps its own
// surface form. It is a pure function of the word and its annotation.
//
// Derivational relatives ("provider"/"provide", "nut"/"nutty") are
// intentionally never merged; only inflection is.
func FamilyKey(word string, ann nlp.Annotation) string {
	lemma := ann.Lemma
	if lemma == "" {
		lemma = word
	}

	if ann.POS == nlp.POSVerb {
		return lemma
	}

	explicitPlural := (ann.POS == nlp.POSNoun || ann.POS == nlp.POSProperN) && ann.IsPlural()
	pluralSurface := strings.HasSuffix(word, "s") && lemma != word &&
		(ann.Tag == "NNS" || ann.Tag == "NNPS")
	if explicitPlural || pluralSurface {
		return lemma
	}

	if (ann.POS == nlp.POSAdjective || ann.POS == nlp.POSAdverb) && ann.IsComparative() {
		if lemma != word {
			return lemma
		}
		return comparativeBase(word)
	}

	return word
}

// comparativeBase strips a comparative suffix when the annotation source
// did not supply a distinct lemma: "quicker" -> "quick", "bigger" -> "big"
// (doubled consonant undone), "happier" -> "happy".
func comparativeBase(word string) string {
	if strings.HasSuffix(word, "ier") && len(word) > 3 {
		return word[:len(word)-3] + "y"
	}
	if strings.HasSuffix(word, "er") && len(word) > 2 {
		base := word[:len(word)-2]
		if n := len(base); n >= 2 && base[n-1] == base[n-2] && doublesWhenSuffixed(base[n-1]) {
			base = base[:n-1]
		}
		return base
	}
	return word
}

// doublesWhenSuffixed covers consonants English doubles before "-er"
// ("bigger", "hotter", "thinner"). 'l' and 's' are excluded: bases like
// "small" and "tall" end doubled on their own.
func doublesWhenSuffixed(c byte) bool {
	switch c {
	case 'b', 'd', 'g', 'm', 'n', 'p', 't':
		return true
	}
	return false
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
