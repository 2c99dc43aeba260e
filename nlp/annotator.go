// Package nlp is the boundary to the linguistic annotation sidecar. It
// exposes part-of-speech tags, lemmas, morphological features and embedding
// vectors for single words.
package nlp

import "context"

// Universal POS tags we care about. Values match the sidecar's output.
const (
	POSNoun      = "NOUN"
	POSProperN   = "PROPN"
	POSVerb      = "VERB"
	POSAdjective = "ADJ"
	POSAdverb    = "ADV"
)

// Morph holds the subset of morphological features the game uses.
// Number is "Plur" for plural forms, Degree is "Cmp" for comparatives;
// both are empty when the feature is absent.
type Morph struct {
	Number string `json:"number"`
	Degree string `json:"degree"`
}

// Annotation is the fixed record produced for one normalized word.
// Vector is nil and HasVector false when the model has no embedding
// for the word.
type Annotation struct {
	Word      string    `json:"word"`
	POS       string    `json:"pos"`
	Tag       string    `json:"tag"`
	Lemma     string    `json:"lemma"`
	Morph     Morph     `json:"morph"`
	EntType   string    `json:"ent_type"`
	HasVector bool      `json:"has_vector"`
	Vector    []float32 `json:"vector"`
}

func (a Annotation) IsPlural() bool      { return a.Morph.Number == "Plur" }
func (a Annotation) IsComparative() bool { return a.Morph.Degree == "Cmp" }

// Annotator resolves a single lowercase word. Implementations must be
// deterministic for a given model version.
type Annotator interface {
	Annotate(ctx context.Context, word string) (Annotation, error)
}
