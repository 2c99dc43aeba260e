package words

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"api/nlp"
)

const (
	// targetPool limits random-target candidates to the most common words.
	targetPool = 2000
	// minTargetLength is the shortest word worth guessing at.
	minTargetLength = 4
	// yieldEvery bounds how long the build loop runs between yields so a
	// long build does not starve other rooms' handlers.
	yieldEvery = 1000
)

// functionVerbs are auxiliaries that pass the POS filter but make useless
// targets.
var functionVerbs = map[string]struct{}{
	"be": {}, "is": {}, "are": {}, "was": {}, "were": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "having": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "shall": {}, "should": {}, "may": {}, "might": {},
	"can": {}, "could": {}, "must": {},
}

var geographicEntities = map[string]struct{}{
	"GPE": {}, "LOC": {}, "FAC": {},
}

// Cache is the process-wide vocabulary, built once and immutable afterward.
type Cache struct {
	// Words is the normalized candidate list in original order.
	Words []string
	// Family maps every word to its family key.
	Family map[string]string
	// Vectors holds embeddings for the words that have one.
	Vectors map[string][]float32
	// MeaningfulTargets are the words eligible as random targets.
	MeaningfulTargets []string
}

// Service builds and hands out the shared Cache. Concurrent first callers
// observe exactly one build: a fast-path load, then a mutex-guarded
// re-check before the expensive work.
type Service struct {
	annotator nlp.Annotator
	vocabURL  string
	vocabPath string
	log       zerolog.Logger

	mu    sync.Mutex
	cache atomic.Pointer[Cache]
}

func NewService(annotator nlp.Annotator, vocabURL, vocabPath string, log zerolog.Logger) *Service {
	return &Service{
		annotator: annotator,
		vocabURL:  vocabURL,
		vocabPath: vocabPath,
		log:       log.With().Str("component", "vocab").Logger(),
	}
}

// Get returns the shared cache, building it on first use. progress, when
// non-nil, receives human-readable build status lines.
func (s *Service) Get(ctx context.Context, progress func(msg string)) (*Cache, error) {
	if c := s.cache.Load(); c != nil {
		return c, nil
	}

	if progress != nil {
		progress("Preparing vocabulary cache...")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.cache.Load(); c != nil {
		return c, nil
	}

	c, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Store(c)
	return c, nil
}

func (s *Service) build(ctx context.Context) (*Cache, error) {
	list, err := Load(ctx, s.vocabPath, s.vocabURL)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("vocabulary list is empty")
	}
	s.log.Info().Int("words", len(list)).Msg("building vocabulary cache")

	c := &Cache{
		Words:   make([]string, 0, len(list)),
		Family:  make(map[string]string, len(list)),
		Vectors: make(map[string][]float32, len(list)),
	}

	for i, w := range list {
		if i%yieldEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runtime.Gosched()
		}

		ann, err := s.annotator.Annotate(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("vocabulary build: %w", err)
		}

		c.Words = append(c.Words, w)
		c.Family[w] = FamilyKey(w, ann)
		if ann.HasVector && len(ann.Vector) > 0 {
			c.Vectors[w] = ann.Vector
		}
		if i < targetPool && eligibleTarget(w, ann) {
			c.MeaningfulTargets = append(c.MeaningfulTargets, w)
		}
	}

	s.log.Info().
		Int("vectorized", len(c.Vectors)).
		Int("targets", len(c.MeaningfulTargets)).
		Msg("vocabulary cache ready")
	return c, nil
}

// eligibleTarget keeps words that make satisfying hidden words: long
// enough, content part-of-speech, not a place name, not an auxiliary, and
// with a lemma that would still be displayable if the family collapses to
// it ("days" -> "day" is too short).
func eligibleTarget(word string, ann nlp.Annotation) bool {
	if len(word) < minTargetLength {
		return false
	}
	switch ann.POS {
	case nlp.POSNoun, nlp.POSVerb, nlp.POSAdjective, nlp.POSAdverb:
	default:
		return false
	}
	if _, geo := geographicEntities[ann.EntType]; geo {
		return false
	}
	if _, aux := functionVerbs[word]; aux {
		return false
	}
	if ann.Lemma != "" && ann.Lemma != word && len(ann.Lemma) < minTargetLength {
		return false
	}
	return true
}
