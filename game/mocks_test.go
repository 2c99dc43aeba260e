package game

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"api/nlp"
	"api/words"
)

// --- Annotator ---

// fakeAnnotator serves canned annotations. Words without an entry come
// back as vectorless nouns. A non-nil gate blocks every call until closed,
// which lets tests hold a room in its initializing state.
type fakeAnnotator struct {
	mu   sync.Mutex
	anns map[string]nlp.Annotation
	gate chan struct{}
	err  error
}

func newFakeAnnotator(anns map[string]nlp.Annotation) *fakeAnnotator {
	return &fakeAnnotator{anns: anns}
}

func (f *fakeAnnotator) Annotate(ctx context.Context, word string) (nlp.Annotation, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nlp.Annotation{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nlp.Annotation{}, f.err
	}
	if ann, ok := f.anns[word]; ok {
		return ann, nil
	}
	return nlp.Annotation{Word: word, POS: "NOUN", Tag: "NN", Lemma: word}, nil
}

// --- ProfanityChecker ---

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) IsProfane(word string) bool {
	args := m.Called(word)
	return args.Bool(0)
}

func newFixtureChecker() *MockChecker {
	checker := &MockChecker{}
	checker.On("IsProfane", "shit").Return(true)
	checker.On("IsProfane", mock.Anything).Return(false)
	return checker
}

// --- Emitter ---

type emitted struct {
	event string
	data  any
}

type fakeEmitter struct {
	sid string

	mu     sync.Mutex
	events []emitted
}

func newFakeEmitter(sid string) *fakeEmitter {
	return &fakeEmitter{sid: sid}
}

func (f *fakeEmitter) SID() string { return f.sid }

func (f *fakeEmitter) Emit(event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{event: event, data: data})
}

func (f *fakeEmitter) byEvent(event string) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emitted
	for _, e := range f.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEmitter) lastOf(event string) (emitted, bool) {
	all := f.byEvent(event)
	if len(all) == 0 {
		return emitted{}, false
	}
	return all[len(all)-1], true
}

// --- Fixture vocabulary ---
//
// Six vector families against target "apple":
//   1 apple 1.0, 2 banana ~.994, 3 cherry ~.970, 4 nutty ~.862,
//   5 nut ~.707 (best of nut/nuts), 6 quick family (representative
//   "quicker", ~.110). "xyzzy" and "the" have no vector.

const fixtureVocab = "apple\nbanana\ncherry\nnut\nnuts\nnutty\nquick\nquicker\nxyzzy\nthe\n"

func fixtureAnnotations() map[string]nlp.Annotation {
	return map[string]nlp.Annotation{
		"apple":   {POS: "NOUN", Tag: "NN", Lemma: "apple", HasVector: true, Vector: []float32{1, 0, 0}},
		"banana":  {POS: "NOUN", Tag: "NN", Lemma: "banana", HasVector: true, Vector: []float32{0.9, 0.1, 0}},
		"cherry":  {POS: "NOUN", Tag: "NN", Lemma: "cherry", HasVector: true, Vector: []float32{0.8, 0.2, 0}},
		"nut":     {POS: "NOUN", Tag: "NN", Lemma: "nut", HasVector: true, Vector: []float32{0.5, 0.5, 0}},
		"nuts":    {POS: "NOUN", Tag: "NNS", Lemma: "nut", Morph: nlp.Morph{Number: "Plur"}, HasVector: true, Vector: []float32{0.45, 0.55, 0}},
		"nutty":   {POS: "ADJ", Tag: "JJ", Lemma: "nutty", HasVector: true, Vector: []float32{0.6, 0.35, 0.05}},
		"quick":   {POS: "ADJ", Tag: "JJ", Lemma: "quick", HasVector: true, Vector: []float32{0, 1, 0}},
		"quicker": {POS: "ADJ", Tag: "JJR", Lemma: "quicker", Morph: nlp.Morph{Degree: "Cmp"}, HasVector: true, Vector: []float32{0.1, 0.9, 0}},
		"xyzzy":   {POS: "PROPN", Tag: "NNP", Lemma: "xyzzy"},
		"the":     {POS: "DET", Tag: "DT", Lemma: "the"},
		// Guessable words outside the vocabulary list.
		"pear":  {POS: "NOUN", Tag: "NN", Lemma: "pear", HasVector: true, Vector: []float32{0.95, 0.05, 0}},
		"zilch": {POS: "NOUN", Tag: "NN", Lemma: "zilch", HasVector: true, Vector: []float32{0, 0, 0}},
		"shit":  {POS: "NOUN", Tag: "NN", Lemma: "shit", HasVector: true, Vector: []float32{0.2, 0.2, 0.2}},
	}
}

func newVocabService(t *testing.T, annotator nlp.Annotator, list string) *words.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte(list), 0o644))
	return words.NewService(annotator, "", path, zerolog.Nop())
}

func newReadyEngine(t *testing.T, target string) *Engine {
	t.Helper()
	annotator := newFakeAnnotator(fixtureAnnotations())
	engine := NewEngine(newVocabService(t, annotator, fixtureVocab), annotator, newFixtureChecker())
	require.NoError(t, engine.Initialize(context.Background(), target, nil))
	return engine
}
