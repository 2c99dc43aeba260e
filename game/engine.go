package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"api/nlp"
	"api/profanity"
	"api/words"
)

// yieldEvery bounds how long the rank precompute loop runs between yields
// so one room's initialization does not starve the others.
const yieldEvery = 1000

// hintCeiling is the hint rank used when no prior guess exists.
const hintCeiling = 300

var guessPattern = regexp.MustCompile(`^[a-z]+$`)

// RankedEntry is one family in the similarity-ordered vocabulary. Word is
// the representative: the family member closest to the target.
type RankedEntry struct {
	FamilyKey  string
	Word       string
	Similarity float64
}

// GuessResult is a successful guess evaluation.
type GuessResult struct {
	DisplayWord string
	RawGuess    string
	Similarity  float64
	Rank        int
	TotalWords  int
	IsCorrect   bool
	Top10       []TopEntry
}

// Engine owns one room's target word and the rank table derived from the
// shared vocabulary cache. All fields are written once during Initialize
// and read-only afterward.
type Engine struct {
	vocab     *words.Service
	annotator nlp.Annotator
	checker   profanity.Checker

	cache           *words.Cache
	target          string
	targetFamily    string
	targetVector    []float32
	entries         []RankedEntry
	ranks           map[string]int    // family key -> 1-based rank
	representatives map[string]string // family key -> representative word
}

func NewEngine(vocab *words.Service, annotator nlp.Annotator, checker profanity.Checker) *Engine {
	return &Engine{
		vocab:     vocab,
		annotator: annotator,
		checker:   checker,
	}
}

// Initialize fixes the room's target and precomputes the rank table.
// targetWord is taken as-is when supplied (normalized, no eligibility
// filtering); otherwise a random meaningful word is drawn. progress, when
// non-nil, receives status lines for room_loading broadcasts.
func (e *Engine) Initialize(ctx context.Context, targetWord string, progress func(msg string)) error {
	cache, err := e.vocab.Get(ctx, progress)
	if err != nil {
		return err
	}
	e.cache = cache

	target := strings.ToLower(strings.TrimSpace(targetWord))
	if target == "" {
		if len(cache.MeaningfulTargets) == 0 {
			return errors.New("no eligible target words in vocabulary")
		}
		target = cache.MeaningfulTargets[rand.IntN(len(cache.MeaningfulTargets))]
	}

	ann, err := e.annotator.Annotate(ctx, target)
	if err != nil {
		return fmt.Errorf("annotate target: %w", err)
	}
	family := words.FamilyKey(target, ann)

	// Prefer the family key's vector when the family differs from the
	// surface form, so "nuts" ranks against "nut".
	var vec []float32
	if family != target {
		v, ok, err := e.vectorFor(ctx, family)
		if err != nil {
			return err
		}
		if ok {
			vec = v
		}
	}
	if vec == nil {
		v, ok, err := e.vectorFor(ctx, target)
		if err != nil {
			return err
		}
		if ok {
			vec = v
		}
	}
	if vec == nil || isZeroVector(vec) {
		return fmt.Errorf("target word %q: %w", target, ErrOutOfVocabulary)
	}

	e.target = target
	e.targetFamily = family
	e.targetVector = vec

	if progress != nil {
		progress("Pre-computing ranks vs target...")
	}
	return e.precompute(ctx)
}

// vectorFor resolves a word's embedding from the cache, falling back to
// the annotation source for words outside the vocabulary list.
func (e *Engine) vectorFor(ctx context.Context, word string) ([]float32, bool, error) {
	if vec, ok := e.cache.Vectors[word]; ok {
		return vec, true, nil
	}
	ann, err := e.annotator.Annotate(ctx, word)
	if err != nil {
		return nil, false, fmt.Errorf("annotate %q: %w", word, err)
	}
	if !ann.HasVector || len(ann.Vector) == 0 {
		return nil, false, nil
	}
	return ann.Vector, true, nil
}

// precompute ranks every vectorized vocabulary word against the target,
// keeping only the best member per family. O(V) dot products plus an
// O(V log V) sort; yields periodically.
func (e *Engine) precompute(ctx context.Context) error {
	best := make(map[string]RankedEntry, len(e.cache.Vectors))

	for i, w := range e.cache.Words {
		if i%yieldEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
		}
		vec, ok := e.cache.Vectors[w]
		if !ok {
			continue
		}
		sim := cosine(vec, e.targetVector)
		fk := e.cache.Family[w]
		if cur, ok := best[fk]; !ok || sim > cur.Similarity {
			best[fk] = RankedEntry{FamilyKey: fk, Word: w, Similarity: sim}
		}
	}

	entries := make([]RankedEntry, 0, len(best))
	for _, en := range best {
		entries = append(entries, en)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Similarity != entries[j].Similarity {
			return entries[i].Similarity > entries[j].Similarity
		}
		return entries[i].Word < entries[j].Word
	})

	e.entries = entries
	e.ranks = make(map[string]int, len(entries))
	e.representatives = make(map[string]string, len(entries))
	for i, en := range entries {
		e.ranks[en.FamilyKey] = i + 1
		e.representatives[en.FamilyKey] = en.Word
	}
	return nil
}

// TotalWords is the rank table size, one entry per family.
func (e *Engine) TotalWords() int { return len(e.entries) }

// ProcessGuess validates and evaluates one guess. Recoverable problems
// come back as guessError values; anything else is internal.
func (e *Engine) ProcessGuess(ctx context.Context, rawGuess string) (GuessResult, error) {
	guess := strings.ToLower(strings.TrimSpace(rawGuess))
	if guess == "" {
		return GuessResult{}, ErrEmptyGuess
	}
	if !guessPattern.MatchString(guess) {
		return GuessResult{}, ErrInvalidFormat
	}
	if e.checker.IsProfane(guess) {
		return GuessResult{}, ErrProfaneWord
	}

	ann, err := e.annotator.Annotate(ctx, guess)
	if err != nil {
		return GuessResult{}, fmt.Errorf("annotate guess: %w", err)
	}
	family := words.FamilyKey(guess, ann)

	// Score against the family's representative; fall back to the raw
	// guess's own vector for words outside the cached vocabulary.
	var vec []float32
	if rep, ok := e.representatives[family]; ok {
		vec = e.cache.Vectors[rep]
	}
	if vec == nil {
		if !ann.HasVector || len(ann.Vector) == 0 {
			return GuessResult{}, ErrOutOfVocabulary
		}
		vec = ann.Vector
	}

	sim := cosine(vec, e.targetVector)

	rank, ok := e.ranks[family]
	if !ok {
		rank = e.estimateRank(sim)
	}

	res := GuessResult{
		DisplayWord: family,
		RawGuess:    guess,
		Similarity:  sim,
		Rank:        rank,
		TotalWords:  len(e.entries),
		IsCorrect:   family == e.targetFamily,
	}
	if res.IsCorrect {
		res.Top10 = e.revealTop(10)
	}
	return res, nil
}

// estimateRank places a word that is outside the cached vocabulary but
// still has a vector. O(V), rare enough not to matter.
func (e *Engine) estimateRank(sim float64) int {
	rank := 1
	for _, en := range e.entries {
		if en.Similarity > sim {
			rank++
		}
	}
	return rank
}

// revealTop returns the n next-best families after the target, preserving
// rank order.
func (e *Engine) revealTop(n int) []TopEntry {
	top := make([]TopEntry, 0, n)
	for i, en := range e.entries {
		if en.FamilyKey == e.targetFamily {
			continue
		}
		top = append(top, TopEntry{Word: en.Word, Similarity: en.Similarity, Rank: i + 1})
		if len(top) == n {
			break
		}
	}
	return top
}

// HintWord picks a word roughly halfway between the best rank achieved so
// far and the target, never the target itself. bestRank <= 0 means no
// ranked guess exists yet.
func (e *Engine) HintWord(bestRank int) string {
	if len(e.entries) == 0 {
		return ""
	}

	targetRank := hintCeiling
	if bestRank > 0 && bestRank <= hintCeiling {
		targetRank = max(1, bestRank/2)
	}

	start := min(targetRank-1, len(e.entries)-1)
	for i := start; i >= 0; i-- {
		en := e.entries[i]
		if en.FamilyKey == e.targetFamily {
			continue
		}
		if i+1 <= targetRank {
			return en.Word
		}
	}

	// Everything at or under targetRank was the target's own family; hand
	// out the closest other word instead.
	for _, en := range e.entries {
		if en.FamilyKey != e.targetFamily {
			return en.Word
		}
	}
	return e.entries[0].Word
}
