// Package profanity classifies words that should never be accepted as
// guesses.
package profanity

import goaway "github.com/TwiN/go-away"

type Checker interface {
	IsProfane(word string) bool
}

// Detector wraps go-away's default dictionary, including its leet-speak
// and special-character sanitization.
type Detector struct {
	detector *goaway.ProfanityDetector
}

func NewDetector() *Detector {
	return &Detector{detector: goaway.NewProfanityDetector()}
}

func (d *Detector) IsProfane(word string) bool {
	return d.detector.IsProfane(word)
}
