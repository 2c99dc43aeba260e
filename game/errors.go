package game

import "errors"

// guessError is a recoverable per-guess problem. The text is what the
// player sees.
type guessError string

func (e guessError) Error() string { return string(e) }

const (
	ErrEmptyGuess      = guessError("Empty guess")
	ErrInvalidFormat   = guessError("Single words only")
	ErrProfaneWord     = guessError("NSFW/Profane word rejected")
	ErrOutOfVocabulary = guessError("Word not found in dictionary")
)

// AsGuessError reports whether err is recoverable and should be returned
// to the requester as a guess_error rather than a fatal error.
func AsGuessError(err error) (guessError, bool) {
	var ge guessError
	if errors.As(err, &ge) {
		return ge, true
	}
	return "", false
}
