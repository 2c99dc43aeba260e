package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the annotation sidecar over HTTP. The sidecar wraps the
// spaCy model and answers GET /annotate?word=<w> with a JSON Annotation.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("component", "nlp").Logger(),
	}
}

func (c *Client) Annotate(ctx context.Context, word string) (Annotation, error) {
	endpoint := c.baseURL + "/annotate?word=" + url.QueryEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Annotation{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("word", word).Msg("annotation request failed")
		return Annotation{}, fmt.Errorf("annotate %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error().Int("status", resp.StatusCode).Str("word", word).Msg("annotation source error")
		return Annotation{}, fmt.Errorf("annotate %q: status %d: %s", word, resp.StatusCode, body)
	}

	var ann Annotation
	if err := json.NewDecoder(resp.Body).Decode(&ann); err != nil {
		return Annotation{}, fmt.Errorf("annotate %q: decode: %w", word, err)
	}
	if ann.Word == "" {
		ann.Word = word
	}
	return ann, nil
}
