// Package words owns the candidate vocabulary: the cached word list, the
// morphological family-key algorithm and the process-wide vocabulary cache
// shared by every room.
package words

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Load returns the candidate word list from path, downloading it from url
// first if the file does not exist. Lines are lowercased and trimmed, empty
// lines are skipped and duplicates keep their first position.
func Load(ctx context.Context, path, url string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := download(ctx, path, url); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open vocabulary file %s: %w", path, err)
	}
	defer file.Close()

	var list []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := normalize(scanner.Text())
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		list = append(list, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error while reading vocabulary file %s: %w", path, err)
	}
	return list, nil
}

func download(ctx context.Context, path, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("vocabulary download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vocabulary download: status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("vocabulary download: %w", err)
	}
	return nil
}
