// Package chunk splits normalized text into overlapping fixed-size windows,
// the unit of embedding.
package chunk

import "fmt"

// Split cuts text into ordered windows of at most size runes, consecutive
// windows overlapping by overlap runes. Every rune of text appears in at
// least one window and the final window may be shorter than size. Empty text
// yields no windows.
//
// Offsets are measured in runes so multi-byte text is never cut
// mid-character. overlap must be smaller than size: with overlap >= size the
// cursor would stop advancing, so that configuration is rejected instead of
// looping forever.
func Split(text string, size int, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be non-negative and smaller than chunk size %d", overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
