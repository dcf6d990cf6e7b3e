package summary

import "strings"

const DefaultChunkSize = 800

// SplitWords splits text on whitespace into consecutive windows of at most
// size words, each re-joined with single spaces. Empty input yields no
// chunks.
func SplitWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
