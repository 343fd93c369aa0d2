package utils

// SplitText cuts text into rune-based chunks of at most chunkSize, with
// consecutive chunks sharing 'overlap' runes so sentences spanning a cut
// survive in at least one chunk. An overlap >= chunkSize disables overlap
// rather than looping forever.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
