package dedup

import (
	"math/bits"
	"strings"
)

// SimHash calculates a 64-bit similarity hash over word trigrams.
// Near-identical titles produce hashes with mostly matching bits.
//
// A title with no ASCII-alphanumeric tokens hashes to 0, meaning "no
// fingerprint": callers must not treat two zero hashes as similar.
func SimHash(text string) uint64 {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			return r
		}
		return ' '
	}, text)

	var hash uint64
	words := strings.Fields(text)

	// Short titles get word-level bits so they still hash to something.
	if len(words) < 3 {
		for _, w := range words {
			hash |= 1 << (djb2(w) % 64)
		}
		return hash
	}

	for i := 0; i < len(words)-2; i++ {
		trigram := words[i] + " " + words[i+1] + " " + words[i+2]
		hash |= 1 << (djb2(trigram) % 64)
	}
	return hash
}

func djb2(s string) uint64 {
	var h uint64 = 5381
	for _, c := range s {
		h = ((h << 5) + h) + uint64(c)
	}
	return h
}

// Similarity returns how alike two hashes are, 0.0 to 1.0, as the Jaccard
// overlap of their set bits. Plain Hamming similarity misbehaves on short
// titles: two sparse bitmaps agree on almost every zero bit.
func Similarity(a, b uint64) float64 {
	union := bits.OnesCount64(a | b)
	if union == 0 {
		return 1.0
	}
	return float64(bits.OnesCount64(a&b)) / float64(union)
}
