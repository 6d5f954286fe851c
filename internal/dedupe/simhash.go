package dedupe

import (
	"hash/fnv"
	"math/bits"
	"strings"
	"unicode"
)

// Fingerprint computes a 64-bit simhash over the text's token unigrams and
// bigrams. Similar texts produce fingerprints with a small Hamming distance;
// small edits flip only a few bits.
func Fingerprint(text string) uint64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var votes [64]int
	vote := func(feature string) {
		h := fnv.New64a()
		h.Write([]byte(feature))
		v := h.Sum64()
		for bit := 0; bit < 64; bit++ {
			if v&(1<<uint(bit)) != 0 {
				votes[bit]++
			} else {
				votes[bit]--
			}
		}
	}

	for i, tok := range tokens {
		vote(tok)
		if i+1 < len(tokens) {
			vote(tok + " " + tokens[i+1])
		}
	}

	var fp uint64
	for bit := 0; bit < 64; bit++ {
		if votes[bit] > 0 {
			fp |= 1 << uint(bit)
		}
	}
	return fp
}

// HammingDistance counts differing bits between two fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// IsNearDuplicate reports whether two fingerprints are within threshold
// differing bits. Identical fingerprints are near-duplicates at any
// threshold.
func IsNearDuplicate(a, b uint64, threshold int) bool {
	if a == b {
		return true
	}
	return HammingDistance(a, b) < threshold
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
