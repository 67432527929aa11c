// Package cos provides the small set of common, low-level helpers shared
// across the engine: short random identifiers and fatal-error aggregation.
package cos

import "crypto/rand"

// idAlphabet is the fixed 16-symbol alphabet spec.md §3/§4.1 requires for
// channel and node identifiers.
const idAlphabet = "1234567890abcdef"

const idLen = 5

// GenID returns a fresh 5-character identifier drawn from idAlphabet.
//
// Grounded in cmn/cos/uuid.go's GenBEID: an alphabet-indexed id built from
// random bytes rather than a library call. teris-io/shortid (the library
// cmn/cos/uuid.go reaches for elsewhere) hard-requires a 64-symbol
// alphabet and panics on anything else, which is incompatible with the
// 16-symbol/5-length id spec.md mandates, so it is not used here — see
// DESIGN.md.
func GenID() string {
	b := make([]byte, idLen)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	out := make([]byte, idLen)
	for i, v := range b {
		out[i] = idAlphabet[int(v)%len(idAlphabet)]
	}
	return string(out)
}
