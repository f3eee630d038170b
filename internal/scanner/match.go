// Package scanner implements the incremental delimiter matcher that the
// multipart reader drives across arbitrarily chunked input.
package scanner

// Classify runs the boundary-scanner transition over data from a fresh
// state (k=0) and reports where delim fully matched, or how many trailing
// bytes of data are a partial (carry) match of delim's prefix.
//
// The transition on each byte b at state k is:
//
//  1. if b == delim[k]            -> k := k+1
//  2. else if b == delim[0]       -> k := 1
//  3. else                        -> k := 0
//
// Scanning stops when k reaches len(delim) (a full match, ending at the
// returned index) or data is exhausted (a partial match, reported as
// tailK, the number of trailing bytes of data that are a prefix of delim).
//
// Classify is always called with data = carry ++ chunk, where carry is the
// delim-prefix bytes withheld from a previous call. Because carry is by
// definition delim[0:len(carry)], replaying the transition over carry from
// k=0 reaches k=len(carry) before chunk is ever examined — identical to
// resuming a persisted k. This lets every byte be matched against a single
// stateless function while the caller only ever has to keep the (small,
// bounded by len(delim)-1) carry slice around between calls.
func Classify(delim, data []byte) (matchEnd int, tailK int) {
	if len(delim) == 0 {
		return 0, 0
	}

	k := 0
	for i, b := range data {
		if k < len(delim) && b == delim[k] {
			k++
		} else if b == delim[0] {
			k = 1
		} else {
			k = 0
		}
		if k == len(delim) {
			return i + 1, 0
		}
	}
	return -1, k
}
