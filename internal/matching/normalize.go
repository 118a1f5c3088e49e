// Package matching implements the name comparison primitives used by the
// resolver: a canonical comparison key and an edit-distance similarity.
//
// Everything here is pure computation. Nothing blocks, allocates more than
// the input sizes require, or fails.
package matching

// Normalize lower-cases ASCII letters and drops every byte outside [a-z0-9].
// No locale folding or diacritic stripping is applied, so non-ASCII letters
// are removed rather than mapped.
func Normalize(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			out = append(out, c)
		case 'A' <= c && c <= 'Z':
			out = append(out, c+('a'-'A'))
		}
	}
	return string(out)
}
