// Package shared provides small helpers used by the CLI.
package shared

// WipeByteArray overwrites b with zeros, e.g. a password once it has been
// sent. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
