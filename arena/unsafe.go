package arena

import "unsafe"

// unsafeString views buf as a string without copying. Safe here only
// because the arena guarantees buf is never mutated or relocated after
// this point: chunks grow by appending a new chunk, never by reallocating
// an existing one (see Arena.allocBytes).
func unsafeString(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}
