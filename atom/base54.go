package atom

// base54Start is the 54-symbol alphabet legal as the first character of
// a mangled identifier: ASCII letters plus `_` and `$`, ordered so that
// index 53 (the 54th symbol) lands on `$` (base54(53) == "$"). See
// DESIGN.md's Open Question decisions.
const base54Start = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$"

// base54Continue is the 64-symbol alphabet legal for every character
// after the first: base54Start plus the decimal digits.
const base54Continue = base54Start + "0123456789"

// maxMangledLen is the longest string Base54 can produce on a 64-bit
// platform: base54(math.MaxUint64) fits in 11 bytes, comfortably inside
// MaxLenInline, so Base54 always returns an inline Atom.
const maxMangledLen = 11

// Base54 returns the shortest identifier-legal mangled name for n, using
// the alphabet terser (and this package) use for JS identifier mangling:
// 54 legal first characters, 64 legal subsequent ones. The result is
// always a valid Atom stored inline.
//
// Adapted from the bijective base-N naming scheme terser's mangler
// uses: the "subtract one before each subsequent-character division"
// step is required so that digit runs don't skip names (after the 54
// first-characters are exhausted, "$" is followed by "aa", not "ab").
func Base54(n uint64) Atom {
	return newInlineShort(base54Indexes(n))
}

func base54Indexes(n uint64) string {
	var buf [maxMangledLen]byte

	buf[0] = base54Start[n%54]
	n /= 54
	length := 1

	for n > 0 {
		n--
		buf[length] = base54Continue[n%64]
		n /= 64
		length++
	}

	return string(buf[:length])
}
