package query

import (
	"cmp"
	"unicode/utf8"

	"github.com/jacoelho/flame/tree"
)

// rank fixes the order between kinds:
// null < false < true < numbers < strings < containers.
func rank(v tree.Value) int {
	switch v.Kind() {
	case tree.KindNull:
		return 0
	case tree.KindBool:
		if b, _ := v.AsBool(); b {
			return 2
		}
		return 1
	case tree.KindNumber:
		return 3
	case tree.KindString:
		return 4
	default:
		return 5
	}
}

// Compare is the total order used to sort children. Values of different
// kinds order by rank; numbers compare numerically and strings by UTF-16 code
// unit. Containers compare equal to each other.
func Compare(a, b tree.Value) int {
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch a.Kind() {
	case tree.KindNumber:
		an, _ := a.AsNumber()
		bn, _ := b.AsNumber()
		return cmp.Compare(an, bn)
	case tree.KindString:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return compareUTF16(as, bs)
	default:
		return 0
	}
}

// compareUTF16 orders strings the way UTF-16 code unit comparison does. It
// only differs from byte order when supplementary characters meet
// characters in U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			if c := cmp.Compare(codeUnit(ra), codeUnit(rb)); c != 0 {
				return c
			}
			return cmp.Compare(ra, rb)
		}
		a, b = a[sa:], b[sb:]
	}
	return cmp.Compare(len(a), len(b))
}

// codeUnit returns the first UTF-16 code unit of r.
func codeUnit(r rune) rune {
	if r >= 0x10000 {
		return 0xD800 + (r-0x10000)>>10
	}
	return r
}
