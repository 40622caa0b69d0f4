package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// AsHex formats a word as eight hexadecimal digits.
func AsHex(w Word) string {
	return fmt.Sprintf("%08x", uint32(w))
}

// FromHex parses a word. Numbers with a base prefix (0x, 0b, 0o) are read
// in that base; other numbers are read as hexadecimal if hexDefault is set,
// and as decimal otherwise. Values wrap to the word width.
func FromHex(text string, hexDefault bool) (w Word, err error) {
	text = strings.TrimSpace(text)
	digits := strings.TrimLeft(text, "+-")
	base := 0
	if hexDefault && !hasBasePrefix(digits) {
		base = 16
	}

	v64, perr := strconv.ParseInt(text, base, 64)
	if perr != nil || v64 < -(1<<31) || v64 >= 1<<32 {
		err = ErrParseNumber(text)
		return
	}

	w = Word(int32(v64))
	return
}

func hasBasePrefix(digits string) bool {
	if len(digits) < 2 || digits[0] != '0' {
		return false
	}
	switch digits[1] {
	case 'x', 'X', 'b', 'B', 'o', 'O':
		return true
	}
	return false
}
