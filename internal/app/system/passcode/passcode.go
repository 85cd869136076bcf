// Package passcode implements the hint/expected-code challenge that guards
// edit, delete and history actions.
//
// This is a friction gate, not an access control boundary: the derivation is
// deterministic and computable from the visible hint. It exists to slow down
// casual destructive clicks, on the assumption that whoever is meant to use
// these actions knows the transform. Do not treat it as carrying any
// confidentiality guarantee.
package passcode

import (
	"math/rand/v2"
	"strings"
)

// HintLength is the number of digits in a hint and in the expected code.
const HintLength = 4

// GenerateHint returns a uniformly random 4-digit hint in [1000, 9999].
// The leading digit is never zero. A fresh hint is generated every time a
// gated action is requested, and again after every failed attempt.
func GenerateHint() string {
	n := 1000 + rand.IntN(9000)
	return itoa4(n)
}

// ExpectedCode derives the expected passcode from a hint: each digit d at
// 0-based position i becomes ((d+1)*(i+1)) mod 10.
//
// "1234" → "2620", "9999" → "0000".
func ExpectedCode(hint string) string {
	var b strings.Builder
	b.Grow(len(hint))
	for i := 0; i < len(hint); i++ {
		d := int(hint[i] - '0')
		b.WriteByte(byte('0' + ((d+1)*(i+1))%10))
	}
	return b.String()
}

// NormalizeInput strips non-digit characters from a submitted code and
// truncates it to HintLength, matching what the input field enforces
// client-side.
func NormalizeInput(s string) string {
	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < HintLength; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Matches reports whether the submitted input, after normalization, equals
// the expected code for hint. Comparison is exact string equality.
func Matches(hint, input string) bool {
	return NormalizeInput(input) == ExpectedCode(hint)
}

func itoa4(n int) string {
	buf := [HintLength]byte{}
	for i := HintLength - 1; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[:])
}
