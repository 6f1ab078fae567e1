// Package musickey converts between traditional musical key notation and the
// Camelot wheel notation used for harmonic mixing.
//
// The Camelot wheel assigns each of the 24 major and minor keys a code from
// 1A to 12B, where the letter distinguishes minor (A) from major (B) and
// adjacent numbers are a fifth apart. Tracks whose codes are identical or
// adjacent on the wheel mix harmonically.
//
// Examples:
//   - "Am" -> "8A"
//   - "C"  -> "8B"
//   - "F#m" -> "11A"
package musickey

import (
	"fmt"
	"strings"
)

// camelotByKey maps a normalized traditional key to its Camelot code.
// Enharmonic spellings (e.g. Db and C#) share a code.
var camelotByKey = map[string]string{
	// Minor keys (A ring).
	"abm": "1A", "g#m": "1A",
	"ebm": "2A", "d#m": "2A",
	"bbm": "3A", "a#m": "3A",
	"fm":  "4A",
	"cm":  "5A",
	"gm":  "6A",
	"dm":  "7A",
	"am":  "8A",
	"em":  "9A",
	"bm":  "10A",
	"f#m": "11A", "gbm": "11A",
	"dbm": "12A", "c#m": "12A",

	// Major keys (B ring).
	"b":  "1B", "cb": "1B",
	"f#": "2B", "gb": "2B",
	"db": "3B", "c#": "3B",
	"ab": "4B", "g#": "4B",
	"eb": "5B", "d#": "5B",
	"bb": "6B", "a#": "6B",
	"f":  "7B",
	"c":  "8B",
	"g":  "9B",
	"d":  "10B",
	"a":  "11B",
	"e":  "12B",
}

// keyByCamelot maps a Camelot code to its canonical traditional spelling.
var keyByCamelot = map[string]string{
	"1A": "Abm", "2A": "Ebm", "3A": "Bbm", "4A": "Fm",
	"5A": "Cm", "6A": "Gm", "7A": "Dm", "8A": "Am",
	"9A": "Em", "10A": "Bm", "11A": "F#m", "12A": "C#m",

	"1B": "B", "2B": "F#", "3B": "Db", "4B": "Ab",
	"5B": "Eb", "6B": "Bb", "7B": "F", "8B": "C",
	"9B": "G", "10B": "D", "11B": "A", "12B": "E",
}

// ToCamelot converts a traditional key (e.g. "Am", "F#", "Bb minor") to its
// Camelot code. Input already in Camelot form is returned normalized.
func ToCamelot(key string) (string, error) {
	norm := normalize(key)
	if norm == "" {
		return "", fmt.Errorf("empty key")
	}

	if upper := strings.ToUpper(norm); IsCamelot(upper) {
		return upper, nil
	}
	if code, ok := camelotByKey[norm]; ok {
		return code, nil
	}
	return "", fmt.Errorf("unrecognized key %q", key)
}

// FromCamelot converts a Camelot code (e.g. "8A") to its canonical
// traditional spelling (e.g. "Am").
func FromCamelot(code string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(code))
	if key, ok := keyByCamelot[norm]; ok {
		return key, nil
	}
	return "", fmt.Errorf("unrecognized Camelot code %q", code)
}

// IsCamelot reports whether s is a valid Camelot code.
func IsCamelot(s string) bool {
	_, ok := keyByCamelot[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Compatible reports whether two keys mix harmonically on the Camelot wheel:
// same code, same number on the other ring, or an adjacent number on the
// same ring. Unrecognized keys are never compatible.
func Compatible(a, b string) bool {
	ca, err := ToCamelot(a)
	if err != nil {
		return false
	}
	cb, err := ToCamelot(b)
	if err != nil {
		return false
	}
	if ca == cb {
		return true
	}

	na, ra := split(ca)
	nb, rb := split(cb)
	if na == nb {
		return true
	}
	if ra != rb {
		return false
	}
	diff := na - nb
	return diff == 1 || diff == -1 || diff == 11 || diff == -11
}

// normalize lowercases a traditional key and collapses spelled-out modes:
// "A Minor" -> "am", "C major" -> "c".
func normalize(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	s = strings.ReplaceAll(s, " ", "")
	for _, suffix := range []string{"minor", "min"} {
		if stem, ok := strings.CutSuffix(s, suffix); ok {
			return stem + "m"
		}
	}
	for _, suffix := range []string{"major", "maj"} {
		if stem, ok := strings.CutSuffix(s, suffix); ok {
			return stem
		}
	}
	return s
}

func split(code string) (number int, ring byte) {
	ring = code[len(code)-1]
	for _, c := range code[:len(code)-1] {
		number = number*10 + int(c-'0')
	}
	return number, ring
}
