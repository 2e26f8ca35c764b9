package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonicalizer maps any spelling of a subject name (accents dropped, mangled
// encodings) to one of the schedule names, or returns raw unchanged.
type Canonicalizer interface {
	Canonicalize(raw string) string
}

type CanonicalizerFunc func(raw string) string

func (f CanonicalizerFunc) Canonicalize(raw string) string {
	return f(raw)
}

var DefaultCanonicalizer Canonicalizer = CanonicalizerFunc(CanonicalSubjectName)

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func CanonicalSubjectName(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	plain := stripDiacritics(lower)

	switch {
	case strings.Contains(plain, "poo"):
		return SubjectPoo
	case strings.Contains(plain, "alge"), strings.HasSuffix(plain, "lgebra"), strings.Contains(lower, "lg"):
		return SubjectAlgebra
	case strings.Contains(plain, "calcu"), strings.HasSuffix(plain, "lculo"), strings.Contains(plain, "culo"):
		return SubjectCalculo
	}
	return raw
}
