package match

import (
	"regexp"
	"strings"
)

// Normalizers canonicalize raw form input for comparison. All of them are
// total functions: empty or invalid input yields "" and never an error, so
// callers can compare results directly without presence checks.

var (
	// emailRE accepts a pragmatic subset of RFC 5322 addresses.
	emailRE = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

	// whitespaceRE collapses consecutive whitespace to a single space.
	whitespaceRE = regexp.MustCompile(`\s+`)

	// companyPunctRE strips punctuation from company names before suffix
	// removal, so "Acme, Ltd." and "Acme Ltd" compare equal.
	companyPunctRE = regexp.MustCompile(`[.,;:!?'"()\[\]&/\\-]+`)

	// phoneJunkRE removes everything that is not a digit (the leading "+" is
	// handled separately).
	phoneJunkRE = regexp.MustCompile(`[^0-9]`)
)

// companySuffixes are legal-form words carrying no identity signal; they are
// dropped token-wise after punctuation stripping.
var companySuffixes = map[string]struct{}{
	"ltd": {}, "inc": {}, "llc": {}, "group": {}, "co": {},
}

// NormalizeEmail lowercases and trims s. It returns "" when the input is not
// syntactically an email address.
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || !emailRE.MatchString(s) {
		return ""
	}
	return s
}

// EmailDomain returns the domain part of an already-normalized email, or ""
// when the input is not a valid email.
func EmailDomain(s string) string {
	e := NormalizeEmail(s)
	if e == "" {
		return ""
	}
	at := strings.LastIndexByte(e, '@')
	return e[at+1:]
}

// NormalizeCompany lowercases and trims s, strips punctuation and common
// legal suffixes (Ltd, Inc, LLC, Group, Co), and collapses internal
// whitespace. The result is suitable for loose equality and substring checks.
func NormalizeCompany(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = companyPunctRE.ReplaceAllString(s, " ")
	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, t := range tokens {
		if _, drop := companySuffixes[t]; drop {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// NormalizePhone strips every non-digit character except a leading "+".
// Numbers with fewer than 7 digits are treated as invalid and yield "".
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	plus := strings.HasPrefix(s, "+")
	digits := phoneJunkRE.ReplaceAllString(s, "")
	if len(digits) < 7 {
		return ""
	}
	if plus {
		return "+" + digits
	}
	return digits
}

// NormalizeName lowercases and trims s and collapses internal whitespace.
// Internal punctuation is preserved so hyphenated names keep their identity.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return whitespaceRE.ReplaceAllString(s, " ")
}

// NormalizeURL canonicalizes a profile URL for comparison: it lowercases the
// value, strips the protocol, a leading "www.", any query string or fragment,
// and a trailing slash. Invalid or empty input yields "".
func NormalizeURL(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if s == "" {
		return ""
	}
	return s
}

// tokenOverlap computes the Jaccard similarity between the whitespace token
// sets of two normalized strings. It returns 0 when either side is empty.
func tokenOverlap(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(ta)+len(tb))
	for _, t := range ta {
		union[t] = struct{}{}
	}
	inter := 0
	for _, t := range tb {
		if _, ok := union[t]; !ok {
			union[t] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(union))
}
