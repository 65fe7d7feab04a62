package sqlrewrite

import "strings"

// quoteState tracks whether a scan position sits inside a single-quoted
// string, a double-quoted identifier, or a backtick-quoted identifier.
// Keywords and parentheses inside quoted regions are never treated as
// structural.
type quoteState struct {
	single   bool
	double   bool
	backtick bool
}

func (q *quoteState) step(curr, prev byte) {
	switch {
	case curr == '\'' && !q.double && !q.backtick && prev != '\\':
		q.single = !q.single
	case curr == '"' && !q.single && !q.backtick && prev != '\\':
		q.double = !q.double
	case curr == '`' && !q.single && !q.double:
		q.backtick = !q.backtick
	}
}

func (q *quoteState) quoted() bool {
	return q.single || q.double || q.backtick
}

// topLevelKeyword returns the index of the first occurrence of keyword at
// parenthesis depth zero, outside quoted regions, at or after from.
// Returns -1 when the keyword does not occur at the top level.
func topLevelKeyword(sql, keyword string, from int) int {
	upperSQL := strings.ToUpper(sql)
	upperKeyword := strings.ToUpper(keyword)

	var qs quoteState
	depth := 0
	for i := 0; i < len(sql); i++ {
		var prev byte
		if i > 0 {
			prev = sql[i-1]
		}
		qs.step(sql[i], prev)
		if qs.quoted() {
			continue
		}

		switch sql[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}

		if depth != 0 || i < from {
			continue
		}
		if !strings.HasPrefix(upperSQL[i:], upperKeyword) {
			continue
		}
		if !keywordBoundary(upperSQL, i-1) || !keywordBoundary(upperSQL, i+len(upperKeyword)) {
			continue
		}
		return i
	}
	return -1
}

// firstTopLevelKeyword returns the smallest top-level index among the given
// keywords, or -1 when none occurs.
func firstTopLevelKeyword(sql string, from int, keywords ...string) int {
	min := -1
	for _, kw := range keywords {
		if idx := topLevelKeyword(sql, kw, from); idx >= 0 && (min < 0 || idx < min) {
			min = idx
		}
	}
	return min
}

// keywordBoundary reports whether position i cannot be part of an
// identifier, so a keyword match ending or starting there is a whole word.
func keywordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
		return false
	}
	return c != '_' && c != '.'
}

// matchingParen returns the index of the parenthesis closing the one opened
// at or after start, skipping quoted regions. Returns -1 if unbalanced.
func matchingParen(sql string, start int) int {
	var qs quoteState
	depth := 0
	for i := start; i < len(sql); i++ {
		var prev byte
		if i > 0 {
			prev = sql[i-1]
		}
		qs.step(sql[i], prev)
		if qs.quoted() {
			continue
		}
		switch sql[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// maskLiterals blanks the interior of quoted regions so predicate detection
// cannot match text inside string literals or quoted identifiers. The quote
// characters themselves and overall length are preserved.
func maskLiterals(sql string) string {
	out := []byte(sql)
	var qs quoteState
	for i := 0; i < len(sql); i++ {
		var prev byte
		if i > 0 {
			prev = sql[i-1]
		}
		wasQuoted := qs.quoted()
		qs.step(sql[i], prev)
		if wasQuoted && qs.quoted() {
			out[i] = ' '
		}
	}
	return string(out)
}

// normalize collapses whitespace and lowercases, for shape detection only.
// The rewritten SQL always preserves the original text.
func normalize(sql string) string {
	return strings.ToLower(strings.Join(strings.Fields(sql), " "))
}
