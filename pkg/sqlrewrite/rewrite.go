package sqlrewrite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TenantColumn is the column every tenant-owned table carries. The rewriter
// injects predicates against this column and treats its presence in an
// INSERT column list as proof the statement is already scoped.
const TenantColumn = "tenant_id"

// Words that can follow a table reference without being its alias.
var keywordsAsAlias = map[string]struct{}{
	"where": {}, "join": {}, "left": {}, "right": {}, "inner": {},
	"full": {}, "cross": {}, "on": {}, "group": {}, "having": {},
	"order": {}, "limit": {}, "union": {}, "returning": {}, "values": {},
	"set": {}, "for": {}, "update": {},
}

var (
	fromJoinTablePattern = regexp.MustCompile("(?i)\\b(from|join)\\s+([`\"A-Za-z0-9_.]+)(?:\\s+(?:as\\s+)?([`\"A-Za-z0-9_]+))?")
	updateTablePattern   = regexp.MustCompile("(?i)^\\s*update\\s+([`\"A-Za-z0-9_.]+)(?:\\s+(?:as\\s+)?([`\"A-Za-z0-9_]+))?")
	deleteTablePattern   = regexp.MustCompile("(?i)^\\s*delete\\s+from\\s+([`\"A-Za-z0-9_.]+)(?:\\s+(?:as\\s+)?([`\"A-Za-z0-9_]+))?")
	deletedAtZeroPattern = regexp.MustCompile("(?i)([A-Za-z0-9_`\"]+\\.)?deleted_at\\s*=\\s*0")
)

var trailingKeywords = []string{"GROUP BY", "HAVING", "ORDER BY", "LIMIT", "RETURNING"}

// Rewrite scopes one SQL statement to the given tenant. The statement id
// selects a patch from the registry when the generated SQL shape needs one;
// everything else goes through the generic rules. The function is pure: the
// same inputs always yield the same output, and already-scoped SQL is
// returned unchanged so callers can detect the no-op case by comparison.
func Rewrite(statementID, sql string, tenantID int64, reg *Registry) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return sql, nil
	}
	if tenantID <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidTenantID, tenantID)
	}

	patch, patched := reg.Lookup(statementID)
	if patch.Rewrite != nil {
		return patch.Rewrite(sql, tenantID)
	}

	norm := normalize(sql)
	complex := isComplexSQL(norm)
	if complex && !patched {
		return "", fmt.Errorf("%w: statement %q", ErrUnregisteredComplexSQL, statementID)
	}

	if strings.HasPrefix(norm, "insert") {
		return rewriteInsert(sql, tenantID)
	}
	if !strings.HasPrefix(norm, "select") &&
		!strings.HasPrefix(norm, "update") &&
		!strings.HasPrefix(norm, "delete") {
		// DDL and the like carry no tenant rows.
		return sql, nil
	}

	if complex && !patch.SkipDeletedAtHints {
		if out := annotateDeletedAt(sql, tenantID); out != sql {
			return out, nil
		}
	}
	return rewriteDML(sql, tenantID, patch)
}

// isComplexSQL detects shapes where predicate placement depends on query
// structure the generic rule cannot see. These must be patch-registered.
func isComplexSQL(norm string) bool {
	return strings.Contains(norm, " union ") ||
		strings.HasPrefix(norm, "with ") ||
		strings.Contains(norm, " join (") ||
		strings.Contains(norm, " exists (select") ||
		strings.Contains(norm, " in (select") ||
		strings.Contains(norm, " from (select") ||
		(strings.HasPrefix(norm, "insert") && strings.Contains(norm, " select "))
}

// annotateDeletedAt appends the tenant predicate after every soft-delete
// hint (`deleted_at = 0`). For registered complex statements this reaches
// predicates inside subqueries and union branches that the clause-boundary
// rule cannot. Hints already followed by the tenant predicate are left
// alone, keeping the pass idempotent.
func annotateDeletedAt(sql string, tenantID int64) string {
	matches := deletedAtZeroPattern.FindAllStringSubmatchIndex(sql, -1)
	if len(matches) == 0 {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 64*len(matches))
	last := 0
	for _, m := range matches {
		end := m[1]
		qualifier := ""
		if m[2] >= 0 {
			qualifier = sql[m[2]:m[3]]
		}
		suffix := " AND " + qualifier + TenantColumn + " = " + strconv.FormatInt(tenantID, 10)
		if strings.HasPrefix(sql[end:], suffix) {
			continue
		}
		b.WriteString(sql[last:end])
		b.WriteString(suffix)
		last = end
	}
	if last == 0 {
		return sql
	}
	b.WriteString(sql[last:])
	return b.String()
}

// rewriteInsert adds the tenant column and its literal to an INSERT.
// INSERTs that already mention the tenant column pass through unchanged.
func rewriteInsert(sql string, tenantID int64) (string, error) {
	intoIdx := topLevelKeyword(sql, "INTO", 0)
	if intoIdx < 0 {
		return sql, nil
	}
	columnsStart := strings.IndexByte(sql[intoIdx:], '(')
	if columnsStart < 0 {
		return sql, nil
	}
	columnsStart += intoIdx
	columnsEnd := matchingParen(sql, columnsStart)
	if columnsEnd < 0 {
		return sql, nil
	}

	if containsColumn(sql[columnsStart+1:columnsEnd], TenantColumn) {
		return sql, nil
	}

	valuesIdx := topLevelKeyword(sql, "VALUES", columnsEnd)
	if valuesIdx < 0 {
		return "", fmt.Errorf("%w: insert without values clause: %s", ErrUnsupportedSQL, sql)
	}

	valuesStart := valuesIdx + len("VALUES")
	valuesEnd := firstTopLevelKeyword(sql, valuesStart, "ON DUPLICATE KEY", "ON CONFLICT", "RETURNING")
	if valuesEnd < 0 {
		valuesEnd = len(sql)
	}

	tuples, err := appendTenantToValues(sql[valuesStart:valuesEnd], tenantID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(sql) + 64)
	b.WriteString(sql[:columnsEnd])
	b.WriteString(", ")
	b.WriteString(TenantColumn)
	b.WriteString(sql[columnsEnd:valuesStart])
	b.WriteString(tuples)
	b.WriteString(sql[valuesEnd:])
	return b.String(), nil
}

// appendTenantToValues appends the tenant literal to every top-level value
// tuple, quote-aware so commas and parentheses inside string literals do not
// break tuple tracking.
func appendTenantToValues(values string, tenantID int64) (string, error) {
	var b strings.Builder
	b.Grow(len(values) + 32)

	var qs quoteState
	depth := 0
	tupleSeen := false
	for i := 0; i < len(values); i++ {
		var prev byte
		if i > 0 {
			prev = values[i-1]
		}
		qs.step(values[i], prev)

		if !qs.quoted() {
			switch values[i] {
			case '(':
				depth++
				tupleSeen = true
			case ')':
				if depth == 1 && tupleSeen {
					b.WriteString(", ")
					b.WriteString(strconv.FormatInt(tenantID, 10))
				}
				if depth > 0 {
					depth--
				}
			}
		}
		b.WriteByte(values[i])
	}

	if !tupleSeen {
		return "", fmt.Errorf("%w: values clause without tuples: %s", ErrUnsupportedSQL, values)
	}
	return b.String(), nil
}

// rewriteDML applies the generic rule to a SELECT, UPDATE or DELETE:
// collect the table qualifiers, build the scoping conjunction, and inject it
// at the clause boundary.
func rewriteDML(sql string, tenantID int64, patch Patch) (string, error) {
	qualifiers := patch.Qualifiers
	if len(qualifiers) == 0 {
		qualifiers = extractQualifiers(sql)
	}
	predicate := buildPredicate(qualifiers, tenantID)

	// Re-running the rewrite on its own output, or on SQL whose author
	// already scoped it, must change nothing. The check runs on a copy
	// with quoted regions blanked: predicate text inside a string literal
	// is data, not scoping.
	masked := maskLiterals(sql)
	if strings.Contains(masked, "("+predicate+")") || alreadyScoped(masked, qualifiers, tenantID) {
		return sql, nil
	}
	return injectPredicate(sql, predicate, patch.InsertBefore), nil
}

// extractQualifiers returns the distinct table qualifiers (alias when
// present, bare table name otherwise) referenced by the statement, in
// first-appearance order.
func extractQualifiers(sql string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(q string) {
		if q == "" {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}

	if m := updateTablePattern.FindStringSubmatch(sql); m != nil {
		add(resolveQualifier(m[1], m[2]))
	}
	if m := deleteTablePattern.FindStringSubmatch(sql); m != nil {
		add(resolveQualifier(m[1], m[2]))
	}
	for _, m := range fromJoinTablePattern.FindAllStringSubmatch(sql, -1) {
		table := m[2]
		if table == "" || strings.HasPrefix(table, "(") {
			continue
		}
		add(resolveQualifier(table, m[3]))
	}
	return out
}

// resolveQualifier prefers the alias, falling back to the unqualified table
// name. Trailing keywords misparsed as aliases are rejected.
func resolveQualifier(rawTable, rawAlias string) string {
	if alias := stripIdentifier(rawAlias); alias != "" {
		if _, kw := keywordsAsAlias[strings.ToLower(alias)]; !kw {
			return alias
		}
	}
	table := stripIdentifier(rawTable)
	if dot := strings.LastIndexByte(table, '.'); dot >= 0 && dot < len(table)-1 {
		return table[dot+1:]
	}
	return table
}

func stripIdentifier(ident string) string {
	v := strings.TrimSpace(ident)
	if len(v) >= 2 {
		if (v[0] == '`' && v[len(v)-1] == '`') || (v[0] == '"' && v[len(v)-1] == '"') {
			v = v[1 : len(v)-1]
		}
	}
	return v
}

// buildPredicate scopes every qualifier to the tenant and, for multi-table
// statements, pins all tenant columns equal so a join can never straddle
// tenants.
func buildPredicate(qualifiers []string, tenantID int64) string {
	id := strconv.FormatInt(tenantID, 10)
	if len(qualifiers) == 0 {
		return TenantColumn + " = " + id
	}

	predicates := make([]string, 0, 2*len(qualifiers)-1)
	for _, q := range qualifiers {
		predicates = append(predicates, q+"."+TenantColumn+" = "+id)
	}
	base := qualifiers[0] + "." + TenantColumn
	for _, q := range qualifiers[1:] {
		predicates = append(predicates, base+" = "+q+"."+TenantColumn)
	}
	return strings.Join(predicates, " AND ")
}

// alreadyScoped reports whether the statement already carries the tenant
// predicate for every qualifier. Single-table statements accept either the
// qualified or the bare column form.
func alreadyScoped(sql string, qualifiers []string, tenantID int64) bool {
	if len(qualifiers) == 0 {
		return barePredicatePattern(tenantID).MatchString(sql)
	}
	if len(qualifiers) == 1 {
		return qualifiedPredicatePattern(qualifiers[0], tenantID).MatchString(sql) ||
			barePredicatePattern(tenantID).MatchString(sql)
	}
	for _, q := range qualifiers {
		if !qualifiedPredicatePattern(q, tenantID).MatchString(sql) {
			return false
		}
	}
	return true
}

func barePredicatePattern(tenantID int64) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(^|[^.\w])%s\s*=\s*%d\b`, TenantColumn, tenantID))
}

func qualifiedPredicatePattern(qualifier string, tenantID int64) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\.%s\s*=\s*%d\b`, regexp.QuoteMeta(qualifier), TenantColumn, tenantID))
}

// injectPredicate ANDs the predicate into an existing WHERE clause, or
// opens one before the first trailing clause. The anchor keyword, when set,
// overrides the default trailing-keyword search.
func injectPredicate(sql, predicate, anchor string) string {
	boundary := func(from int) int {
		if anchor != "" {
			return topLevelKeyword(sql, anchor, from)
		}
		return firstTopLevelKeyword(sql, from, trailingKeywords...)
	}

	if whereIdx := topLevelKeyword(sql, "WHERE", 0); whereIdx >= 0 {
		end := boundary(whereIdx + len("WHERE"))
		if end < 0 {
			end = len(sql)
		}
		return splice(sql, end, " AND ("+predicate+")")
	}

	end := boundary(0)
	if end < 0 {
		end = len(sql)
	}
	return splice(sql, end, " WHERE ("+predicate+")")
}

// splice inserts text at the clause boundary, renormalizing the single
// space around the cut so the result stays valid SQL.
func splice(sql string, at int, insert string) string {
	head := strings.TrimRight(sql[:at], " \t\n")
	tail := strings.TrimLeft(sql[at:], " \t\n")
	if tail == "" {
		return head + insert
	}
	return head + insert + " " + tail
}

// containsColumn reports whether the comma-separated column list names the
// column, ignoring quoting and case.
func containsColumn(columns, column string) bool {
	for _, raw := range strings.Split(columns, ",") {
		if strings.EqualFold(stripIdentifier(raw), column) {
			return true
		}
	}
	return false
}
