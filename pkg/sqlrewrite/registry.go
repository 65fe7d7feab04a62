package sqlrewrite

import (
	"fmt"
	"regexp"
	"sync"
)

// Patch overrides the generic rewrite rules for one statement. Statements
// whose generated SQL shape defeats the generic rule (unions, CTEs, derived
// tables, correlated subqueries) must be registered, otherwise the rewriter
// refuses to touch them.
//
// The zero value is a valid patch: it only marks the statement as reviewed,
// letting the complex-SQL paths run with their defaults.
type Patch struct {
	// Qualifiers overrides table qualifier detection. Each entry is the
	// alias or table name the scoping predicate is attached to.
	Qualifiers []string

	// InsertBefore names the top-level keyword the scoping predicate is
	// injected ahead of (e.g. "ORDER BY") when the statement has no WHERE
	// clause, replacing the default trailing-keyword search.
	InsertBefore string

	// SkipDeletedAtHints disables the soft-delete hint pass for complex
	// statements, forcing the generic predicate injection instead.
	SkipDeletedAtHints bool

	// Rewrite replaces the built-in rules entirely. The function receives
	// the original SQL and the resolved tenant id and must return SQL with
	// equivalent scoping guarantees.
	Rewrite func(sql string, tenantID int64) (string, error)
}

var keywordPattern = regexp.MustCompile(`^[A-Za-z]+(?: [A-Za-z]+)*$`)

// validate rejects patches that could not be applied at rewrite time.
// Malformed patches fail at registration so misconfiguration surfaces at
// startup, not on the first affected query.
func (p Patch) validate() error {
	for _, q := range p.Qualifiers {
		if q == "" {
			return fmt.Errorf("%w: empty qualifier", ErrMalformedPatch)
		}
	}
	if p.InsertBefore != "" && !keywordPattern.MatchString(p.InsertBefore) {
		return fmt.Errorf("%w: invalid anchor keyword %q", ErrMalformedPatch, p.InsertBefore)
	}
	return nil
}

// Registry is the per-statement patch catalog. It is populated during
// process initialization and read concurrently by every statement
// preparation afterwards; Freeze draws the line between the two phases.
type Registry struct {
	mu      sync.RWMutex
	patches map[string]Patch
	frozen  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{patches: make(map[string]Patch)}
}

// Register adds a patch for the given statement id. Registration fails for
// empty ids, duplicate ids, malformed patches, and frozen registries.
func (r *Registry) Register(statementID string, p Patch) error {
	if statementID == "" {
		return ErrEmptyStatementID
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("statement %q: %w", statementID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, exists := r.patches[statementID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePatch, statementID)
	}
	r.patches[statementID] = p
	return nil
}

// MustRegister is Register for static startup catalogs where a bad patch
// should prevent the process from starting.
func (r *Registry) MustRegister(statementID string, p Patch) {
	if err := r.Register(statementID, p); err != nil {
		panic(err)
	}
}

// Freeze marks the end of the population phase. Further Register calls
// return ErrRegistryFrozen.
func (r *Registry) Freeze() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
	return r
}

// Lookup returns the patch registered for the statement id, if any.
// A nil registry behaves as an empty one.
func (r *Registry) Lookup(statementID string) (Patch, bool) {
	if r == nil {
		return Patch{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patches[statementID]
	return p, ok
}

// Registered reports whether the statement id has a patch.
func (r *Registry) Registered(statementID string) bool {
	_, ok := r.Lookup(statementID)
	return ok
}

// Len returns the number of registered patches.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patches)
}
