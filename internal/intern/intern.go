// Package intern provides a case-insensitive string interner: script and
// schema identifiers are matched without regard to case, so the model and
// resolver packages key everything off the same canonical symbol rather
// than repeatedly lowercasing and comparing raw strings.
package intern

import (
	"strings"
	"sync"
)

// Symbol is an opaque handle returned by an Interner. It's only meaningful
// relative to the Interner that produced it.
type Symbol uint32

// Interner deduplicates strings by their lowercased form, handing back a
// small integer Symbol for each distinct string seen. It is not a package
// singleton — callers construct one per load session, so two concurrent
// loads (or tests) never share state.
type Interner struct {
	mu      sync.RWMutex
	bySym   []string // canonical (lowercased) text, indexed by Symbol
	display []string // first-seen original casing, indexed by Symbol
	byText  map[string]Symbol
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{byText: make(map[string]Symbol)}
}

// GetOrIntern returns the Symbol for text, interning it (under its
// lowercased form) if this is the first time it's been seen. The original
// casing of the first occurrence is retained for Display.
func (in *Interner) GetOrIntern(text string) Symbol {
	key := strings.ToLower(text)

	in.mu.RLock()
	if sym, ok := in.byText[key]; ok {
		in.mu.RUnlock()
		return sym
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if sym, ok := in.byText[key]; ok {
		return sym
	}
	sym := Symbol(len(in.bySym))
	in.bySym = append(in.bySym, key)
	in.display = append(in.display, text)
	in.byText[key] = sym
	return sym
}

// Lookup reports the Symbol already assigned to text, if any, without
// interning it.
func (in *Interner) Lookup(text string) (Symbol, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	sym, ok := in.byText[strings.ToLower(text)]
	return sym, ok
}

// Resolve returns the canonical (lowercased) text for sym.
func (in *Interner) Resolve(sym Symbol) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(sym) >= len(in.bySym) {
		return "", false
	}
	return in.bySym[sym], true
}

// Display returns the original casing of sym's first occurrence, useful
// for diagnostics and formatting where lowercasing would be surprising.
func (in *Interner) Display(sym Symbol) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(sym) >= len(in.display) {
		return "", false
	}
	return in.display[sym], true
}

// Len reports how many distinct symbols have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.bySym)
}

// Equal reports whether a and b name the same symbol under this Interner,
// without needing either to already be interned.
func (in *Interner) Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
