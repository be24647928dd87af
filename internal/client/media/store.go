package media

import "sync"

// Selection is an ordered, deduplicated list of references. All mutations
// are pure: they return a new slice and never modify the receiver, so the
// observing layer can detect changes by comparing values.
type Selection []Reference

// Add appends ref, honoring the selection limit. With max 1 the new
// reference replaces the existing one; with a larger limit an add against a
// full selection is a no-op. Duplicates are no-ops regardless of limit.
func (s Selection) Add(ref Reference, max int) Selection {
	if s.Contains(ref) {
		return s
	}
	if max == 1 {
		return Selection{ref}
	}
	if max > 1 && len(s) >= max {
		return s
	}
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, ref)
}

// Remove drops the entry equal to ref, preserving the order of the rest.
func (s Selection) Remove(ref Reference) Selection {
	out := make(Selection, 0, len(s))
	for _, r := range s {
		if !r.Equal(ref) {
			out = append(out, r)
		}
	}
	return out
}

// Toggle removes ref if present, otherwise adds it at the end.
func (s Selection) Toggle(ref Reference, max int) Selection {
	if s.Contains(ref) {
		return s.Remove(ref)
	}
	return s.Add(ref, max)
}

// Resolve sets the locator on the pending entry whose correlation token
// matches clientID. Entries already resolved and unmatched tokens leave the
// selection unchanged; the second return value reports whether a pending
// entry was resolved.
func (s Selection) Resolve(clientID, locator string) (Selection, bool) {
	for i, r := range s {
		if r.ClientID != clientID {
			continue
		}
		if r.Resolved() {
			return s, false
		}
		out := make(Selection, len(s))
		copy(out, s)
		out[i].Locator = locator
		return out, true
	}
	return s, false
}

// Contains reports whether an entry equal to ref is present.
func (s Selection) Contains(ref Reference) bool {
	for _, r := range s {
		if r.Equal(ref) {
			return true
		}
	}
	return false
}

// Pending returns the entries still waiting for resolution.
func (s Selection) Pending() Selection {
	var out Selection
	for _, r := range s {
		if !r.Resolved() {
			out = append(out, r)
		}
	}
	return out
}

// Store wraps a Selection with a mutex and change notification. One store
// belongs to one form field; watchers are called with the new snapshot after
// every mutation that changed it.
type Store struct {
	mu       sync.Mutex
	max      int
	current  Selection
	watchers []func(Selection)
}

// NewStore creates an empty store limited to max selected references.
func NewStore(max int) *Store {
	return &Store{max: max}
}

// Snapshot returns the current selection.
func (st *Store) Snapshot() Selection {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Watch registers fn to be called after each change. Not safe to call
// concurrently with mutations.
func (st *Store) Watch(fn func(Selection)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.watchers = append(st.watchers, fn)
}

func (st *Store) Add(ref Reference) {
	st.apply(func(s Selection) Selection { return s.Add(ref, st.max) })
}

func (st *Store) Remove(ref Reference) {
	st.apply(func(s Selection) Selection { return s.Remove(ref) })
}

func (st *Store) Toggle(ref Reference) {
	st.apply(func(s Selection) Selection { return s.Toggle(ref, st.max) })
}

// Resolve applies a completion notification. It reports whether a pending
// entry matched the token.
func (st *Store) Resolve(clientID, locator string) bool {
	var matched bool
	st.apply(func(s Selection) Selection {
		next, ok := s.Resolve(clientID, locator)
		matched = ok
		return next
	})
	return matched
}

func (st *Store) apply(mutate func(Selection) Selection) {
	st.mu.Lock()
	next := mutate(st.current)
	changed := !next.equal(st.current)
	st.current = next
	watchers := st.watchers
	st.mu.Unlock()

	if changed {
		for _, fn := range watchers {
			fn(next)
		}
	}
}

func (s Selection) equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
