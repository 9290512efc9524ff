package datrie

import "slices"

// trieView is the shared read-only view over the node array, sibling
// array and code mapper. Both the owned trie and the zero-copy ref
// funnel every search through it.
type trieView[L Label] struct {
	nodes    []Node
	siblings []uint32
	codeMap  *CodeMapper
}

// step is the single traversal primitive: next = base(state) XOR code,
// valid iff next is an in-bounds installed node other than the root,
// its check points back at state, and its leaf flag matches the code
// (the terminal code 0 must reach a leaf, real labels must not).
// Unused slots carry check 0 and are rejected so they cannot pass as
// children of the root.
func (v trieView[L]) step(state, code uint32) (uint32, bool) {
	next := v.nodes[state].Base() ^ code
	if next == 0 || next >= uint32(len(v.nodes)) || !v.nodes[next].used() || v.nodes[next].Check() != state {
		return 0, false
	}
	if v.nodes[next].IsLeaf() != (code == 0) {
		return 0, false
	}
	return next, true
}

// traverse follows key from the root. An unmapped label means "no edge".
func (v trieView[L]) traverse(key []L) (uint32, bool) {
	state := uint32(0)
	for _, label := range key {
		code := v.codeMap.Encode(labelValue(label))
		if code == 0 {
			return 0, false
		}
		next, ok := v.step(state, code)
		if !ok {
			return 0, false
		}
		state = next
	}
	return state, true
}

// terminalValue returns the value id of state's terminal child, if any.
func (v trieView[L]) terminalValue(state uint32) (uint32, bool) {
	if !v.nodes[state].HasLeaf() {
		return 0, false
	}
	leaf, ok := v.step(state, 0)
	if !ok {
		return 0, false
	}
	return v.nodes[leaf].ValueID(), true
}

func (v trieView[L]) exactMatch(key []L) (uint32, bool) {
	state, ok := v.traverse(key)
	if !ok {
		return 0, false
	}
	return v.terminalValue(state)
}

func (v trieView[L]) commonPrefixSearch(query []L) func(yield func(PrefixMatch) bool) {
	return func(yield func(PrefixMatch) bool) {
		state := uint32(0)
		for pos := 0; ; pos++ {
			if id, ok := v.terminalValue(state); ok {
				if !yield(PrefixMatch{Len: pos, ValueID: id}) {
					return
				}
			}
			if pos == len(query) {
				return
			}
			code := v.codeMap.Encode(labelValue(query[pos]))
			if code == 0 {
				return
			}
			next, ok := v.step(state, code)
			if !ok {
				return
			}
			state = next
		}
	}
}

// firstRealChild returns state's non-terminal child with the smallest
// code, probing slots base XOR 1 .. base XOR alphabet. Frequency-ordered
// codes keep this scan short.
func (v trieView[L]) firstRealChild(state uint32) (uint32, bool) {
	base := v.nodes[state].Base()
	for code := uint32(1); code < v.codeMap.AlphabetSize(); code++ {
		idx := base ^ code
		if idx == 0 || idx >= uint32(len(v.nodes)) {
			continue
		}
		// Unused slots carry check 0 and would masquerade as children
		// of the root without the used guard.
		if v.nodes[idx].used() && v.nodes[idx].Check() == state {
			return idx, true
		}
	}
	return 0, false
}

// chainHead returns the head of state's sibling chain: the terminal
// child when present, else the smallest-code real child. This mirrors
// the order the builder links siblings in.
func (v trieView[L]) chainHead(state uint32) (uint32, bool) {
	if v.nodes[state].HasLeaf() {
		if leaf, ok := v.step(state, 0); ok {
			return leaf, true
		}
	}
	return v.firstRealChild(state)
}

func (v trieView[L]) predictiveSearch(prefix []L) func(yield func(SearchMatch[L]) bool) {
	return func(yield func(SearchMatch[L]) bool) {
		state, ok := v.traverse(prefix)
		if !ok {
			return
		}
		key := make([]L, len(prefix), len(prefix)+8)
		copy(key, prefix)
		v.dfs(state, &key, yield)
	}
}

// dfs walks state's subtree in sibling-chain order, emitting the
// terminal leaf of each node before descending. key is the mutable
// label stack; every match receives its own copy.
func (v trieView[L]) dfs(state uint32, key *[]L, yield func(SearchMatch[L]) bool) bool {
	child, ok := v.chainHead(state)
	if !ok {
		return true
	}
	for child != 0 {
		if v.nodes[child].IsLeaf() {
			if !yield(SearchMatch[L]{Key: slices.Clone(*key), ValueID: v.nodes[child].ValueID()}) {
				return false
			}
		} else {
			code := v.nodes[state].Base() ^ child
			if raw, ok := v.codeMap.Decode(code); ok {
				if label, valid := labelFromValue[L](raw); valid {
					*key = append(*key, label)
					if !v.dfs(child, key, yield) {
						return false
					}
					*key = (*key)[:len(*key)-1]
				}
			}
		}
		child = v.siblings[child]
	}
	return true
}

func (v trieView[L]) probe(key []L) ProbeResult {
	state, ok := v.traverse(key)
	if !ok {
		return ProbeResult{}
	}
	if v.nodes[state].HasLeaf() {
		if leaf, ok := v.step(state, 0); ok {
			// The terminal child heads the sibling chain, so a nonzero
			// sibling means other children exist.
			return ProbeResult{
				ValueID:     v.nodes[leaf].ValueID(),
				HasValue:    true,
				HasChildren: v.siblings[leaf] != 0,
			}
		}
	}
	// An interior node without a terminal child always has at least one
	// real child; the lone exception is the root of an empty trie.
	return ProbeResult{HasChildren: state != 0 || len(v.nodes) > 1}
}
