package datrie

import "sort"

// freeList is a doubly-linked circular list over unused slots.
// Index 0 is the sentinel and is never free; removing a slot leaves a
// self-loop behind so membership can be tested in O(1).
type freeList struct {
	prev []uint32
	next []uint32
}

func newFreeList(capacity int) freeList {
	cap32 := uint32(capacity)
	prev := make([]uint32, capacity)
	next := make([]uint32, capacity)
	for i := uint32(0); i < cap32; i++ {
		if i == 0 {
			prev[i] = cap32 - 1
		} else {
			prev[i] = i - 1
		}
		if i == cap32-1 {
			next[i] = 0
		} else {
			next[i] = i + 1
		}
	}
	return freeList{prev: prev, next: next}
}

func (f *freeList) remove(i uint32) {
	p := f.prev[i]
	n := f.next[i]
	f.next[p] = n
	f.prev[n] = p
	f.prev[i] = i
	f.next[i] = i
}

// firstFree returns the first free index, or 0 if the list is empty.
func (f *freeList) firstFree() uint32 {
	return f.next[0]
}

func (f *freeList) isFree(i uint32) bool {
	if i == 0 {
		return false
	}
	return !(f.prev[i] == i && f.next[i] == i)
}

// grow extends the list to cover newCap indices and returns the index
// of the first newly added free slot.
func (f *freeList) grow(newCap int) uint32 {
	oldCap := len(f.prev)
	if newCap <= oldCap {
		return uint32(oldCap)
	}
	oldTail := f.prev[0]
	f.prev = append(f.prev, make([]uint32, newCap-oldCap)...)
	f.next = append(f.next, make([]uint32, newCap-oldCap)...)
	for i := oldCap; i < newCap; i++ {
		if i == oldCap {
			f.prev[i] = oldTail
		} else {
			f.prev[i] = uint32(i - 1)
		}
		if i == newCap-1 {
			f.next[i] = 0
		} else {
			f.next[i] = uint32(i + 1)
		}
	}
	f.next[oldTail] = uint32(oldCap)
	f.prev[0] = uint32(newCap - 1)
	return uint32(oldCap)
}

// childSpan is one distinct child code at the current depth together
// with the half-open range of keys that continue through it.
type childSpan struct {
	code  uint32
	begin int
	end   int
}

type buildContext struct {
	nodes    []Node
	siblings []uint32
	free     freeList
}

func newBuildContext(capacity int) *buildContext {
	free := newFreeList(capacity)
	return &buildContext{
		nodes:    make([]Node, capacity),
		siblings: make([]uint32, capacity),
		free:     free,
	}
}

func (ctx *buildContext) ensureCapacity(newCap int) {
	if newCap > len(ctx.nodes) {
		ctx.nodes = append(ctx.nodes, make([]Node, newCap-len(ctx.nodes))...)
		ctx.siblings = append(ctx.siblings, make([]uint32, newCap-len(ctx.siblings))...)
		ctx.free.grow(newCap)
	}
}

// buildRange places the children of parent for codedKeys[begin:end] at
// the given depth and recurses into each non-terminal child.
func (ctx *buildContext) buildRange(codedKeys [][]uint32, begin, end, depth int, parent uint32) {
	children := make([]childSpan, 0, 8)
	for i := begin; i < end; {
		code := codedKeys[i][depth]
		spanBegin := i
		for i++; i < end && codedKeys[i][depth] == code; {
			i++
		}
		children = append(children, childSpan{code: code, begin: spanBegin, end: i})
	}

	base := ctx.findBase(children)
	ctx.nodes[parent].setBase(base)

	indices := make([]uint32, len(children))
	for ci := range children {
		idx := base ^ children[ci].code
		indices[ci] = idx
		ctx.free.remove(idx)
		ctx.nodes[idx].setCheck(parent)
	}

	// Link the sibling chain in ascending code order; the terminal
	// child (code 0) becomes the chain head. The search layer derives
	// the head the same way.
	chained := make([]uint32, len(indices))
	copy(chained, indices)
	sort.Slice(chained, func(i, j int) bool {
		return base^chained[i] < base^chained[j]
	})
	for ci := 0; ci+1 < len(chained); ci++ {
		ctx.siblings[chained[ci]] = chained[ci+1]
	}

	for ci, c := range children {
		idx := indices[ci]
		if c.code == 0 {
			// The terminal span is exactly the one key ending here.
			ctx.nodes[idx].setLeaf(uint32(c.begin))
			ctx.nodes[parent].setHasLeaf()
		} else {
			ctx.buildRange(codedKeys, c.begin, c.end, depth+1, idx)
		}
	}
}

// findBase searches the free list for a base such that base XOR code is
// free for every child code, growing the arrays when the list runs dry.
func (ctx *buildContext) findBase(children []childSpan) uint32 {
	firstCode := children[0].code

	cursor := ctx.free.firstFree()
	if cursor == 0 {
		newCap := len(ctx.nodes) * 2
		half := len(ctx.nodes)
		ctx.ensureCapacity(newCap)
		cursor = uint32(half)
	}

	for {
		base := cursor ^ firstCode

		// base 0 is reserved: it would alias the root slot.
		if base != 0 {
			maxIdx := uint32(0)
			for _, c := range children {
				if idx := base ^ c.code; idx > maxIdx {
					maxIdx = idx
				}
			}
			if int(maxIdx) >= len(ctx.nodes) {
				ctx.ensureCapacity(nextPow2(int(maxIdx) + 1))
			}

			allFree := true
			for _, c := range children {
				if !ctx.free.isFree(base ^ c.code) {
					allFree = false
					break
				}
			}
			if allFree {
				return base
			}
		}

		next := ctx.free.next[cursor]
		if next == 0 {
			// Wrapped around the sentinel: every free slot conflicts.
			newCap := len(ctx.nodes) * 2
			newFirst := ctx.free.grow(newCap)
			ctx.nodes = append(ctx.nodes, make([]Node, newCap-len(ctx.nodes))...)
			ctx.siblings = append(ctx.siblings, make([]uint32, newCap-len(ctx.siblings))...)
			cursor = newFirst
		} else {
			cursor = next
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Build constructs a double-array trie from keys sorted in strictly
// ascending label-tuple order. Key i receives value id i.
//
// Unsorted input, duplicate keys, empty keys and more than 2^31 keys
// are contract violations and abort the build.
func Build[L Label](keys [][]L) *DoubleArray[L] {
	invariant(uint64(len(keys)) <= 1<<31, "value id space exhausted (more than 2^31 keys)")
	bound := AlphabetBound[L]()
	for i, key := range keys {
		invariant(len(key) > 0, "empty key not allowed")
		for _, label := range key {
			invariant(labelValue(label) < bound, "label outside the alphabet")
		}
		if i > 0 {
			invariant(lessKeys(keys[i-1], key), "keys must be sorted in ascending order with no duplicates")
		}
	}

	if len(keys) == 0 {
		return &DoubleArray[L]{
			nodes:    []Node{{}},
			siblings: []uint32{0},
			codeMap:  buildCodeMapper[L](nil),
		}
	}

	codeMap := buildCodeMapper(keys)

	// Encode every key and append the terminal code 0.
	codedKeys := make([][]uint32, len(keys))
	for i, key := range keys {
		coded := make([]uint32, 0, len(key)+1)
		for _, label := range key {
			coded = append(coded, codeMap.Encode(labelValue(label)))
		}
		coded = append(coded, 0)
		codedKeys[i] = coded
	}

	initialCap := max(256, len(codedKeys)*4)
	ctx := newBuildContext(initialCap)
	ctx.buildRange(codedKeys, 0, len(codedKeys), 0, 0)

	// Trim trailing unused slots.
	last := 0
	for i := len(ctx.nodes) - 1; i > 0; i-- {
		if ctx.nodes[i].used() {
			last = i
			break
		}
	}
	ctx.nodes = ctx.nodes[: last+1 : last+1]
	ctx.siblings = ctx.siblings[: last+1 : last+1]

	da := &DoubleArray[L]{nodes: ctx.nodes, siblings: ctx.siblings, codeMap: codeMap}
	stats := da.Stats()
	tracer().Infof("double-array stats keys=%d used=%d total=%d fill=%.2f maxNodeID=%d",
		len(keys), stats.UsedSlots, stats.TotalSlots, stats.FillRatio(), stats.MaxNodeID)
	return da
}

// lessKeys orders keys by label-tuple order.
func lessKeys[L Label](a, b []L) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		va, vb := labelValue(a[i]), labelValue(b[i])
		if va != vb {
			return va < vb
		}
	}
	return len(a) < len(b)
}
