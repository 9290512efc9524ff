package datrie

import (
	"slices"
	"unsafe"
)

// DoubleArrayRef is a zero-copy view of a serialized trie. The node and
// sibling sections are typed slices aliasing the caller's byte buffer
// (typically a memory-mapped dictionary); the buffer must outlive the
// ref and must not be mutated while the ref is in use. The small code
// mapper is copied onto the heap.
type DoubleArrayRef[L Label] struct {
	nodes    []Node
	siblings []uint32
	codeMap  CodeMapper
}

// hostLittleEndian probes the byte order of this process. The LXTR
// format is little-endian on disk; zero-copy reinterpretation is only
// sound when the host matches.
func hostLittleEndian() bool {
	x := uint16(0x0102)
	return *(*byte)(unsafe.Pointer(&x)) == 0x02
}

// FromBytesRef wraps a serialized LXTR v2 buffer without copying the
// node and sibling sections.
//
// The buffer must be aligned to at least 4 bytes; since the node
// section starts at offset 24, an 8-byte-aligned buffer (as mmapped
// pages always are) satisfies every precondition. Alignment or byte-
// order violations report ErrMisalignedData, never a silent copy.
func FromBytesRef[L Label](b []byte) (*DoubleArrayRef[L], error) {
	nodesLen, siblingsLen, mapLen, err := sectionLengths(b)
	if err != nil {
		return nil, err
	}
	if !hostLittleEndian() {
		return nil, ErrMisalignedData
	}

	nodesPtr := unsafe.Pointer(&b[headerSize])
	if uintptr(nodesPtr)%unsafe.Alignof(Node{}) != 0 {
		return nil, ErrMisalignedData
	}
	siblingsPtr := unsafe.Pointer(&b[headerSize+nodesLen])
	if uintptr(siblingsPtr)%unsafe.Alignof(uint32(0)) != 0 {
		return nil, ErrMisalignedData
	}

	nodes := unsafe.Slice((*Node)(nodesPtr), nodesLen/nodeSize)
	siblings := unsafe.Slice((*uint32)(siblingsPtr), siblingsLen/4)

	mapOffset := headerSize + nodesLen + siblingsLen
	codeMap, _, err := codeMapperFromBytes(b[mapOffset : mapOffset+mapLen])
	if err != nil {
		return nil, err
	}

	return &DoubleArrayRef[L]{nodes: nodes, siblings: siblings, codeMap: codeMap}, nil
}

func (r *DoubleArrayRef[L]) view() trieView[L] {
	return trieView[L]{nodes: r.nodes, siblings: r.siblings, codeMap: &r.codeMap}
}

// NumNodes returns the number of node slots in the underlying buffer.
func (r *DoubleArrayRef[L]) NumNodes() int {
	return len(r.nodes)
}

// ExactMatch returns the value id of key, if key is stored.
func (r *DoubleArrayRef[L]) ExactMatch(key []L) (uint32, bool) {
	return r.view().exactMatch(key)
}

// CommonPrefixSearch returns a lazy sequence of all stored keys that
// are prefixes of query, in ascending prefix length.
func (r *DoubleArrayRef[L]) CommonPrefixSearch(query []L) func(yield func(PrefixMatch) bool) {
	return r.view().commonPrefixSearch(query)
}

// PredictiveSearch returns a lazy sequence of all stored keys starting
// with prefix, in sibling-chain DFS order.
func (r *DoubleArrayRef[L]) PredictiveSearch(prefix []L) func(yield func(SearchMatch[L]) bool) {
	return r.view().predictiveSearch(prefix)
}

// Probe traverses key and classifies it; see ProbeResult.
func (r *DoubleArrayRef[L]) Probe(key []L) ProbeResult {
	return r.view().probe(key)
}

// ToOwned copies the borrowed sections into an owned DoubleArray that
// is independent of the source buffer.
func (r *DoubleArrayRef[L]) ToOwned() *DoubleArray[L] {
	return &DoubleArray[L]{
		nodes:    slices.Clone(r.nodes),
		siblings: slices.Clone(r.siblings),
		codeMap: CodeMapper{
			table:    slices.Clone(r.codeMap.table),
			reverse:  slices.Clone(r.codeMap.reverse),
			alphabet: r.codeMap.alphabet,
		},
	}
}
