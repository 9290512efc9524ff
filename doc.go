/*
Package datrie implements a frozen double-array trie for Japanese text
indexing.

A trie maps sequences of labels (bytes for romaji keys, runes for
dictionary keys) to compact 31-bit value identifiers. The i-th key of
the sorted input receives value id i; the ids reference entry tables
owned by higher layers. Build once, then query forever: the structure
is immutable after Build returns and safe for concurrent readers.

Four search operations are supported, all funneling through a single
traversal primitive:

	da := datrie.Build([][]byte{[]byte("n"), []byte("na"), []byte("no")})
	id, ok := da.ExactMatch([]byte("na"))   // 1, true

CommonPrefixSearch and PredictiveSearch return lazy sequences driven by
the caller; Probe classifies a key as none/prefix/exact/exact-and-prefix
in one pass.

A trie serializes to the versioned LXTR v2 byte format (little-endian,
24-byte header). A serialized buffer can be copied back into an owned
trie on any host, or wrapped zero-copy into a DoubleArrayRef when the
buffer is suitably aligned and the host is little-endian, which is the
intended path for memory-mapped dictionaries.
*/
package datrie

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'datrie'
func tracer() tracing.Trace {
	return tracing.Select("datrie")
}

func invariant(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
