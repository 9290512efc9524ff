package datrie

import (
	"sort"
	"testing"

	"github.com/derekparker/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The reference trie answers the same questions through a completely
// different structure; both implementations must agree on a randomized
// corpus.

func TestExactMatchAgainstReferenceTrie(t *testing.T) {
	keys := randomByteKeys(t, 250, 2024)
	da := Build(keys)
	oracle := trie.New()
	for i, k := range keys {
		oracle.Add(string(k), uint32(i))
	}

	for _, k := range keys {
		node, found := oracle.Find(string(k))
		require.True(t, found)
		id, ok := da.ExactMatch(k)
		require.True(t, ok, "key %q", k)
		assert.Equal(t, node.Meta().(uint32), id, "key %q", k)
	}
}

func TestPredictiveSearchAgainstReferenceTrie(t *testing.T) {
	keys := randomByteKeys(t, 250, 31)
	da := Build(keys)
	oracle := trie.New()
	for i, k := range keys {
		oracle.Add(string(k), uint32(i))
	}

	prefixes := []string{"a", "b", "ab", "cd", "e", "abc"}
	for _, prefix := range prefixes {
		want := oracle.PrefixSearch(prefix)
		sort.Strings(want)

		var got []string
		da.PredictiveSearch([]byte(prefix))(func(m SearchMatch[byte]) bool {
			got = append(got, string(m.Key))
			return true
		})
		sort.Strings(got)
		assert.Equal(t, want, got, "prefix %q", prefix)
	}
}

func TestProbeAgainstReferenceTrie(t *testing.T) {
	keys := randomByteKeys(t, 250, 77)
	da := Build(keys)
	oracle := trie.New()
	for i, k := range keys {
		oracle.Add(string(k), uint32(i))
	}

	probes := make([][]byte, 0, len(keys)+4)
	probes = append(probes, keys...)
	probes = append(probes, []byte("a"), []byte("zz"), []byte("abab"), []byte("e"))
	for _, p := range probes {
		r := da.Probe(p)
		_, stored := oracle.Find(string(p))
		assert.Equal(t, stored, r.HasValue, "probe %q", p)

		extensions := 0
		for _, s := range oracle.PrefixSearch(string(p)) {
			if len(s) > len(p) {
				extensions++
			}
		}
		assert.Equal(t, extensions > 0, r.HasChildren, "probe %q", p)
		if !stored && extensions == 0 {
			assert.False(t, oracle.HasKeysWithPrefix(string(p)), "probe %q", p)
		}
	}
}
