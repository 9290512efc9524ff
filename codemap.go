package datrie

import (
	"encoding/binary"
	"sort"
)

// CodeMapper remaps raw label values to dense, frequency-ordered
// internal codes. Code 0 is reserved for the terminal symbol; no real
// label ever maps to it. Frequent labels receive small codes, which
// keeps child slots near the base and narrows child-enumeration scans.
//
// The mapper works on raw 32-bit label values; the typed trie converts
// labels at its boundary.
type CodeMapper struct {
	table    []uint32 // label value -> code; 0 means unmapped
	reverse  []uint32 // code -> label value; index 0 is the terminal
	alphabet uint32   // number of distinct codes including the terminal
}

// buildCodeMapper tallies label frequencies over all keys and assigns
// code 1 to the most frequent label, code 2 to the next, and so on.
// Ties break by ascending label value so that identical input yields an
// identical mapper.
func buildCodeMapper[L Label](keys [][]L) CodeMapper {
	maxLabel := uint32(0)
	total := 0
	for _, key := range keys {
		total += len(key)
		for _, label := range key {
			if v := labelValue(label); v > maxLabel {
				maxLabel = v
			}
		}
	}
	if total == 0 {
		return CodeMapper{reverse: []uint32{0}, alphabet: 1}
	}

	freq := make([]uint64, int(maxLabel)+1)
	for _, key := range keys {
		for _, label := range key {
			freq[labelValue(label)]++
		}
	}

	seen := make([]uint32, 0, 64)
	for v, f := range freq {
		if f > 0 {
			seen = append(seen, uint32(v))
		}
	}
	sort.Slice(seen, func(i, j int) bool {
		if freq[seen[i]] != freq[seen[j]] {
			return freq[seen[i]] > freq[seen[j]]
		}
		return seen[i] < seen[j]
	})

	table := make([]uint32, int(maxLabel)+1)
	reverse := make([]uint32, len(seen)+1) // index 0 stays terminal
	for i, v := range seen {
		code := uint32(i) + 1
		table[v] = code
		reverse[code] = v
	}

	return CodeMapper{
		table:    table,
		reverse:  reverse,
		alphabet: uint32(len(seen)) + 1,
	}
}

// Encode returns the internal code for a raw label value, or 0 if the
// label is unmapped. Callers must treat 0 as "no edge".
func (m *CodeMapper) Encode(label uint32) uint32 {
	if int(label) < len(m.table) {
		return m.table[label]
	}
	return 0
}

// Decode returns the raw label value for an internal code. Code 0 is
// the terminal symbol and reports false.
func (m *CodeMapper) Decode(code uint32) (uint32, bool) {
	if code == 0 || code >= uint32(len(m.reverse)) {
		return 0, false
	}
	return m.reverse[code], true
}

// AlphabetSize returns the number of distinct codes, terminal included.
func (m *CodeMapper) AlphabetSize() uint32 {
	return m.alphabet
}

// serializedSize returns the framed payload size in bytes.
func (m *CodeMapper) serializedSize() int {
	return 12 + (len(m.table)+len(m.reverse))*4
}

// appendTo appends the little-endian payload framing:
// alphabet_size, forward_len, forward entries, reverse_len, reverse entries.
func (m *CodeMapper) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, m.alphabet)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.table)))
	for _, v := range m.table {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.reverse)))
	for _, v := range m.reverse {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

// codeMapperFromBytes decodes the payload framing written by appendTo.
// Returns the mapper and the number of bytes consumed.
func codeMapperFromBytes(b []byte) (CodeMapper, int, error) {
	if len(b) < 8 {
		return CodeMapper{}, 0, ErrTruncatedData
	}
	alphabet := binary.LittleEndian.Uint32(b[0:4])
	tableLen := int(binary.LittleEndian.Uint32(b[4:8]))
	offset := 8
	table, offset, err := readUint32Slice(b, offset, tableLen)
	if err != nil {
		return CodeMapper{}, 0, err
	}
	if len(b) < offset+4 {
		return CodeMapper{}, 0, ErrTruncatedData
	}
	reverseLen := int(binary.LittleEndian.Uint32(b[offset : offset+4]))
	offset += 4
	reverse, offset, err := readUint32Slice(b, offset, reverseLen)
	if err != nil {
		return CodeMapper{}, 0, err
	}
	return CodeMapper{table: table, reverse: reverse, alphabet: alphabet}, offset, nil
}

func readUint32Slice(b []byte, offset, count int) ([]uint32, int, error) {
	end := offset + count*4
	if count < 0 || end < offset || end > len(b) {
		return nil, 0, ErrTruncatedData
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[offset+i*4:])
	}
	return out, end, nil
}
