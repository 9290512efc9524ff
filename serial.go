package datrie

import "encoding/binary"

// LXTR v2 binary format, little-endian throughout:
//
//	Offset  Size  Content
//	0       4     Magic: "LXTR"
//	4       1     Version: 0x02
//	5       3     Reserved: 0
//	8       4     nodes_len in bytes
//	12      4     siblings_len in bytes
//	16      4     code_map_len in bytes
//	20      4     Reserved: 0
//	24      N     node records (base LE u32, check LE u32)
//	24+N    S     sibling entries (LE u32)
//	24+N+S  C     code mapper payload
//
// The header is 24 bytes so the node section starts on an 8-byte
// boundary; an 8-byte-aligned source buffer therefore permits zero-copy
// reinterpretation (see FromBytesRef).
const (
	headerSize    = 24
	formatVersion = 2
)

var formatMagic = [4]byte{'L', 'X', 'T', 'R'}

// Bytes serializes the trie into the LXTR v2 format.
func (d *DoubleArray[L]) Bytes() []byte {
	nodesLen := len(d.nodes) * nodeSize
	siblingsLen := len(d.siblings) * 4
	mapLen := d.codeMap.serializedSize()

	buf := make([]byte, 0, headerSize+nodesLen+siblingsLen+mapLen)
	buf = append(buf, formatMagic[:]...)
	buf = append(buf, formatVersion, 0, 0, 0)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(nodesLen))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(siblingsLen))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(mapLen))
	buf = append(buf, 0, 0, 0, 0)

	for _, n := range d.nodes {
		buf = binary.LittleEndian.AppendUint32(buf, n.base)
		buf = binary.LittleEndian.AppendUint32(buf, n.check)
	}
	for _, s := range d.siblings {
		buf = binary.LittleEndian.AppendUint32(buf, s)
	}
	return d.codeMap.appendTo(buf)
}

// sectionLengths validates the header and returns the three declared
// section lengths in bytes.
func sectionLengths(b []byte) (nodesLen, siblingsLen, mapLen int, err error) {
	if len(b) < headerSize {
		return 0, 0, 0, ErrTruncatedData
	}
	if [4]byte(b[0:4]) != formatMagic {
		return 0, 0, 0, ErrInvalidMagic
	}
	if b[4] != formatVersion {
		return 0, 0, 0, ErrInvalidVersion
	}
	nodesLen = int(binary.LittleEndian.Uint32(b[8:12]))
	siblingsLen = int(binary.LittleEndian.Uint32(b[12:16]))
	mapLen = int(binary.LittleEndian.Uint32(b[16:20]))
	if len(b)-headerSize < nodesLen ||
		len(b)-headerSize-nodesLen < siblingsLen ||
		len(b)-headerSize-nodesLen-siblingsLen < mapLen {
		return 0, 0, 0, ErrTruncatedData
	}
	if nodesLen%nodeSize != 0 || siblingsLen%4 != 0 {
		return 0, 0, 0, ErrTruncatedData
	}
	// The arrays are parallel; a root node must exist.
	if nodesLen == 0 || nodesLen/nodeSize != siblingsLen/4 {
		return 0, 0, 0, ErrTruncatedData
	}
	return nodesLen, siblingsLen, mapLen, nil
}

// FromBytes reconstructs an owned trie by copying out of the buffer.
// The buffer needs no particular alignment and may be discarded after
// the call.
func FromBytes[L Label](b []byte) (*DoubleArray[L], error) {
	nodesLen, siblingsLen, mapLen, err := sectionLengths(b)
	if err != nil {
		return nil, err
	}

	offset := headerSize
	nodes := make([]Node, nodesLen/nodeSize)
	for i := range nodes {
		nodes[i].base = binary.LittleEndian.Uint32(b[offset+i*nodeSize:])
		nodes[i].check = binary.LittleEndian.Uint32(b[offset+i*nodeSize+4:])
	}
	offset += nodesLen

	siblings := make([]uint32, siblingsLen/4)
	for i := range siblings {
		siblings[i] = binary.LittleEndian.Uint32(b[offset+i*4:])
	}
	offset += siblingsLen

	codeMap, _, err := codeMapperFromBytes(b[offset : offset+mapLen])
	if err != nil {
		return nil, err
	}

	tracer().Debugf("deserialized double-array nodes=%d siblings=%d codeMapBytes=%d",
		len(nodes), len(siblings), mapLen)
	return &DoubleArray[L]{nodes: nodes, siblings: siblings, codeMap: codeMap}, nil
}
