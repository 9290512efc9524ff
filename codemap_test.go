package datrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeMapperEmptyKeys(t *testing.T) {
	cm := buildCodeMapper[byte](nil)
	assert.Equal(t, uint32(1), cm.AlphabetSize(), "only the terminal symbol")
	assert.Equal(t, uint32(0), cm.Encode('a'))
}

func TestCodeMapperFrequencyOrder(t *testing.T) {
	cm := buildCodeMapper([][]byte{[]byte("aaa"), []byte("b")})
	codeA := cm.Encode('a')
	codeB := cm.Encode('b')
	assert.NotZero(t, codeA)
	assert.NotZero(t, codeB)
	assert.Less(t, codeA, codeB, "the more frequent label gets the smaller code")
}

func TestCodeMapperTieBreakByLabel(t *testing.T) {
	// 'x' and 'y' both occur once; the smaller label wins the smaller code.
	cm := buildCodeMapper([][]byte{[]byte("xy")})
	assert.Less(t, cm.Encode('x'), cm.Encode('y'))
}

func TestCodeMapperCodeZeroReserved(t *testing.T) {
	cm := buildCodeMapper([][]byte{[]byte("x")})
	assert.NotZero(t, cm.Encode('x'))
	_, ok := cm.Decode(0)
	assert.False(t, ok, "code 0 is the terminal symbol")
}

func TestCodeMapperUnmappedLabel(t *testing.T) {
	cm := buildCodeMapper([][]byte{[]byte("a")})
	assert.Zero(t, cm.Encode('z'))
	assert.Zero(t, cm.Encode(0x10FFFF), "values past the table map to 0")
}

func TestCodeMapperReverseRoundTrip(t *testing.T) {
	cm := buildCodeMapper([][]byte{[]byte("abc"), []byte("de")})
	for _, label := range []byte("abcde") {
		code := cm.Encode(uint32(label))
		require.NotZero(t, code)
		back, ok := cm.Decode(code)
		require.True(t, ok)
		assert.Equal(t, uint32(label), back)
	}
}

func TestCodeMapperRuneLabels(t *testing.T) {
	cm := buildCodeMapper([][]rune{[]rune("あい"), []rune("うえお"), []rune("あお")})
	codeA := cm.Encode(uint32('あ'))
	codeU := cm.Encode(uint32('う'))
	require.NotZero(t, codeA)
	require.NotZero(t, codeU)
	assert.Less(t, codeA, codeU, "'あ' occurs twice, 'う' once")

	back, ok := cm.Decode(codeA)
	require.True(t, ok)
	assert.Equal(t, uint32('あ'), back)
}

func TestCodeMapperSerializationRoundTrip(t *testing.T) {
	cm := buildCodeMapper([][]byte{[]byte("hello"), []byte("world")})
	payload := cm.appendTo(nil)
	assert.Len(t, payload, cm.serializedSize())

	cm2, consumed, err := codeMapperFromBytes(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), consumed)
	assert.Equal(t, cm.AlphabetSize(), cm2.AlphabetSize())
	for _, label := range []byte("helowrd") {
		assert.Equal(t, cm.Encode(uint32(label)), cm2.Encode(uint32(label)))
	}
}

func TestCodeMapperFromBytesTooShort(t *testing.T) {
	_, _, err := codeMapperFromBytes(make([]byte, 7))
	assert.ErrorIs(t, err, ErrTruncatedData)

	cm := buildCodeMapper([][]byte{[]byte("abc")})
	payload := cm.appendTo(nil)
	_, _, err = codeMapperFromBytes(payload[:len(payload)-1])
	assert.ErrorIs(t, err, ErrTruncatedData)
}
