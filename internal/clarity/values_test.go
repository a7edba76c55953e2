package clarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, fill byte) string {
	t.Helper()
	hash := make([]byte, Hash160Size)
	for i := range hash {
		hash[i] = fill
	}
	addr, err := EncodeAddress(VersionTestnet, hash)
	require.NoError(t, err)
	return addr
}

func TestUintSerialization(t *testing.T) {
	data := Serialize(Uint(2023))
	require.Len(t, data, 17)
	assert.Equal(t, byte(TypeUint), data[0])
	// 2023 = 0x07e7 big-endian in the last two bytes
	assert.Equal(t, byte(0x07), data[15])
	assert.Equal(t, byte(0xe7), data[16])
}

func TestBoolSerialization(t *testing.T) {
	assert.Equal(t, []byte{0x03}, Serialize(Bool(true)))
	assert.Equal(t, []byte{0x04}, Serialize(Bool(false)))
}

func TestStringASCIIRejectsOversized(t *testing.T) {
	long := make([]byte, MaxStringLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := StringASCII(string(long))
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestStringASCIIRejectsNonASCII(t *testing.T) {
	_, err := StringASCII("Curso de Matemática")
	assert.ErrorIs(t, err, ErrNotASCII)
}

func TestPrincipalRoundtrip(t *testing.T) {
	addr := testAddress(t, 0x42)

	p, err := Principal(addr)
	require.NoError(t, err)
	assert.Equal(t, VersionTestnet, p.Version)
	assert.Equal(t, addr, p.Address())

	decoded, err := DeserializeHex(SerializeHex(p))
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestAddRecordArgumentsRoundtrip(t *testing.T) {
	subject := testAddress(t, 0x01)

	principal, err := Principal(subject)
	require.NoError(t, err)
	course, err := StringASCII("Algorithms")
	require.NoError(t, err)
	grade, err := StringASCII("A")
	require.NoError(t, err)
	institution, err := StringASCII("Tech U")
	require.NoError(t, err)

	args := []Value{principal, course, grade, Uint(2023), institution}
	for i, arg := range args {
		decoded, err := DeserializeHex(SerializeHex(arg))
		require.NoError(t, err, "argument %d", i)
		assert.Equal(t, arg, decoded, "argument %d", i)
	}
}

func TestTupleFieldOrderIsCanonical(t *testing.T) {
	year := Uint(2023)
	course, err := StringASCII("Algorithms")
	require.NoError(t, err)

	a := Tuple(TupleField{"year", year}, TupleField{"course", course})
	b := Tuple(TupleField{"course", course}, TupleField{"year", year})
	assert.Equal(t, Serialize(a), Serialize(b))
}

func TestListOfTuplesRoundtrip(t *testing.T) {
	course, err := StringASCII("Blockchain Fundamentals")
	require.NoError(t, err)
	grade, err := StringASCII("A+")
	require.NoError(t, err)

	list := List(
		Tuple(
			TupleField{"course", course},
			TupleField{"grade", grade},
			TupleField{"year", Uint(2023)},
			TupleField{"verified", Bool(true)},
		),
	)

	decoded, err := DeserializeHex(SerializeHex(Ok(list)))
	require.NoError(t, err)

	resp, ok := decoded.(ResponseValue)
	require.True(t, ok)
	require.True(t, resp.Ok)

	items, ok := resp.Inner.(ListValue)
	require.True(t, ok)
	require.Len(t, items.Items, 1)

	tuple, ok := items.Items[0].(TupleValue)
	require.True(t, ok)
	assert.Equal(t, course, tuple.Get("course"))
	assert.Equal(t, Uint(2023), tuple.Get("year"))
	assert.Equal(t, Bool(true), tuple.Get("verified"))
}

func TestDeserializeTruncated(t *testing.T) {
	data := Serialize(Uint(7))
	_, _, err := Deserialize(data[:10])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDeserializeUnknownTag(t *testing.T) {
	_, _, err := Deserialize([]byte{0x7f})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDeserializeHexRejectsTrailingBytes(t *testing.T) {
	_, err := DeserializeHex(SerializeHex(Bool(true)) + "00")
	assert.Error(t, err)
}
