package clarity

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TypeID is the one-byte tag prefixing every serialized value.
type TypeID byte

// Wire type tags. Only the kinds the records contract uses are
// implemented; the rest of the tag space is rejected on decode.
const (
	TypeUint              TypeID = 0x01
	TypeBoolTrue          TypeID = 0x03
	TypeBoolFalse         TypeID = 0x04
	TypePrincipalStandard TypeID = 0x05
	TypeResponseOk        TypeID = 0x07
	TypeResponseErr       TypeID = 0x08
	TypeList              TypeID = 0x0b
	TypeTuple             TypeID = 0x0c
	TypeStringASCII       TypeID = 0x0d
)

// MaxStringLen is the byte limit for bounded ASCII strings, matching
// the contract's fixed-width string fields.
const MaxStringLen = 128

// maxFieldName bounds tuple field names on decode.
const maxFieldName = 128

// Decode errors.
var (
	// ErrStringTooLong is returned when a bounded string exceeds MaxStringLen.
	ErrStringTooLong = errors.New("clarity: string exceeds field limit")
	// ErrNotASCII is returned when a bounded string contains non-ASCII bytes.
	ErrNotASCII = errors.New("clarity: string is not ASCII")
	// ErrTruncated is returned when a serialized value ends prematurely.
	ErrTruncated = errors.New("clarity: truncated value")
	// ErrUnknownType is returned for type tags this codec does not handle.
	ErrUnknownType = errors.New("clarity: unknown type tag")
)

// Value is a typed contract-call argument or return value.
type Value interface {
	// Type returns the wire tag of the value.
	Type() TypeID
	// writeTo appends the serialized form, including the tag byte.
	writeTo(buf *bytes.Buffer)
}

// Serialize returns the binary wire form of v.
func Serialize(v Value) []byte {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.Bytes()
}

// SerializeHex returns the hex wire form of v, as submitted in
// read-only call arguments.
func SerializeHex(v Value) string {
	return hex.EncodeToString(Serialize(v))
}

// UintValue is an unsigned 128-bit integer. Values above 64 bits are
// rejected on decode since the contract never produces them.
type UintValue struct {
	N uint64
}

// Uint wraps n as a contract argument.
func Uint(n uint64) UintValue { return UintValue{N: n} }

func (v UintValue) Type() TypeID { return TypeUint }

func (v UintValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(TypeUint))
	var b [16]byte
	binary.BigEndian.PutUint64(b[8:], v.N)
	buf.Write(b[:])
}

// BoolValue is a boolean argument.
type BoolValue struct {
	B bool
}

// Bool wraps b as a contract argument.
func Bool(b bool) BoolValue { return BoolValue{B: b} }

func (v BoolValue) Type() TypeID {
	if v.B {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}

func (v BoolValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(v.Type()))
}

// StringASCIIValue is a bounded ASCII string argument.
type StringASCIIValue struct {
	S string
}

// StringASCII validates and wraps s as a bounded ASCII string.
func StringASCII(s string) (StringASCIIValue, error) {
	if len(s) > MaxStringLen {
		return StringASCIIValue{}, fmt.Errorf("%w: %d > %d bytes", ErrStringTooLong, len(s), MaxStringLen)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return StringASCIIValue{}, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrNotASCII, s[i], i)
		}
	}
	return StringASCIIValue{S: s}, nil
}

func (v StringASCIIValue) Type() TypeID { return TypeStringASCII }

func (v StringASCIIValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(TypeStringASCII))
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v.S)))
	buf.Write(n[:])
	buf.WriteString(v.S)
}

// PrincipalValue is a standard (non-contract) principal argument.
type PrincipalValue struct {
	Version byte
	Hash160 [Hash160Size]byte
}

// Principal parses a c32check address into a principal argument.
func Principal(addr string) (PrincipalValue, error) {
	version, hash, err := DecodeAddress(addr)
	if err != nil {
		return PrincipalValue{}, err
	}
	var p PrincipalValue
	p.Version = version
	copy(p.Hash160[:], hash)
	return p, nil
}

// Address renders the principal back into its c32check address form.
func (v PrincipalValue) Address() string {
	addr, _ := EncodeAddress(v.Version, v.Hash160[:])
	return addr
}

func (v PrincipalValue) Type() TypeID { return TypePrincipalStandard }

func (v PrincipalValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(TypePrincipalStandard))
	buf.WriteByte(v.Version)
	buf.Write(v.Hash160[:])
}

// ListValue is a homogeneous sequence of values.
type ListValue struct {
	Items []Value
}

// List wraps items as a list value.
func List(items ...Value) ListValue { return ListValue{Items: items} }

func (v ListValue) Type() TypeID { return TypeList }

func (v ListValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(TypeList))
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v.Items)))
	buf.Write(n[:])
	for _, item := range v.Items {
		item.writeTo(buf)
	}
}

// TupleField is a single named entry of a tuple value.
type TupleField struct {
	Name  string
	Value Value
}

// TupleValue is a record of named values. Fields are serialized in
// lexicographic name order regardless of construction order.
type TupleValue struct {
	Fields []TupleField
}

// Tuple wraps fields as a tuple value.
func Tuple(fields ...TupleField) TupleValue { return TupleValue{Fields: fields} }

// Get returns the named field value, or nil when absent.
func (v TupleValue) Get(name string) Value {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

func (v TupleValue) Type() TypeID { return TypeTuple }

func (v TupleValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(TypeTuple))
	sorted := make([]TupleField, len(v.Fields))
	copy(sorted, v.Fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(sorted)))
	buf.Write(n[:])
	for _, f := range sorted {
		buf.WriteByte(byte(len(f.Name)))
		buf.WriteString(f.Name)
		f.Value.writeTo(buf)
	}
}

// ResponseValue wraps a contract response, ok or err.
type ResponseValue struct {
	Ok    bool
	Inner Value
}

// Ok wraps inner as an ok-response.
func Ok(inner Value) ResponseValue { return ResponseValue{Ok: true, Inner: inner} }

// Err wraps inner as an err-response.
func Err(inner Value) ResponseValue { return ResponseValue{Ok: false, Inner: inner} }

func (v ResponseValue) Type() TypeID {
	if v.Ok {
		return TypeResponseOk
	}
	return TypeResponseErr
}

func (v ResponseValue) writeTo(buf *bytes.Buffer) {
	buf.WriteByte(byte(v.Type()))
	v.Inner.writeTo(buf)
}

// Deserialize parses a single serialized value and returns it along
// with the number of bytes consumed.
func Deserialize(data []byte) (Value, int, error) {
	if len(data) == 0 {
		return nil, 0, ErrTruncated
	}

	switch TypeID(data[0]) {
	case TypeUint:
		if len(data) < 17 {
			return nil, 0, ErrTruncated
		}
		for _, b := range data[1:9] {
			if b != 0 {
				return nil, 0, fmt.Errorf("clarity: uint exceeds 64 bits")
			}
		}
		return Uint(binary.BigEndian.Uint64(data[9:17])), 17, nil

	case TypeBoolTrue:
		return Bool(true), 1, nil

	case TypeBoolFalse:
		return Bool(false), 1, nil

	case TypePrincipalStandard:
		if len(data) < 2+Hash160Size {
			return nil, 0, ErrTruncated
		}
		var p PrincipalValue
		p.Version = data[1]
		copy(p.Hash160[:], data[2:2+Hash160Size])
		return p, 2 + Hash160Size, nil

	case TypeStringASCII:
		if len(data) < 5 {
			return nil, 0, ErrTruncated
		}
		n := binary.BigEndian.Uint32(data[1:5])
		if n > MaxStringLen {
			return nil, 0, fmt.Errorf("%w: %d bytes", ErrStringTooLong, n)
		}
		if len(data) < 5+int(n) {
			return nil, 0, ErrTruncated
		}
		s, err := StringASCII(string(data[5 : 5+n]))
		if err != nil {
			return nil, 0, err
		}
		return s, 5 + int(n), nil

	case TypeList:
		if len(data) < 5 {
			return nil, 0, ErrTruncated
		}
		count := binary.BigEndian.Uint32(data[1:5])
		offset := 5
		items := make([]Value, 0, count)
		for i := uint32(0); i < count; i++ {
			item, n, err := Deserialize(data[offset:])
			if err != nil {
				return nil, 0, err
			}
			items = append(items, item)
			offset += n
		}
		return ListValue{Items: items}, offset, nil

	case TypeTuple:
		if len(data) < 5 {
			return nil, 0, ErrTruncated
		}
		count := binary.BigEndian.Uint32(data[1:5])
		offset := 5
		fields := make([]TupleField, 0, count)
		for i := uint32(0); i < count; i++ {
			if len(data) < offset+1 {
				return nil, 0, ErrTruncated
			}
			nameLen := int(data[offset])
			if nameLen == 0 || nameLen > maxFieldName {
				return nil, 0, fmt.Errorf("clarity: bad tuple field name length %d", nameLen)
			}
			offset++
			if len(data) < offset+nameLen {
				return nil, 0, ErrTruncated
			}
			name := string(data[offset : offset+nameLen])
			offset += nameLen
			value, n, err := Deserialize(data[offset:])
			if err != nil {
				return nil, 0, err
			}
			fields = append(fields, TupleField{Name: name, Value: value})
			offset += n
		}
		return TupleValue{Fields: fields}, offset, nil

	case TypeResponseOk, TypeResponseErr:
		inner, n, err := Deserialize(data[1:])
		if err != nil {
			return nil, 0, err
		}
		return ResponseValue{Ok: TypeID(data[0]) == TypeResponseOk, Inner: inner}, 1 + n, nil

	default:
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrUnknownType, data[0])
	}
}

// DeserializeHex parses a single hex-encoded value, accepting an
// optional 0x prefix as returned by the node.
func DeserializeHex(s string) (Value, error) {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("clarity: bad hex: %w", err)
	}
	v, n, err := Deserialize(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("clarity: %d trailing bytes after value", len(data)-n)
	}
	return v, nil
}
