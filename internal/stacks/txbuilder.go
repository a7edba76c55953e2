package stacks

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync/atomic"
	"time"

	"github.com/educhain/records/internal/clarity"
	"github.com/educhain/records/internal/models"
)

// FunctionAddRecord is the contract function that writes a record.
const FunctionAddRecord = "add-record"

// MinYear is the earliest accepted completion year.
const MinYear = 1900

// AnchorMode selects how the transaction may be anchored.
type AnchorMode byte

// AnchorAny accepts either anchoring mode, as the original deployment uses.
const AnchorAny AnchorMode = 0x03

// PostConditionMode selects post-condition enforcement.
type PostConditionMode byte

// PostConditionAllow disables post-condition checks.
const PostConditionAllow PostConditionMode = 0x01

// UnsignedTransaction is an immutable contract-call payload with typed
// arguments. It is consumed exactly once by the broadcast client.
type UnsignedTransaction struct {
	ContractAddress   string
	ContractName      string
	FunctionName      string
	Args              []clarity.Value
	Network           string
	AnchorMode        AnchorMode
	PostConditionMode PostConditionMode

	consumed atomic.Bool
}

// consume marks the transaction as submitted. It reports false when the
// transaction was already consumed.
func (tx *UnsignedTransaction) consume() bool {
	return tx.consumed.CompareAndSwap(false, true)
}

// payload returns the deterministic byte serialization that is signed
// and submitted: modes, contract principal, name, function, and the
// typed argument sequence.
func (tx *UnsignedTransaction) payload() ([]byte, error) {
	contract, err := clarity.Principal(tx.ContractAddress)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(tx.AnchorMode))
	buf.WriteByte(byte(tx.PostConditionMode))
	buf.Write(clarity.Serialize(contract))
	writeLengthPrefixed(&buf, tx.ContractName)
	writeLengthPrefixed(&buf, tx.FunctionName)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(tx.Args)))
	buf.Write(count[:])
	for _, arg := range tx.Args {
		buf.Write(clarity.Serialize(arg))
	}
	return buf.Bytes(), nil
}

func writeLengthPrefixed(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

// Builder constructs add-record transactions against a fixed contract.
type Builder struct {
	contractAddress string
	contractName    string
	network         string
}

// NewBuilder returns a Builder targeting the given contract.
func NewBuilder(contractAddress, contractName, network string) *Builder {
	return &Builder{
		contractAddress: contractAddress,
		contractName:    contractName,
		network:         network,
	}
}

// BuildAddRecordTx validates the add-record inputs and produces the
// transaction payload. It is deterministic and side-effect free: equal
// inputs always yield structurally identical transactions, and invalid
// inputs fail here, before any network activity.
func (b *Builder) BuildAddRecordTx(subject models.Principal, course, grade string, year int, institution string) (*UnsignedTransaction, error) {
	subjectCV, err := clarity.Principal(subject.String())
	if err != nil {
		return nil, &ValidationError{Field: "subject", Err: ErrBadSubject}
	}
	courseCV, err := boundedString("course", course)
	if err != nil {
		return nil, err
	}
	gradeCV, err := boundedString("grade", grade)
	if err != nil {
		return nil, err
	}
	if maxYear := time.Now().Year() + 1; year < MinYear || year > maxYear {
		return nil, &ValidationError{Field: "year", Err: ErrYearOutOfRange}
	}
	institutionCV, err := boundedString("institution", institution)
	if err != nil {
		return nil, err
	}

	return &UnsignedTransaction{
		ContractAddress: b.contractAddress,
		ContractName:    b.contractName,
		FunctionName:    FunctionAddRecord,
		Args: []clarity.Value{
			subjectCV,
			courseCV,
			gradeCV,
			clarity.Uint(uint64(year)),
			institutionCV,
		},
		Network:           b.network,
		AnchorMode:        AnchorAny,
		PostConditionMode: PostConditionAllow,
	}, nil
}

// boundedString validates a required bounded ASCII field.
func boundedString(field, s string) (clarity.Value, error) {
	if s == "" {
		return nil, &ValidationError{Field: field, Err: ErrEmptyField}
	}
	v, err := clarity.StringASCII(s)
	if err != nil {
		if errors.Is(err, clarity.ErrStringTooLong) {
			return nil, &ValidationError{Field: field, Err: ErrFieldTooLong}
		}
		return nil, &ValidationError{Field: field, Err: err}
	}
	return v, nil
}
