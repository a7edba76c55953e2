// Package clarity implements the typed argument values used by the
// records contract, their binary wire encoding, and the c32check
// address format used for principals.
package clarity

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// c32Alphabet is the Crockford-style alphabet used by c32 encoding.
// It omits I, L, O and U.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address version bytes for single-signature accounts.
const (
	// VersionMainnet is the mainnet address version (c32 digit 'P').
	VersionMainnet byte = 22
	// VersionTestnet is the testnet address version (c32 digit 'T').
	VersionTestnet byte = 26
)

// Hash160Size is the size in bytes of the account key hash carried in
// an address.
const Hash160Size = 20

// addressBodyLen is the c32 length of hash160 plus the 4-byte checksum.
const addressBodyLen = 39

// ErrBadAddress is returned when an address string is not well formed.
var ErrBadAddress = errors.New("clarity: malformed address")

var c32Values = func() map[byte]int {
	m := make(map[byte]int, len(c32Alphabet))
	for i := 0; i < len(c32Alphabet); i++ {
		m[c32Alphabet[i]] = i
	}
	return m
}()

// addressChecksum returns the 4-byte double-sha256 checksum over the
// version byte followed by the key hash.
func addressChecksum(version byte, hash160 []byte) []byte {
	payload := make([]byte, 0, 1+len(hash160))
	payload = append(payload, version)
	payload = append(payload, hash160...)
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// c32Encode encodes data as a c32 string of exactly width characters,
// left-padded with '0'.
func c32Encode(data []byte, width int) string {
	n := new(big.Int).SetBytes(data)
	base := big.NewInt(int64(len(c32Alphabet)))
	digit := new(big.Int)

	out := make([]byte, 0, width)
	for n.Sign() > 0 {
		n.DivMod(n, base, digit)
		out = append(out, c32Alphabet[digit.Int64()])
	}
	for len(out) < width {
		out = append(out, '0')
	}
	// digits were produced least-significant first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// c32Decode decodes a c32 string into a byte slice of exactly width
// bytes, left-padded with zeros. Lowercase input and the homoglyphs
// O, L and I are normalized first.
func c32Decode(s string, width int) ([]byte, error) {
	s = strings.ToUpper(s)
	s = strings.NewReplacer("O", "0", "L", "1", "I", "1").Replace(s)

	n := new(big.Int)
	base := big.NewInt(int64(len(c32Alphabet)))
	for i := 0; i < len(s); i++ {
		v, ok := c32Values[s[i]]
		if !ok {
			return nil, fmt.Errorf("%w: invalid character %q", ErrBadAddress, s[i])
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(v)))
	}

	raw := n.Bytes()
	if len(raw) > width {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrBadAddress, width)
	}
	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out, nil
}

// EncodeAddress renders a version byte and 20-byte key hash as a
// c32check address ("S" + version digit + c32(hash160 || checksum)).
func EncodeAddress(version byte, hash160 []byte) (string, error) {
	if len(hash160) != Hash160Size {
		return "", fmt.Errorf("%w: key hash must be %d bytes", ErrBadAddress, Hash160Size)
	}
	if int(version) >= len(c32Alphabet) {
		return "", fmt.Errorf("%w: version %d out of range", ErrBadAddress, version)
	}
	body := make([]byte, 0, Hash160Size+4)
	body = append(body, hash160...)
	body = append(body, addressChecksum(version, hash160)...)
	return "S" + string(c32Alphabet[version]) + c32Encode(body, addressBodyLen), nil
}

// DecodeAddress parses a c32check address into its version byte and
// 20-byte key hash. The checksum characters are carried by the address
// but not enforced here: directory entries and subjects from external
// systems are accepted on format alone, and the ledger node rejects
// addresses it does not recognize.
func DecodeAddress(addr string) (byte, []byte, error) {
	if len(addr) < 3 || len(addr) > 2+addressBodyLen {
		return 0, nil, fmt.Errorf("%w: bad length %d", ErrBadAddress, len(addr))
	}
	upper := strings.ToUpper(addr)
	if upper[0] != 'S' {
		return 0, nil, fmt.Errorf("%w: missing S prefix", ErrBadAddress)
	}
	version, ok := c32Values[upper[1]]
	if !ok {
		return 0, nil, fmt.Errorf("%w: invalid version character %q", ErrBadAddress, upper[1])
	}
	body, err := c32Decode(upper[2:], Hash160Size+4)
	if err != nil {
		return 0, nil, err
	}
	return byte(version), body[:Hash160Size], nil
}
