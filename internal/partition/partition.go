package partition

import (
	"crypto/md5"
	"fmt"
	"math/big"
)

// Token is a position on the cluster's circular token space.
//
// Tokens are immutable values with a total order. The "wrap" from the maximum
// token back to the minimum is a property of ranges over the space, not of
// individual tokens, so Token itself only knows how to compare and print.
type Token struct {
	v *big.Int
}

// NewToken wraps an arbitrary-precision integer as a Token.
// The integer is copied so later mutation of v cannot change the token.
func NewToken(v *big.Int) Token {
	return Token{v: new(big.Int).Set(v)}
}

// Cmp compares two tokens, returning -1 if t sorts before o, 0 if they occupy
// the same position, and +1 if t sorts after o.
func (t Token) Cmp(o Token) int {
	return t.v.Cmp(o.v)
}

// Equal reports whether two tokens occupy the same ring position.
func (t Token) Equal(o Token) bool {
	return t.Cmp(o) == 0
}

// String returns the decimal form of the token. This is the same external
// string form accepted by Partitioner.ParseToken.
func (t Token) String() string {
	return t.v.String()
}

// Partitioner is the injected capability that places keys on the ring.
//
// Implementations must be safe for concurrent use: the topology cache calls
// Token from many lookup goroutines at once.
type Partitioner interface {
	// Token maps raw key bytes to a position on the ring.
	Token(key []byte) Token

	// ParseToken parses the external string form of a token, as supplied by
	// a topology source in its range descriptors.
	ParseToken(s string) (Token, error)
}

// RandomPartitioner hashes keys with MD5 and interprets the digest as an
// unsigned 128-bit integer, giving a ring space of [0, 2^128). It is the
// default concrete partitioner; nothing in the cache assumes it.
type RandomPartitioner struct{}

// NewRandomPartitioner returns a RandomPartitioner. The type is stateless, so
// a single value can be shared freely.
func NewRandomPartitioner() RandomPartitioner {
	return RandomPartitioner{}
}

// Token hashes key and returns its ring position.
func (RandomPartitioner) Token(key []byte) Token {
	sum := md5.Sum(key)
	return Token{v: new(big.Int).SetBytes(sum[:])}
}

// ParseToken parses the decimal form of a token. Negative and malformed
// forms are rejected: the ring space has no positions below zero.
func (RandomPartitioner) ParseToken(s string) (Token, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Token{}, fmt.Errorf("malformed token %q", s)
	}
	if v.Sign() < 0 {
		return Token{}, fmt.Errorf("negative token %q", s)
	}
	return Token{v: v}, nil
}
