//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package codec

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind distinguishes power-of-two rings from prime fields.
type Kind int

const (
	// Ring is Z_{2^k} with two's complement sign interpretation.
	Ring Kind = iota
	// Field is GF(p) for an odd prime p with symmetric sign interpretation.
	Field
)

// DefaultRingBits matches the native word width of the engine's ring protocols.
const DefaultRingBits = 64

// Mersenne61 is the 2^61-1 prime used by the trusted dealer.
var Mersenne61 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))

var powerExpr = regexp.MustCompile(`^2\s*(\^|\*\*)\s*(\d+)\s*(([+-])\s*(\d+))?$`)

// Modulus is the ring or field all encoded values and shares live in.
type Modulus struct {
	kind Kind
	m    *big.Int
	half *big.Int
	bits int
}

// NewRing returns the ring Z_{2^bits}.
func NewRing(bits int) (*Modulus, error) {
	if bits < 2 {
		return nil, fmt.Errorf("ring width must be at least 2 bits, got %d", bits)
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return &Modulus{
		kind: Ring,
		m:    m,
		half: new(big.Int).Rsh(m, 1),
		bits: bits,
	}, nil
}

// NewField returns GF(p). p must be an odd prime.
func NewField(p *big.Int) (*Modulus, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 {
		return nil, errors.New("field modulus must be an odd prime greater than 2")
	}
	if p.Bit(0) == 0 || !p.ProbablyPrime(20) {
		return nil, fmt.Errorf("field modulus %s is not an odd prime", p)
	}
	m := new(big.Int).Set(p)
	return &Modulus{
		kind: Field,
		m:    m,
		half: new(big.Int).Rsh(m, 1),
		bits: m.BitLen(),
	}, nil
}

// ParseModulus parses "2^64", "2**64", "2^61-1" or a decimal integer. Powers of two yield a ring, everything else a
// prime field.
func ParseModulus(s string) (*Modulus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty modulus")
	}
	var m *big.Int
	if match := powerExpr.FindStringSubmatch(s); match != nil {
		exp, err := strconv.Atoi(match[2])
		if err != nil || exp > 4096 {
			return nil, fmt.Errorf("invalid modulus exponent in %q", s)
		}
		m = new(big.Int).Lsh(big.NewInt(1), uint(exp))
		if match[3] != "" {
			c, ok := new(big.Int).SetString(match[5], 10)
			if !ok {
				return nil, fmt.Errorf("invalid modulus offset in %q", s)
			}
			if match[4] == "-" {
				m.Sub(m, c)
			} else {
				m.Add(m, c)
			}
		}
	} else {
		var ok bool
		m, ok = new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("wrong modulus format: %q", s)
		}
	}
	if m.Sign() > 0 && isPowerOfTwo(m) {
		return NewRing(m.BitLen() - 1)
	}
	return NewField(m)
}

func isPowerOfTwo(x *big.Int) bool {
	return x.Sign() > 0 && new(big.Int).And(x, new(big.Int).Sub(x, big.NewInt(1))).Sign() == 0
}

// Kind returns whether this is a ring or a field.
func (m *Modulus) Kind() Kind { return m.kind }

// IsRing is true for power-of-two moduli.
func (m *Modulus) IsRing() bool { return m.kind == Ring }

// Bits returns the ring width, or the bit length of the prime.
func (m *Modulus) Bits() int { return m.bits }

// Int returns a copy of the modulus value.
func (m *Modulus) Int() *big.Int { return new(big.Int).Set(m.m) }

// Half returns the largest magnitude a signed value can have without aliasing.
func (m *Modulus) Half() *big.Int { return new(big.Int).Set(m.half) }

func (m *Modulus) String() string {
	if m.kind == Ring {
		return fmt.Sprintf("Z_2^%d", m.bits)
	}
	return fmt.Sprintf("GF(%s)", m.m)
}

// Reduce maps x into [0, m).
func (m *Modulus) Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, m.m)
}

// FromSigned maps a signed integer, e.g. a two's complement engine output, back into [0, m).
func (m *Modulus) FromSigned(x *big.Int) *big.Int {
	return m.Reduce(x)
}

// ToSigned undoes modular wraparound for a value in [0, m). Rings use two's complement (x >= 2^(k-1) is negative),
// fields symmetric residues (x > floor(p/2) is negative). Values already below the threshold, including negative
// ones, are returned unchanged, so applying ToSigned twice is safe.
func (m *Modulus) ToSigned(x *big.Int) *big.Int {
	r := new(big.Int).Set(x)
	c := r.Cmp(m.half)
	if (m.kind == Ring && c >= 0) || (m.kind == Field && c > 0) {
		r.Sub(r, m.m)
	}
	return r
}

// Add returns (a + b) mod m.
func (m *Modulus) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, m.m)
}

// Sub returns (a - b) mod m.
func (m *Modulus) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, m.m)
}

// Mul returns (a * b) mod m.
func (m *Modulus) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m.m)
}

// Random draws a uniform element of [0, m) from r.
func (m *Modulus) Random(r io.Reader) (*big.Int, error) {
	v, err := rand.Int(r, m.m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw random element")
	}
	return v, nil
}

// Format renders x the way the engine reads it: signed two's complement for rings, [0, p) for fields.
func (m *Modulus) Format(x *big.Int) string {
	r := m.Reduce(x)
	if m.kind == Ring {
		return m.ToSigned(r).String()
	}
	return r.String()
}

// Parse reads a decimal integer as written by Format (or by the engine) and reduces it.
func (m *Modulus) Parse(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return m.Reduce(v), nil
}
