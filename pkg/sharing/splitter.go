//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package sharing

import (
	"fmt"
	"io"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
)

// Splitter splits encoded values into additive shares.
type Splitter struct {
	modulus *codec.Modulus
	parties int
	rand    io.Reader
}

// NewSplitter returns a splitter producing one share per party. rand must be a cryptographically secure source, see
// NewRandomSource.
func NewSplitter(m *codec.Modulus, parties int, rand io.Reader) (*Splitter, error) {
	if m == nil {
		return nil, fmt.Errorf("missing modulus")
	}
	if parties < 2 {
		return nil, fmt.Errorf("at least two parties are required, got %d", parties)
	}
	if rand == nil {
		return nil, fmt.Errorf("missing randomness source")
	}
	return &Splitter{
		modulus: m,
		parties: parties,
		rand:    rand,
	}, nil
}

// Parties returns the number of shares per value.
func (s *Splitter) Parties() int {
	return s.parties
}

// Modulus returns the modulus shares are drawn from.
func (s *Splitter) Modulus() *codec.Modulus {
	return s.modulus
}

// Split draws parties-1 uniform shares in [0, m) and sets the last one to the residual, so that the shares sum to v
// modulo m.
func (s *Splitter) Split(v *big.Int) ([]*big.Int, error) {
	shares := make([]*big.Int, s.parties)
	sum := new(big.Int)
	for i := 0; i < s.parties-1; i++ {
		r, err := s.modulus.Random(s.rand)
		if err != nil {
			return nil, err
		}
		shares[i] = r
		sum.Add(sum, r)
	}
	shares[s.parties-1] = s.modulus.Sub(v, sum)
	return shares, nil
}

// Reconstruct returns the sum of the shares modulo m.
func Reconstruct(m *codec.Modulus, shares []*big.Int) *big.Int {
	sum := new(big.Int)
	for _, sh := range shares {
		sum.Add(sum, sh)
	}
	return m.Reduce(sum)
}
