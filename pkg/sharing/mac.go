//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package sharing

import (
	"fmt"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
)

// MACKey is the global key alpha of a trusted dealer together with its additive split into one key share per party.
//
// The dealer sees every plaintext value and the whole key. This is a weaker trust model than distributed share
// generation: the tags only detect tampering that happens after the dealer handed out the shares.
type MACKey struct {
	Alpha  *big.Int
	Shares []*big.Int
}

// NewMACKey draws a fresh alpha and splits it among the splitter's parties. A key belongs to a single sharing session.
func NewMACKey(s *Splitter) (*MACKey, error) {
	alpha, err := s.modulus.Random(s.rand)
	if err != nil {
		return nil, err
	}
	shares, err := s.Split(alpha)
	if err != nil {
		return nil, err
	}
	return &MACKey{Alpha: alpha, Shares: shares}, nil
}

// RestoreMACKey rebuilds a key from the persisted key shares.
func RestoreMACKey(m *codec.Modulus, shares []*big.Int) (*MACKey, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("at least two key shares are required, got %d", len(shares))
	}
	return &MACKey{Alpha: Reconstruct(m, shares), Shares: shares}, nil
}

// Tag returns one tag share per party. The tag shares sum to v*alpha modulo m, which is what Verify checks after
// reconstruction.
func (k *MACKey) Tag(s *Splitter, v *big.Int) ([]*big.Int, error) {
	if len(k.Shares) != s.parties {
		return nil, fmt.Errorf("key has %d shares but the splitter serves %d parties", len(k.Shares), s.parties)
	}
	return s.Split(s.modulus.Mul(v, k.Alpha))
}

// Verify checks t == v*alpha mod m. A mismatch means that at least one share or tag was altered after generation; it
// does not tell which party altered it.
func Verify(m *codec.Modulus, v, alpha, t *big.Int) bool {
	return m.Mul(v, alpha).Cmp(m.Reduce(t)) == 0
}
