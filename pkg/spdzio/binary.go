// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio

import (
	"fmt"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/utils"
)

// ErrInvalidWordSize is returned when a binary output is not a whole number of words.
const ErrInvalidWordSize = "binary output size must be a multiple of the word size"

// OutputConverter turns a raw binary engine output into integers in [0, m).
type OutputConverter interface {
	Convert(in []byte) ([]*big.Int, error)
}

// NewOutputConverter returns the converter matching the engine's binary output for the modulus. Ring outputs are
// little endian words of Bits()/8 bytes. Field outputs are 16 byte little endian Montgomery words, rInv being the
// inverse of the Montgomery radix modulo p.
func NewOutputConverter(mod *codec.Modulus, rInv *big.Int) (OutputConverter, error) {
	if mod.IsRing() {
		if mod.Bits()%8 != 0 {
			return nil, fmt.Errorf("no binary output format for %s", mod)
		}
		return &RingConverter{Modulus: mod}, nil
	}
	if rInv == nil {
		return nil, fmt.Errorf("binary field output requires the Montgomery inverse for %s", mod)
	}
	return &MontgomeryConverter{Modulus: mod, RInv: rInv}, nil
}

// RingConverter reads little endian ring elements.
type RingConverter struct {
	Modulus *codec.Modulus
}

// Convert splits in into words and reduces each.
func (c *RingConverter) Convert(in []byte) ([]*big.Int, error) {
	return convertWords(in, c.Modulus.Bits()/8, func(v *big.Int) *big.Int {
		return c.Modulus.Reduce(v)
	})
}

// MontgomeryWordSize is the width of a field element in the engine's binary output.
const MontgomeryWordSize = 16

// MontgomeryConverter reads field elements stored in Montgomery representation.
type MontgomeryConverter struct {
	Modulus *codec.Modulus
	RInv    *big.Int
}

// Convert returns x * R^-1 mod p for every word x of in.
func (c *MontgomeryConverter) Convert(in []byte) ([]*big.Int, error) {
	return convertWords(in, MontgomeryWordSize, func(v *big.Int) *big.Int {
		return c.Modulus.Mul(v, c.RInv)
	})
}

func convertWords(in []byte, size int, f func(*big.Int) *big.Int) ([]*big.Int, error) {
	if len(in)%size != 0 {
		return nil, fmt.Errorf(ErrInvalidWordSize+": received %d, word size %d", len(in), size)
	}
	out := make([]*big.Int, 0, len(in)/size)
	for begin := 0; begin < len(in); begin += size {
		out = append(out, f(new(big.Int).SetBytes(littleToBigEndian(in[begin:begin+size]))))
	}
	return out, nil
}

// littleToBigEndian returns a reversed copy of in.
func littleToBigEndian(in []byte) []byte {
	out := make([]byte, len(in))
	for i, j := 0, len(in)-1; i < len(in); i, j = i+1, j-1 {
		out[i] = in[j]
	}
	return out
}

// ReadBinary converts the binary output at path into a single-column matrix.
func ReadBinary(fio utils.FileIO, conv OutputConverter, what, path string) (Matrix, error) {
	data, err := readAll(fio, what, path)
	if err != nil {
		return nil, err
	}
	values, err := conv.Convert(data)
	if err != nil {
		return nil, err
	}
	m := make(Matrix, len(values))
	for i, v := range values {
		m[i] = []*big.Int{v}
	}
	return m, nil
}
