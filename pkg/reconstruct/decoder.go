// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package reconstruct

import (
	"fmt"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/types"
)

// Decoder maps opened engine values back to real numbers.
type Decoder struct {
	Modulus *codec.Modulus
	Scale   int64
}

// NewDecoder returns a decoder for the modulus and scale the values were encoded with.
func NewDecoder(m *codec.Modulus, scale int64) (*Decoder, error) {
	if m == nil {
		return nil, fmt.Errorf("missing modulus")
	}
	if err := codec.ValidateScale(scale); err != nil {
		return nil, err
	}
	return &Decoder{Modulus: m, Scale: scale}, nil
}

// Signed returns v as a signed integer. v may be given in [0, m) or already signed.
func (d *Decoder) Signed(v *big.Int) *big.Int {
	return d.Modulus.ToSigned(d.Modulus.Reduce(v))
}

// Decode returns the real number encoded by v.
func (d *Decoder) Decode(v *big.Int) float64 {
	return codec.Decode(d.Signed(v), d.Scale)
}

// DecodeAll decodes every value of vs.
func (d *Decoder) DecodeAll(vs []*big.Int) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = d.Decode(v)
	}
	return out
}

// DecodeLabel returns the unscaled label encoded by v.
func (d *Decoder) DecodeLabel(v *big.Int) (int, error) {
	s := d.Signed(v)
	if !s.IsInt64() {
		return 0, &types.DataFormatError{Row: types.Unknown, Column: types.Unknown, Reason: fmt.Sprintf("label %s out of range", s)}
	}
	return int(s.Int64()), nil
}

// Classify thresholds a decoded score at zero.
func Classify(x float64) int {
	if x > 0 {
		return 1
	}
	return 0
}

// ClassifyAll thresholds every score of xs.
func ClassifyAll(xs []float64) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = Classify(x)
	}
	return out
}

// Accuracy returns the number and the fraction of predictions that equal their label.
func Accuracy(predicted, labels []int) (int, float64, error) {
	if len(predicted) != len(labels) {
		return 0, 0, &types.DimensionMismatchError{What: "predictions and labels", Expected: len(labels), Actual: len(predicted)}
	}
	if len(labels) == 0 {
		return 0, 0, fmt.Errorf("no labels to compare against")
	}
	correct := 0
	for i := range labels {
		if predicted[i] == labels[i] {
			correct++
		}
	}
	return correct, float64(correct) / float64(len(labels)), nil
}
