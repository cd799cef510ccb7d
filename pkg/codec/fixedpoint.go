//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package codec

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/types"
)

// DefaultScale is the fixed-point scaling factor 2^16.
const DefaultScale = int64(1) << 16

// precision of the intermediate product; wide enough to hold a float64 mantissa times any int64 scale exactly.
const precision = 256

var scaleExpr = regexp.MustCompile(`^2\s*(\^|\*\*)\s*(\d+)$`)

// ParseScale parses a positive scale given as a decimal integer or as "2^f" / "2**f".
func ParseScale(s string) (int64, error) {
	s = strings.TrimSpace(s)
	var scale int64
	if match := scaleExpr.FindStringSubmatch(s); match != nil {
		exp, err := strconv.Atoi(match[2])
		if err != nil || exp > 62 {
			return 0, fmt.Errorf("scale exponent out of range in %q", s)
		}
		scale = int64(1) << uint(exp)
	} else {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("wrong scale format: %q", s)
		}
		scale = v
	}
	return scale, ValidateScale(scale)
}

// ValidateScale rejects non-positive scales.
func ValidateScale(scale int64) error {
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", scale)
	}
	return nil
}

// Encode returns round(x * scale). The product is computed exactly and rounded half away from zero, the same rule as
// math.Round. The result is not reduced.
func Encode(x float64, scale int64) (*big.Int, error) {
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, &types.DataFormatError{Row: types.Unknown, Column: types.Unknown, Reason: fmt.Sprintf("value %v is not finite", x)}
	}
	f := new(big.Float).SetPrec(precision).SetFloat64(x)
	f.Mul(f, new(big.Float).SetPrec(precision).SetInt64(scale))
	half := new(big.Float).SetPrec(precision).SetFloat64(0.5)
	if f.Sign() < 0 {
		f.Sub(f, half)
	} else {
		f.Add(f, half)
	}
	v, _ := f.Int(nil)
	return v, nil
}

// EncodeLabel returns the plain integer form of a label. Non-integral labels are a caller error.
func EncodeLabel(x float64) (*big.Int, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, &types.DataFormatError{Row: types.Unknown, Column: types.Unknown, Reason: fmt.Sprintf("label %v is not finite", x)}
	}
	if x != math.Trunc(x) {
		return nil, &types.DataFormatError{Row: types.Unknown, Column: types.Unknown, Reason: fmt.Sprintf("label %v is not integral", x)}
	}
	v, _ := new(big.Float).SetFloat64(x).Int(nil)
	return v, nil
}

// Decode returns v / scale.
func Decode(v *big.Int, scale int64) float64 {
	f := new(big.Float).SetPrec(precision).SetInt(v)
	f.Quo(f, new(big.Float).SetPrec(precision).SetInt64(scale))
	r, _ := f.Float64()
	return r
}

// Encoder encodes dataset cells into the modulus domain.
type Encoder struct {
	Modulus *Modulus
	Scale   int64
	// Strict turns aliasing overflow warnings into errors.
	Strict bool
}

// NewEncoder returns an encoder for the given modulus and scale.
func NewEncoder(m *Modulus, scale int64, strict bool) (*Encoder, error) {
	if m == nil {
		return nil, fmt.Errorf("missing modulus")
	}
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	return &Encoder{Modulus: m, Scale: scale, Strict: strict}, nil
}

// EncodeFeature returns round(x * scale) reduced into [0, m). The warning is set, alongside a valid value, when the
// magnitude of the encoding approaches or exceeds half the modulus. Large magnitudes combined with large scales can
// alias to a different value after reduction.
func (e *Encoder) EncodeFeature(x float64) (*big.Int, *types.OverflowRiskWarning, error) {
	v, err := Encode(x, e.Scale)
	if err != nil {
		return nil, nil, err
	}
	return e.reduce(v)
}

// EncodeLabel returns the unscaled label reduced into [0, m).
func (e *Encoder) EncodeLabel(x float64) (*big.Int, *types.OverflowRiskWarning, error) {
	v, err := EncodeLabel(x)
	if err != nil {
		return nil, nil, err
	}
	return e.reduce(v)
}

func (e *Encoder) reduce(v *big.Int) (*big.Int, *types.OverflowRiskWarning, error) {
	w := e.checkOverflow(v)
	if w != nil && w.Aliased && e.Strict {
		return nil, nil, w
	}
	return e.Modulus.Reduce(v), w, nil
}

// checkOverflow warns when |v| exceeds a quarter of the modulus and flags aliasing above half of it.
func (e *Encoder) checkOverflow(v *big.Int) *types.OverflowRiskWarning {
	abs := new(big.Int).Abs(v)
	bound := e.Modulus.Half()
	if abs.Cmp(new(big.Int).Rsh(bound, 1)) <= 0 {
		return nil
	}
	aliased := abs.Cmp(bound) > 0
	if e.Modulus.IsRing() && v.Sign() > 0 {
		// 2^(k-1) reads back as -2^(k-1) in two's complement.
		aliased = abs.Cmp(bound) >= 0
	}
	return &types.OverflowRiskWarning{
		Row:     types.Unknown,
		Column:  types.Unknown,
		Value:   new(big.Int).Set(v),
		Bound:   bound,
		Aliased: aliased,
	}
}
