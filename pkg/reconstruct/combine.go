// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package reconstruct

import (
	"fmt"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
)

// Combine sums the party matrices cell by cell modulo m. All matrices must agree on their row count and on the
// column count of every row. Nothing is returned on disagreement.
func Combine(m *codec.Modulus, parts ...spdzio.Matrix) (spdzio.Matrix, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to combine")
	}
	first := parts[0]
	for i, part := range parts[1:] {
		if part.Rows() != first.Rows() {
			return nil, &types.DimensionMismatchError{What: fmt.Sprintf("rows of party %d", i+1), Expected: first.Rows(), Actual: part.Rows()}
		}
		for r := range part {
			if len(part[r]) != len(first[r]) {
				return nil, &types.DimensionMismatchError{What: fmt.Sprintf("columns of party %d row %d", i+1, r),
					Expected: len(first[r]), Actual: len(part[r])}
			}
		}
	}
	out := make(spdzio.Matrix, first.Rows())
	for r := range out {
		out[r] = make([]*big.Int, len(first[r]))
		for c := range out[r] {
			sum := new(big.Int)
			for _, part := range parts {
				sum.Add(sum, part[r][c])
			}
			out[r][c] = m.Reduce(sum)
		}
	}
	return out, nil
}
