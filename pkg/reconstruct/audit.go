// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package reconstruct

import (
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/sharing"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"go.uber.org/zap"
)

// Mismatch locates a cell whose opened tag does not match value times alpha.
type Mismatch struct {
	Row    int
	Column int
}

// Auditor checks the MAC tags of a trusted dealer session.
type Auditor struct {
	logger  *zap.SugaredLogger
	fio     utils.FileIO
	layout  *spdzio.Layout
	modulus *codec.Modulus
	parties int
}

// NewAuditor returns an auditor for the Player-Data directory dir.
func NewAuditor(logger *zap.SugaredLogger, m *codec.Modulus, parties int, dir string, fio utils.FileIO) *Auditor {
	return &Auditor{
		logger:  logger,
		fio:     fio,
		layout:  spdzio.NewLayout(dir),
		modulus: m,
		parties: parties,
	}
}

// Audit opens values, tags and the key of split and returns every cell that fails verification. An empty result
// means no share or tag was altered after generation, as far as the MAC can tell.
func (a *Auditor) Audit(split int) ([]Mismatch, error) {
	keyShares := make([]*big.Int, a.parties)
	shares := make([]spdzio.Matrix, a.parties)
	tags := make([]spdzio.Matrix, a.parties)
	for p := 0; p < a.parties; p++ {
		var err error
		if keyShares[p], err = spdzio.ReadScalar(a.fio, "key share", a.layout.Key(p)); err != nil {
			return nil, err
		}
		if shares[p], err = spdzio.ReadMatrix(a.fio, "share file", a.layout.Input(p, split)); err != nil {
			return nil, err
		}
		if tags[p], err = spdzio.ReadMatrix(a.fio, "MAC file", a.layout.MAC(p, split)); err != nil {
			return nil, err
		}
	}
	key, err := sharing.RestoreMACKey(a.modulus, keyShares)
	if err != nil {
		return nil, err
	}
	values, err := Combine(a.modulus, shares...)
	if err != nil {
		return nil, err
	}
	macs, err := Combine(a.modulus, tags...)
	if err != nil {
		return nil, err
	}
	if macs.Rows() != values.Rows() {
		return nil, &types.DimensionMismatchError{What: "rows of MAC files", Path: a.layout.MAC(0, split),
			Expected: values.Rows(), Actual: macs.Rows()}
	}
	var mismatches []Mismatch
	for r := range values {
		if len(macs[r]) != len(values[r]) {
			return nil, &types.DimensionMismatchError{What: "columns of MAC files", Path: a.layout.MAC(0, split),
				Expected: len(values[r]), Actual: len(macs[r])}
		}
		for c := range values[r] {
			if !sharing.Verify(a.modulus, values[r][c], key.Alpha, macs[r][c]) {
				mismatches = append(mismatches, Mismatch{Row: r, Column: c})
			}
		}
	}
	a.logger.Infow("Audited MAC tags", types.Split, split, "rows", values.Rows(), "mismatches", len(mismatches))
	return mismatches, nil
}
