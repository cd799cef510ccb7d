// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package types

import (
	"fmt"
	"math/big"
)

// Unknown marks a row or column index that is not known where the error is raised.
const Unknown = -1

// DataFormatError is returned for non-numeric, non-finite or ragged input.
type DataFormatError struct {
	Path   string
	Row    int
	Column int
	Reason string
}

func (e *DataFormatError) Error() string {
	loc := e.Path
	if e.Row != Unknown {
		loc = fmt.Sprintf("%s row %d", loc, e.Row)
	}
	if e.Column != Unknown {
		loc = fmt.Sprintf("%s column %d", loc, e.Column)
	}
	if loc == "" {
		return "data format error: " + e.Reason
	}
	return fmt.Sprintf("data format error at %s: %s", loc, e.Reason)
}

// NotFoundError is returned when a dataset, result, key or metadata file does not exist.
type NotFoundError struct {
	What string
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError is returned when party files disagree on their row or column count.
type DimensionMismatchError struct {
	What     string
	Path     string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dimension mismatch: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
	}
	return fmt.Sprintf("dimension mismatch: %s in %s: expected %d, got %d", e.What, e.Path, e.Expected, e.Actual)
}

// MalformedMetadataError is returned when the metadata record lacks required lines or holds non-integer values.
type MalformedMetadataError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *MalformedMetadataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed metadata %s line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed metadata %s: %s", e.Path, e.Reason)
}

func (e *MalformedMetadataError) Unwrap() error {
	return e.Err
}

// OverflowRiskWarning reports an encoded value whose magnitude approaches or exceeds the signed range of the modulus.
// If Aliased is set, the value no longer survives the round trip and decodes to a different number.
type OverflowRiskWarning struct {
	Row     int
	Column  int
	Value   *big.Int
	Bound   *big.Int
	Aliased bool
}

func (w *OverflowRiskWarning) Error() string {
	state := "approaches"
	if w.Aliased {
		state = "exceeds"
	}
	return fmt.Sprintf("overflow risk at row %d column %d: |%s| %s the signed bound %s", w.Row, w.Column, w.Value, state, w.Bound)
}
