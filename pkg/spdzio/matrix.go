// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio

import (
	"bufio"
	"bytes"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/pkg/errors"
)

// Matrix is a row-major table of integers, one row per sample.
type Matrix [][]*big.Int

// NewMatrix returns a rows x cols matrix of nil cells.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]*big.Int, cols)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the column count of the first row, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Column returns a copy of column col.
func (m Matrix) Column(col int) []*big.Int {
	out := make([]*big.Int, len(m))
	for i, row := range m {
		out[i] = row[col]
	}
	return out
}

// Flatten returns all cells in row-major order.
func (m Matrix) Flatten() []*big.Int {
	var out []*big.Int
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

// Marshal renders the matrix as whitespace-separated integers, one line per row, values formatted for the modulus.
// Zero-column rows become empty lines so the row count is preserved.
func Marshal(mod *codec.Modulus, m Matrix) []byte {
	var buf bytes.Buffer
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(mod.Format(v))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Unmarshal parses a matrix. Values are kept as written, i.e. signed for ring outputs. Every row must have the same
// number of columns.
func Unmarshal(path string, data []byte) (Matrix, error) {
	var m Matrix
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for row := 0; scanner.Scan(); row++ {
		fields := strings.Fields(scanner.Text())
		if row > 0 && len(fields) != len(m[0]) {
			return nil, &types.DimensionMismatchError{
				What:     fmt.Sprintf("columns of row %d", row),
				Path:     path,
				Expected: len(m[0]),
				Actual:   len(fields),
			}
		}
		values := make([]*big.Int, len(fields))
		for col, f := range fields {
			v, ok := new(big.Int).SetString(f, 10)
			if !ok {
				return nil, &types.DataFormatError{Path: path, Row: row, Column: col, Reason: fmt.Sprintf("not an integer: %q", f)}
			}
			values[col] = v
		}
		m = append(m, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", path)
	}
	return m, nil
}

// WriteMatrix atomically writes m to path.
func WriteMatrix(fio utils.FileIO, path string, mod *codec.Modulus, m Matrix) error {
	if err := fio.WriteAtomic(path, Marshal(mod, m)); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// ReadMatrix reads the matrix at path. what names the file in a NotFoundError.
func ReadMatrix(fio utils.FileIO, what, path string) (Matrix, error) {
	data, err := readAll(fio, what, path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(path, data)
}

func readAll(fio utils.FileIO, what, path string) ([]byte, error) {
	data, err := fio.ReadAll(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.NotFoundError{What: what, Path: path, Err: err}
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// WriteScalar atomically writes a single value, e.g. a MAC key share.
func WriteScalar(fio utils.FileIO, path string, mod *codec.Modulus, v *big.Int) error {
	return WriteMatrix(fio, path, mod, Matrix{{v}})
}

// ReadScalar reads a file holding exactly one value.
func ReadScalar(fio utils.FileIO, what, path string) (*big.Int, error) {
	m, err := ReadMatrix(fio, what, path)
	if err != nil {
		return nil, err
	}
	if m.Rows() != 1 || m.Cols() != 1 {
		return nil, &types.DataFormatError{Path: path, Row: types.Unknown, Column: types.Unknown,
			Reason: fmt.Sprintf("expected a single value, found %d row(s)", m.Rows())}
	}
	return m[0][0], nil
}

// Dimensions returns the number of rows and the number of columns of the first row of the file at path.
func Dimensions(fio utils.FileIO, path string) (int, int, error) {
	m, err := ReadMatrix(fio, "share file", path)
	if err != nil {
		return 0, 0, err
	}
	return m.Rows(), m.Cols(), nil
}
