// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/pkg/errors"
)

// DefaultTestSize is the fraction of rows held out for the test split.
const DefaultTestSize = 0.2

// Dataset is a rectangular table of finite numbers. The last column is the label, all others are features.
type Dataset struct {
	Path string
	Rows [][]float64

	cols int
}

// Load reads a header-less CSV file.
func Load(fio utils.FileIO, path string) (*Dataset, error) {
	data, err := fio.ReadAll(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.NotFoundError{What: "dataset", Path: path, Err: err}
		}
		return nil, errors.Wrapf(err, "failed to read dataset %s", path)
	}
	return Parse(path, bytes.NewReader(data))
}

// Parse reads header-less CSV records from r. Every row must have the same number of cells, at least two, and every
// cell must be a finite number.
func Parse(path string, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	ds := &Dataset{Path: path}
	cols := 0
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.DataFormatError{Path: path, Row: row, Column: types.Unknown, Reason: err.Error()}
		}
		if row == 0 {
			cols = len(record)
			if cols < 2 {
				return nil, &types.DataFormatError{Path: path, Row: row, Column: types.Unknown,
					Reason: fmt.Sprintf("need at least one feature and a label, found %d column(s)", cols)}
			}
		}
		if len(record) != cols {
			return nil, &types.DataFormatError{Path: path, Row: row, Column: types.Unknown,
				Reason: fmt.Sprintf("ragged row: expected %d columns, found %d", cols, len(record))}
		}
		values := make([]float64, cols)
		for col, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &types.DataFormatError{Path: path, Row: row, Column: col,
					Reason: fmt.Sprintf("not a number: %q", cell)}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &types.DataFormatError{Path: path, Row: row, Column: col,
					Reason: fmt.Sprintf("not a finite number: %q", cell)}
			}
			values[col] = v
		}
		ds.Rows = append(ds.Rows, values)
	}
	if len(ds.Rows) == 0 {
		return nil, &types.DataFormatError{Path: path, Row: types.Unknown, Column: types.Unknown, Reason: "empty dataset"}
	}
	ds.cols = cols
	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Cols returns the number of columns including the label.
func (d *Dataset) Cols() int {
	if d.cols > 0 || len(d.Rows) == 0 {
		return d.cols
	}
	return len(d.Rows[0])
}

// Features returns the number of feature columns.
func (d *Dataset) Features() int {
	if d.Cols() == 0 {
		return 0
	}
	return d.Cols() - 1
}

// IsLabel reports whether col is the label column.
func (d *Dataset) IsLabel(col int) bool {
	return col == d.Cols()-1
}

// Split cuts the dataset into a training and a test part without shuffling, so any temporal order survives. The test
// part gets ceil(testSize * n) rows.
func (d *Dataset) Split(testSize float64) (*Dataset, *Dataset, error) {
	if testSize < 0 || testSize >= 1 || math.IsNaN(testSize) {
		return nil, nil, fmt.Errorf("test size must be in [0, 1), got %v", testSize)
	}
	n := d.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain < 1 {
		return nil, nil, fmt.Errorf("test size %v leaves no training rows out of %d", testSize, n)
	}
	cols := d.Cols()
	train := &Dataset{Path: d.Path, Rows: d.Rows[:nTrain:nTrain], cols: cols}
	test := &Dataset{Path: d.Path, Rows: d.Rows[nTrain:], cols: cols}
	return train, test, nil
}
