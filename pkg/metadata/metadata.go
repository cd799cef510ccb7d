//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/pkg/errors"
)

const (
	// DefaultBatchSize is written by WriteInitial until the orchestrator overwrites it.
	DefaultBatchSize = 8
	// DefaultEpochs is written by WriteInitial until the orchestrator overwrites it.
	DefaultEpochs = 2
	// FileName is the name of the record inside the Player-Data directory.
	FileName = "metadata.txt"
)

// Line positions, zero based.
const (
	lineTrainRows = iota
	lineFeatureCount
	lineTestRows
	lineBatchSize
	lineEpochs
	fieldCount
)

var lineNames = [fieldCount]string{"train rows", "feature count", "test rows", "batch size", "epochs"}

// Record is the metadata shared between the data preparation and the engine runtime. The first three fields are
// written once at share generation time, the last two are mutated between runs.
type Record struct {
	TrainRows    int
	FeatureCount int
	TestRows     int
	BatchSize    int
	Epochs       int

	// raw holds the lines as loaded so that untouched lines are persisted byte for byte.
	raw []string
}

// New returns a record with the default training parameters.
func New(trainRows, featureCount, testRows int) *Record {
	return &Record{
		TrainRows:    trainRows,
		FeatureCount: featureCount,
		TestRows:     testRows,
		BatchSize:    DefaultBatchSize,
		Epochs:       DefaultEpochs,
	}
}

// Parse reads a record. Anything but five lines, or a non-integer in any of them, is a MalformedMetadataError.
func Parse(path string, data []byte) (*Record, error) {
	text := strings.TrimSuffix(string(data), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	if len(lines) != fieldCount {
		return nil, &types.MalformedMetadataError{
			Path:   path,
			Reason: fmt.Sprintf("expected %d lines, found %d", fieldCount, len(lines)),
		}
	}
	var values [fieldCount]int
	for i := 0; i < fieldCount; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(lines[i], "\r")))
		if err != nil {
			return nil, &types.MalformedMetadataError{
				Path:   path,
				Line:   i + 1,
				Reason: fmt.Sprintf("%s is not an integer: %q", lineNames[i], lines[i]),
			}
		}
		values[i] = v
	}
	r := &Record{
		TrainRows:    values[lineTrainRows],
		FeatureCount: values[lineFeatureCount],
		TestRows:     values[lineTestRows],
		BatchSize:    values[lineBatchSize],
		Epochs:       values[lineEpochs],
		raw:          lines,
	}
	if err := r.Validate(); err != nil {
		return nil, &types.MalformedMetadataError{Path: path, Reason: err.Error()}
	}
	return r, nil
}

// Load reads the record at path.
func Load(fio utils.FileIO, path string) (*Record, error) {
	data, err := fio.ReadAll(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.NotFoundError{What: "metadata", Path: path, Err: err}
		}
		return nil, errors.Wrapf(err, "failed to read metadata %s", path)
	}
	return Parse(path, data)
}

// Validate checks the value ranges.
func (r *Record) Validate() error {
	if r.TrainRows < 0 || r.FeatureCount < 0 || r.TestRows < 0 {
		return fmt.Errorf("row and feature counts must not be negative")
	}
	return validateTraining(r.BatchSize, r.Epochs)
}

func validateTraining(batchSize, epochs int) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", epochs)
	}
	return nil
}

// SetTraining replaces the batch size and the number of epochs.
func (r *Record) SetTraining(batchSize, epochs int) error {
	if err := validateTraining(batchSize, epochs); err != nil {
		return err
	}
	r.BatchSize = batchSize
	r.Epochs = epochs
	return nil
}

// Lines returns the persisted form of the record. A loaded line is reused verbatim as long as it still holds the
// field's value.
func (r *Record) Lines() []string {
	values := [fieldCount]int{r.TrainRows, r.FeatureCount, r.TestRows, r.BatchSize, r.Epochs}
	lines := make([]string, fieldCount)
	for i := range lines {
		formatted := strconv.Itoa(values[i])
		if i < len(r.raw) {
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(r.raw[i], "\r"))); err == nil && v == values[i] {
				formatted = r.raw[i]
			}
		}
		lines[i] = formatted
	}
	return lines
}

// Persist atomically writes the record to path.
func (r *Record) Persist(fio utils.FileIO, path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data := strings.Join(r.Lines(), "\n") + "\n"
	if err := fio.WriteAtomic(path, []byte(data)); err != nil {
		return errors.Wrapf(err, "failed to persist metadata %s", path)
	}
	r.raw = r.Lines()
	return nil
}

// WriteInitial creates the record at share generation time with the default training parameters.
func WriteInitial(fio utils.FileIO, path string, trainRows, featureCount, testRows int) (*Record, error) {
	r := New(trainRows, featureCount, testRows)
	if err := r.Persist(fio, path); err != nil {
		return nil, err
	}
	return r, nil
}

// Update rewrites the batch size and epochs of an existing record in place and leaves the first three lines untouched.
// It is a single-writer, last-write-wins operation. Updating a record that was never created is a
// MalformedMetadataError wrapping the NotFoundError.
func Update(fio utils.FileIO, path string, batchSize, epochs int) (*Record, error) {
	r, err := Load(fio, path)
	if err != nil {
		var nf *types.NotFoundError
		if errors.As(err, &nf) {
			return nil, &types.MalformedMetadataError{Path: path, Reason: "record has not been created yet", Err: err}
		}
		return nil, err
	}
	if err = r.SetTraining(batchSize, epochs); err != nil {
		return nil, err
	}
	if err = r.Persist(fio, path); err != nil {
		return nil, err
	}
	return r, nil
}
