// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package reconstruct

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultPredictions is the result file of an engine that opens its predictions itself.
	DefaultPredictions = "predictions.txt"
	// DefaultSharedPredictions names the result share files of an engine that leaves its predictions shared.
	DefaultSharedPredictions = "predictions-P%d"
)

// Config is the typed configuration of an evaluation.
type Config struct {
	Dir     string
	Mode    string
	Modulus *codec.Modulus
	Scale   int64
	Parties int
	// Predictions names the result files. A single name without %d is an opened output. A single name with %d
	// expands to one share file per party, several names are taken as one share file each. If empty, the opened
	// DefaultPredictions is read when present and DefaultSharedPredictions otherwise.
	Predictions []string
	// LabelSplit is the split whose share files hold the true labels.
	LabelSplit int
	// Converter reads binary result files. Text files are read when nil.
	Converter spdzio.OutputConverter
}

// Evaluation is the outcome of decoding the engine's predictions.
type Evaluation struct {
	Values    []float64
	Predicted []int
	Labels    []int
	Correct   int
	Accuracy  float64
}

// Evaluator decodes engine outputs and scores them against the labels held in the Player-Data directory.
type Evaluator struct {
	conf    *Config
	logger  *zap.SugaredLogger
	fio     utils.FileIO
	layout  *spdzio.Layout
	decoder *Decoder
}

// NewEvaluator returns an evaluator for the given configuration.
func NewEvaluator(logger *zap.SugaredLogger, conf *Config, fio utils.FileIO) (*Evaluator, error) {
	decoder, err := NewDecoder(conf.Modulus, conf.Scale)
	if err != nil {
		return nil, err
	}
	if conf.Parties < 2 {
		return nil, fmt.Errorf("at least two parties are required, got %d", conf.Parties)
	}
	if conf.LabelSplit != types.SplitTrain && conf.LabelSplit != types.SplitTest {
		return nil, fmt.Errorf("invalid label split %d", conf.LabelSplit)
	}
	return &Evaluator{
		conf:    conf,
		logger:  logger,
		fio:     fio,
		layout:  spdzio.NewLayout(conf.Dir),
		decoder: decoder,
	}, nil
}

// PredictionPaths resolves the configured result file names.
func (e *Evaluator) PredictionPaths() ([]string, error) {
	names := e.conf.Predictions
	if len(names) == 0 {
		opened, err := e.fio.Exists(e.layout.Result(DefaultPredictions, 0))
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up the opened predictions")
		}
		names = []string{DefaultSharedPredictions}
		if opened {
			names = []string{DefaultPredictions}
		}
	}
	if len(names) == 1 && strings.Contains(names[0], "%d") {
		paths := make([]string, e.conf.Parties)
		for p := range paths {
			paths[p] = e.layout.Result(names[0], p)
		}
		return paths, nil
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = e.layout.Result(name, i)
	}
	return paths, nil
}

// Evaluate opens the predictions, decodes and thresholds them and compares them with the reconstructed labels.
func (e *Evaluator) Evaluate(ctx context.Context) (*Evaluation, error) {
	values, err := e.predictions(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := e.Labels()
	if err != nil {
		return nil, err
	}
	ev := &Evaluation{
		Values: e.decoder.DecodeAll(values),
		Labels: labels,
	}
	ev.Predicted = ClassifyAll(ev.Values)
	ev.Correct, ev.Accuracy, err = Accuracy(ev.Predicted, labels)
	if err != nil {
		return nil, err
	}
	e.logger.Infow("Evaluated predictions", "samples", len(labels), "correct", ev.Correct, "accuracy", ev.Accuracy)
	return ev, nil
}

// predictions reads every result file and sums the party files cell by cell. The files must agree in shape, they
// are flattened only once combined.
func (e *Evaluator) predictions(ctx context.Context) ([]*big.Int, error) {
	paths, err := e.PredictionPaths()
	if err != nil {
		return nil, err
	}
	parts := make([]spdzio.Matrix, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := e.readResult(path)
		if err != nil {
			return nil, err
		}
		parts[i] = m
		e.logger.Debugw("Read result file", types.Path, path, "rows", m.Rows())
	}
	if len(parts) == 1 {
		return parts[0].Flatten(), nil
	}
	opened, err := Combine(e.conf.Modulus, parts...)
	if err != nil {
		return nil, err
	}
	return opened.Flatten(), nil
}

func (e *Evaluator) readResult(path string) (spdzio.Matrix, error) {
	if e.conf.Converter != nil {
		return spdzio.ReadBinary(e.fio, e.conf.Converter, "result", path)
	}
	return spdzio.ReadMatrix(e.fio, "result", path)
}

// Labels reconstructs the true labels of the label split. In vertical mode they are read from the label party's
// single column, otherwise from the last column of the combined share files.
func (e *Evaluator) Labels() ([]int, error) {
	var column []*big.Int
	if e.conf.Mode == types.ModeVertical {
		m, err := spdzio.ReadMatrix(e.fio, "label file", e.layout.Input(e.conf.Parties-1, e.conf.LabelSplit))
		if err != nil {
			return nil, err
		}
		if m.Rows() > 0 && m.Cols() != 1 {
			return nil, &types.DimensionMismatchError{What: "label columns", Path: e.layout.Input(e.conf.Parties-1, e.conf.LabelSplit),
				Expected: 1, Actual: m.Cols()}
		}
		column = m.Flatten()
	} else {
		parts := make([]spdzio.Matrix, e.conf.Parties)
		for p := range parts {
			m, err := spdzio.ReadMatrix(e.fio, "share file", e.layout.Input(p, e.conf.LabelSplit))
			if err != nil {
				return nil, err
			}
			parts[p] = m
		}
		opened, err := Combine(e.conf.Modulus, parts...)
		if err != nil {
			return nil, err
		}
		if opened.Rows() > 0 && opened.Cols() == 0 {
			return nil, fmt.Errorf("share files of split %d hold no label column", e.conf.LabelSplit)
		}
		column = opened.Column(opened.Cols() - 1)
	}
	labels := make([]int, len(column))
	for i, v := range column {
		l, err := e.decoder.DecodeLabel(v)
		if err != nil {
			return nil, err
		}
		labels[i] = l
	}
	return labels, nil
}
