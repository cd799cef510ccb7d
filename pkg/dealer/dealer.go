// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package dealer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/dataset"
	"github.com/carbynestack/sharecodec/pkg/metadata"
	"github.com/carbynestack/sharecodec/pkg/partition"
	"github.com/carbynestack/sharecodec/pkg/sharing"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config is the typed configuration of a sharing session.
type Config struct {
	Dataset        string
	OutputDir      string
	Mode           string
	Modulus        *codec.Modulus
	Scale          int64
	Parties        int
	TestSize       float64
	Seed           int64
	Randomness     string
	StrictOverflow bool
}

// Kinds of files written by a session.
const (
	KindInput    = "input"
	KindMAC      = "mac"
	KindKey      = "key"
	KindMetadata = "metadata"
)

// FileStat describes a file written by a session.
type FileStat struct {
	Kind  string
	Party int
	Split int
	Path  string
	Rows  int
	Cols  int
}

// Report summarizes a sharing session.
type Report struct {
	SessionID  uuid.UUID
	Mode       string
	Modulus    string
	TrainRows  int
	TestRows   int
	Features   int
	Files      []FileStat
	Warnings   []*types.OverflowRiskWarning
	Assignment *partition.Assignment
}

// Dealer turns a plaintext dataset into the Player-Data files of all parties.
type Dealer struct {
	conf   *Config
	logger *zap.SugaredLogger
	fio    utils.FileIO
	layout *spdzio.Layout

	// OnOverflow is called for every overflow warning raised while encoding. The default logs it.
	OnOverflow func(*types.OverflowRiskWarning)
}

// NewDealer returns a dealer for the given configuration.
func NewDealer(logger *zap.SugaredLogger, conf *Config, fio utils.FileIO) (*Dealer, error) {
	if conf.Modulus == nil {
		return nil, errors.New("missing modulus")
	}
	if err := codec.ValidateScale(conf.Scale); err != nil {
		return nil, err
	}
	if conf.Parties < 2 {
		return nil, fmt.Errorf("at least two parties are required, got %d", conf.Parties)
	}
	switch conf.Mode {
	case types.ModeShares, types.ModeVertical:
	case types.ModeMAC:
		if conf.Modulus.IsRing() {
			logger.Warnw("MAC tags over a ring only authenticate the low order bits of a value", "modulus", conf.Modulus.String())
		}
	default:
		return nil, fmt.Errorf("unsupported mode %q", conf.Mode)
	}
	d := &Dealer{
		conf:   conf,
		logger: logger,
		fio:    fio,
		layout: spdzio.NewLayout(conf.OutputDir),
	}
	d.OnOverflow = d.logOverflow
	return d, nil
}

// Layout returns the file layout the dealer writes to.
func (d *Dealer) Layout() *spdzio.Layout {
	return d.layout
}

// Run executes a complete sharing session: load and split the dataset, encode every cell, replace the files of any
// earlier session with those of the configured mode, write the initial metadata record and check the dimensions of
// everything written.
func (d *Dealer) Run(ctx context.Context) (*Report, error) {
	sessionID := uuid.New()
	logger := d.logger.With(types.SessionID, sessionID.String())
	rep := &Report{
		SessionID: sessionID,
		Mode:      d.conf.Mode,
		Modulus:   d.conf.Modulus.String(),
	}
	ds, err := dataset.Load(d.fio, d.conf.Dataset)
	if err != nil {
		return nil, err
	}
	train, test, err := ds.Split(d.conf.TestSize)
	if err != nil {
		return nil, err
	}
	rep.TrainRows, rep.TestRows, rep.Features = train.Len(), test.Len(), ds.Features()
	logger.Infow("Loaded dataset", types.Path, d.conf.Dataset, "trainRows", rep.TrainRows, "testRows", rep.TestRows,
		"features", rep.Features)

	enc, err := codec.NewEncoder(d.conf.Modulus, d.conf.Scale, d.conf.StrictOverflow)
	if err != nil {
		return nil, err
	}
	splits := make([]spdzio.Matrix, 2)
	if splits[types.SplitTrain], err = d.encode(ctx, enc, train, types.SplitTrain, 0, rep); err != nil {
		return nil, err
	}
	if splits[types.SplitTest], err = d.encode(ctx, enc, test, types.SplitTest, train.Len(), rep); err != nil {
		return nil, err
	}

	if err := d.clean(logger); err != nil {
		return nil, err
	}
	if err := d.fio.CreatePath(d.layout.Dir); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", d.layout.Dir)
	}
	switch d.conf.Mode {
	case types.ModeShares, types.ModeMAC:
		err = d.writeShares(ctx, logger, splits, rep)
	case types.ModeVertical:
		err = d.writeVertical(logger, splits, rep)
	}
	if err != nil {
		return nil, err
	}

	if _, err := metadata.WriteInitial(d.fio, d.layout.Metadata(), rep.TrainRows, rep.Features, rep.TestRows); err != nil {
		return nil, err
	}
	rep.Files = append(rep.Files, FileStat{Kind: KindMetadata, Party: types.Unknown, Split: types.Unknown,
		Path: d.layout.Metadata(), Rows: 5, Cols: 1})

	if err := d.check(rep); err != nil {
		return nil, err
	}
	logger.Infow("Finished sharing session", "files", len(rep.Files), "warnings", len(rep.Warnings))
	return rep, nil
}

// clean removes the files of earlier sessions so that none of them outlives a change of mode or party count. Other
// files in the directory are left alone.
func (d *Dealer) clean(logger *zap.SugaredLogger) error {
	ok, err := d.fio.Exists(d.layout.Dir)
	if err != nil {
		return errors.Wrapf(err, "failed to look up %s", d.layout.Dir)
	}
	if !ok {
		return nil
	}
	removed := 0
	for _, pattern := range d.layout.Artifacts() {
		matches, err := d.fio.Glob(pattern)
		if err != nil {
			return errors.Wrapf(err, "failed to list %s", pattern)
		}
		for _, path := range matches {
			if err := d.fio.Delete(path); err != nil {
				return errors.Wrapf(err, "failed to remove %s", path)
			}
			removed++
		}
	}
	if removed > 0 {
		logger.Debugw("Removed files of an earlier session", types.Path, d.layout.Dir, "files", removed)
	}
	return nil
}

// encode maps every cell of part into [0, m). Features are scaled, the label is not. Errors and warnings carry the
// dataset row, i.e. offset plus the row within part.
func (d *Dealer) encode(ctx context.Context, enc *codec.Encoder, part *dataset.Dataset, split, offset int, rep *Report) (spdzio.Matrix, error) {
	out := spdzio.NewMatrix(part.Len(), part.Cols())
	for r, row := range part.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for c, x := range row {
			var (
				v   *big.Int
				w   *types.OverflowRiskWarning
				err error
			)
			if part.IsLabel(c) {
				v, w, err = enc.EncodeLabel(x)
			} else {
				v, w, err = enc.EncodeFeature(x)
			}
			if err != nil {
				return nil, locate(err, part.Path, split, offset+r, c)
			}
			if w != nil {
				w.Row, w.Column = offset+r, c
				rep.Warnings = append(rep.Warnings, w)
				d.OnOverflow(w)
			}
			out[r][c] = v
		}
	}
	return out, nil
}

// locate fills in the position of a cell error.
func locate(err error, path string, split, row, col int) error {
	switch e := err.(type) {
	case *types.DataFormatError:
		e.Path, e.Row, e.Column = path, row, col
		return e
	case *types.OverflowRiskWarning:
		e.Row, e.Column = row, col
		return errors.Wrapf(e, "strict overflow check failed in split %d", split)
	}
	return err
}

func (d *Dealer) logOverflow(w *types.OverflowRiskWarning) {
	d.logger.Warnw("Encoded value risks overflow", types.Row, w.Row, types.Column, w.Column, "aliased", w.Aliased)
}

// writeShares splits every cell among all parties. In MAC mode a single key is drawn for the session and each share
// file gets a tag file of the same shape.
func (d *Dealer) writeShares(ctx context.Context, logger *zap.SugaredLogger, splits []spdzio.Matrix, rep *Report) error {
	src, err := sharing.NewRandomSource(d.conf.Randomness)
	if err != nil {
		return err
	}
	splitter, err := sharing.NewSplitter(d.conf.Modulus, d.conf.Parties, src)
	if err != nil {
		return err
	}
	var key *sharing.MACKey
	if d.conf.Mode == types.ModeMAC {
		key, err = sharing.NewMACKey(splitter)
		if err != nil {
			return errors.Wrap(err, "failed to draw MAC key")
		}
		for p, share := range key.Shares {
			if err := spdzio.WriteScalar(d.fio, d.layout.Key(p), d.conf.Modulus, share); err != nil {
				return err
			}
			rep.Files = append(rep.Files, FileStat{Kind: KindKey, Party: p, Split: types.Unknown, Path: d.layout.Key(p), Rows: 1, Cols: 1})
		}
		logger.Debugw("Wrote MAC key shares", "parties", len(key.Shares))
	}
	for split, plain := range splits {
		shares := make([]spdzio.Matrix, d.conf.Parties)
		var tags []spdzio.Matrix
		if key != nil {
			tags = make([]spdzio.Matrix, d.conf.Parties)
		}
		for p := range shares {
			shares[p] = spdzio.NewMatrix(plain.Rows(), plain.Cols())
			if tags != nil {
				tags[p] = spdzio.NewMatrix(plain.Rows(), plain.Cols())
			}
		}
		for r, row := range plain {
			if err := ctx.Err(); err != nil {
				return err
			}
			for c, v := range row {
				s, err := splitter.Split(v)
				if err != nil {
					return err
				}
				for p := range s {
					shares[p][r][c] = s[p]
				}
				if key == nil {
					continue
				}
				t, err := key.Tag(splitter, v)
				if err != nil {
					return err
				}
				for p := range t {
					tags[p][r][c] = t[p]
				}
			}
		}
		for p := range shares {
			if err := d.write(KindInput, p, split, d.layout.Input(p, split), shares[p], rep); err != nil {
				return err
			}
			if tags != nil {
				if err := d.write(KindMAC, p, split, d.layout.MAC(p, split), tags[p], rep); err != nil {
					return err
				}
			}
		}
		logger.Debugw("Wrote shares", types.Split, split, "rows", plain.Rows(), "cols", plain.Cols())
	}
	return nil
}

// writeVertical hands every feature party its partition group of encoded columns, unshared. The last party gets the
// label column. A party without columns still gets a file with one empty line per row.
func (d *Dealer) writeVertical(logger *zap.SugaredLogger, splits []spdzio.Matrix, rep *Report) error {
	a, err := partition.Partition(rep.Features, d.conf.Parties, d.conf.Seed)
	if err != nil {
		return err
	}
	rep.Assignment = a
	for p := 0; p < a.Parties(); p++ {
		cols := a.Columns(p)
		if a.HoldsLabel(p) {
			cols = []int{rep.Features}
		}
		logger.Debugw("Assigned columns", types.Party, p, "columns", cols)
		for split, plain := range splits {
			m := spdzio.NewMatrix(plain.Rows(), len(cols))
			for r, row := range plain {
				for j, c := range cols {
					m[r][j] = row[c]
				}
			}
			if err := d.write(KindInput, p, split, d.layout.Input(p, split), m, rep); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dealer) write(kind string, party, split int, path string, m spdzio.Matrix, rep *Report) error {
	if err := spdzio.WriteMatrix(d.fio, path, d.conf.Modulus, m); err != nil {
		return err
	}
	rep.Files = append(rep.Files, FileStat{Kind: kind, Party: party, Split: split, Path: path, Rows: m.Rows(), Cols: m.Cols()})
	return nil
}

// check reads back every input and tag file and compares its dimensions with what was meant to be written.
func (d *Dealer) check(rep *Report) error {
	for _, f := range rep.Files {
		if f.Kind != KindInput && f.Kind != KindMAC {
			continue
		}
		rows, cols, err := spdzio.Dimensions(d.fio, f.Path)
		if err != nil {
			return err
		}
		expectedRows := rep.TrainRows
		if f.Split == types.SplitTest {
			expectedRows = rep.TestRows
		}
		if rows != expectedRows {
			return &types.DimensionMismatchError{What: "rows", Path: f.Path, Expected: expectedRows, Actual: rows}
		}
		if rows > 0 && cols != f.Cols {
			return &types.DimensionMismatchError{What: "columns", Path: f.Path, Expected: f.Cols, Actual: cols}
		}
	}
	return nil
}
