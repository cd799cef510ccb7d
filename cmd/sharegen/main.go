// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/carbynestack/sharecodec/pkg/codec"
	"github.com/carbynestack/sharecodec/pkg/dataset"
	"github.com/carbynestack/sharecodec/pkg/dealer"
	l "github.com/carbynestack/sharecodec/pkg/logger"
	"github.com/carbynestack/sharecodec/pkg/partition"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/markkurossi/tabulate"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func main() {
	conf, err := ParseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := l.NewLogger(!conf.Production)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Debugf("Starting with the config:\n%+v", conf)
	typedConfig, err := InitTypedConfig(conf)
	if err != nil {
		logger.Fatalw("Invalid configuration", "error", err)
	}
	d, err := dealer.NewDealer(logger, typedConfig, utils.Fio)
	if err != nil {
		logger.Fatalw("Failed to create dealer", "error", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rep, err := d.Run(ctx)
	if err != nil {
		logger.Fatalw("Share generation failed", "error", err)
	}
	PrintReport(os.Stdout, rep)
}

// ParseFlags reads the optional config file named by --config and applies the flags that were set on top of it.
// Defaults are filled in and the result is validated. A positional argument is taken as the dataset.
func ParseFlags(fs *pflag.FlagSet, args []string) (*types.SharingConfig, error) {
	configPath := fs.String("config", "", "path of a JSON config file")
	ds := fs.String("dataset", "", "header-less CSV dataset, label in the last column")
	outputDir := fs.String("output-dir", spdzio.DefaultDir, "Player-Data directory")
	mode := fs.String("mode", types.ModeShares, "one of shares, mac, vertical")
	modulus := fs.String("modulus", "", "ring 2^k or prime field modulus, e.g. 2^64 or 2^61-1")
	scale := fs.String("scale", types.DefaultScale, "fixed-point scale of the features")
	parties := fs.Int("parties", types.DefaultParties, "number of parties")
	testSize := fs.Float64("test-size", dataset.DefaultTestSize, "fraction of rows held out for testing")
	seed := fs.Int64("seed", partition.DefaultSeed, "seed of the vertical feature partition")
	randomness := fs.String("randomness", types.RandomnessCrypto, "one of crypto, chacha20, blake2b")
	strict := fs.Bool("strict-overflow", false, "fail instead of warn when an encoded value aliases")
	production := fs.Bool("production", false, "log JSON at info level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	conf := &types.SharingConfig{}
	if *configPath != "" {
		var err error
		if conf, err = ParseConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if fs.Changed("dataset") {
		conf.Dataset = *ds
	} else if fs.NArg() > 0 {
		conf.Dataset = fs.Arg(0)
	}
	if fs.Changed("output-dir") {
		conf.OutputDir = *outputDir
	}
	if fs.Changed("mode") {
		conf.Mode = *mode
	}
	if fs.Changed("modulus") {
		conf.Modulus = *modulus
	}
	if fs.Changed("scale") {
		conf.Scale = *scale
	}
	if fs.Changed("parties") {
		conf.Parties = *parties
	}
	if fs.Changed("test-size") {
		conf.TestSize = testSize
	}
	if fs.Changed("seed") {
		conf.Seed = seed
	}
	if fs.Changed("randomness") {
		conf.Randomness = *randomness
	}
	if fs.Changed("strict-overflow") {
		conf.StrictOverflow = *strict
	}
	if fs.Changed("production") {
		conf.Production = *production
	}
	SetDefaults(conf)
	if err := ValidateConfig(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// ParseConfig reads the configuration file content.
func ParseConfig(path string) (*types.SharingConfig, error) {
	bytes, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf types.SharingConfig
	err = json.Unmarshal(bytes, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// SetDefaults fills in every setting left empty.
func SetDefaults(conf *types.SharingConfig) {
	if conf.OutputDir == "" {
		conf.OutputDir = spdzio.DefaultDir
	}
	if conf.Mode == "" {
		conf.Mode = types.ModeShares
	}
	if conf.Modulus == "" {
		conf.Modulus = types.DefaultRingModulus
		if conf.Mode == types.ModeMAC {
			conf.Modulus = types.DefaultFieldModulus
		}
	}
	if conf.Scale == "" {
		conf.Scale = types.DefaultScale
	}
	if conf.Parties == 0 {
		conf.Parties = types.DefaultParties
	}
	if conf.TestSize == nil {
		testSize := dataset.DefaultTestSize
		conf.TestSize = &testSize
	}
	if conf.Seed == nil {
		seed := partition.DefaultSeed
		conf.Seed = &seed
	}
	if conf.Randomness == "" {
		conf.Randomness = types.RandomnessCrypto
	}
}

// ValidateConfig checks the struct tags and the ranges the tags cannot express.
func ValidateConfig(conf *types.SharingConfig) error {
	if _, err := govalidator.ValidateStruct(conf); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if conf.Parties < 2 {
		return fmt.Errorf("at least two parties are required, got %d", conf.Parties)
	}
	if conf.TestSize != nil && (*conf.TestSize < 0 || *conf.TestSize >= 1) {
		return fmt.Errorf("test size must be in [0, 1), got %v", *conf.TestSize)
	}
	return nil
}

// InitTypedConfig converts the string parameters that were parsed by standard json parser to the parameters which
// are used internally, e.g. string -> *codec.Modulus.
func InitTypedConfig(conf *types.SharingConfig) (*dealer.Config, error) {
	modulus, err := codec.ParseModulus(conf.Modulus)
	if err != nil {
		return nil, err
	}
	scale, err := codec.ParseScale(conf.Scale)
	if err != nil {
		return nil, err
	}
	if conf.TestSize == nil || conf.Seed == nil {
		return nil, errors.New("test size and seed must be set, see SetDefaults")
	}
	return &dealer.Config{
		Dataset:        conf.Dataset,
		OutputDir:      conf.OutputDir,
		Mode:           conf.Mode,
		Modulus:        modulus,
		Scale:          scale,
		Parties:        conf.Parties,
		TestSize:       *conf.TestSize,
		Seed:           *conf.Seed,
		Randomness:     conf.Randomness,
		StrictOverflow: conf.StrictOverflow,
	}, nil
}

// PrintReport renders the session summary and the dimensions of every written file.
func PrintReport(w io.Writer, rep *dealer.Report) {
	fmt.Fprintf(w, "Session %s: mode %s over %s, %d train rows, %d test rows, %d features\n",
		rep.SessionID, rep.Mode, rep.Modulus, rep.TrainRows, rep.TestRows, rep.Features)

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("File").SetAlign(tabulate.ML)
	tab.Header("Kind").SetAlign(tabulate.ML)
	tab.Header("Party").SetAlign(tabulate.MR)
	tab.Header("Split").SetAlign(tabulate.MR)
	tab.Header("Rows").SetAlign(tabulate.MR)
	tab.Header("Cols").SetAlign(tabulate.MR)
	for _, f := range rep.Files {
		row := tab.Row()
		row.Column(f.Path)
		row.Column(f.Kind)
		row.Column(optional(f.Party))
		row.Column(optional(f.Split))
		row.Column(strconv.Itoa(f.Rows))
		row.Column(strconv.Itoa(f.Cols))
	}
	tab.Print(w)

	if rep.Assignment != nil {
		tab = tabulate.New(tabulate.UnicodeLight)
		tab.Header("Party").SetAlign(tabulate.MR)
		tab.Header("Columns").SetAlign(tabulate.ML)
		for p := 0; p < rep.Assignment.Parties(); p++ {
			row := tab.Row()
			row.Column(strconv.Itoa(p))
			if rep.Assignment.HoldsLabel(p) {
				row.Column("label")
				continue
			}
			row.Column(fmt.Sprint(rep.Assignment.Columns(p)))
		}
		tab.Print(w)
	}
	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "%d value(s) risk overflow, %d of them alias\n", len(rep.Warnings), aliased(rep.Warnings))
	}
}

func optional(i int) string {
	if i == types.Unknown {
		return "-"
	}
	return strconv.Itoa(i)
}

func aliased(ws []*types.OverflowRiskWarning) int {
	n := 0
	for _, w := range ws {
		if w.Aliased {
			n++
		}
	}
	return n
}
