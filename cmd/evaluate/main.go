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
	"math/big"
	"os"
	"os/signal"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/carbynestack/sharecodec/pkg/codec"
	l "github.com/carbynestack/sharecodec/pkg/logger"
	"github.com/carbynestack/sharecodec/pkg/reconstruct"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/markkurossi/tabulate"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := Run(ctx, logger, conf, typedConfig, os.Stdout); err != nil {
		logger.Fatalw("Evaluation failed", "error", err)
	}
}

// Run audits the MAC tags if asked to and evaluates the predictions, printing both reports to w. A failed audit
// stops the evaluation.
func Run(ctx context.Context, logger *zap.SugaredLogger, conf *types.EvaluationConfig, typed *reconstruct.Config, w io.Writer) error {
	if conf.Audit {
		auditor := reconstruct.NewAuditor(logger, typed.Modulus, typed.Parties, typed.Dir, utils.Fio)
		mismatches := map[int][]reconstruct.Mismatch{}
		for _, split := range []int{types.SplitTrain, types.SplitTest} {
			m, err := auditor.Audit(split)
			if err != nil {
				return err
			}
			mismatches[split] = m
		}
		PrintAudit(w, mismatches)
		if n := len(mismatches[types.SplitTrain]) + len(mismatches[types.SplitTest]); n > 0 {
			return fmt.Errorf("%d cell(s) failed MAC verification", n)
		}
	}
	e, err := reconstruct.NewEvaluator(logger, typed, utils.Fio)
	if err != nil {
		return err
	}
	ev, err := e.Evaluate(ctx)
	if err != nil {
		return err
	}
	PrintEvaluation(w, ev)
	return nil
}

// ParseFlags reads the optional config file named by --config and applies the flags that were set on top of it.
func ParseFlags(fs *pflag.FlagSet, args []string) (*types.EvaluationConfig, error) {
	configPath := fs.String("config", "", "path of a JSON config file")
	dir := fs.String("dir", spdzio.DefaultDir, "Player-Data directory")
	mode := fs.String("mode", types.ModeShares, "mode the shares were generated in")
	modulus := fs.String("modulus", "", "modulus the engine computed in")
	scale := fs.String("scale", types.DefaultScale, "fixed-point scale of the predictions")
	parties := fs.Int("parties", types.DefaultParties, "number of parties")
	predictions := fs.StringSlice("predictions", nil,
		"result files, one opened file, one pattern with %d or one file per party (default predictions.txt if present, else predictions-P%d)")
	labelSplit := fs.Int("label-split", types.SplitTest, "split holding the true labels")
	binary := fs.Bool("binary", false, "read raw binary engine outputs")
	rInv := fs.String("r-inv", "", "inverse of the Montgomery radix, binary field outputs only")
	audit := fs.Bool("audit", false, "verify the MAC tags first")
	production := fs.Bool("production", false, "log JSON at info level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	conf := &types.EvaluationConfig{}
	if *configPath != "" {
		var err error
		if conf, err = ParseConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if fs.Changed("dir") {
		conf.Dir = *dir
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
	if fs.Changed("predictions") {
		conf.Predictions = *predictions
	}
	if fs.Changed("label-split") {
		conf.LabelSplit = labelSplit
	}
	if fs.Changed("binary") {
		conf.Binary = *binary
	}
	if fs.Changed("r-inv") {
		conf.RInv = *rInv
	}
	if fs.Changed("audit") {
		conf.Audit = *audit
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
func ParseConfig(path string) (*types.EvaluationConfig, error) {
	bytes, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf types.EvaluationConfig
	err = json.Unmarshal(bytes, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// SetDefaults fills in every setting left empty.
func SetDefaults(conf *types.EvaluationConfig) {
	if conf.Dir == "" {
		conf.Dir = spdzio.DefaultDir
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
	if conf.LabelSplit == nil {
		split := types.SplitTest
		conf.LabelSplit = &split
	}
}

// ValidateConfig checks the struct tags and the combinations the tags cannot express.
func ValidateConfig(conf *types.EvaluationConfig) error {
	if _, err := govalidator.ValidateStruct(conf); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if conf.Parties < 2 {
		return fmt.Errorf("at least two parties are required, got %d", conf.Parties)
	}
	if conf.Audit && conf.Mode != types.ModeMAC {
		return fmt.Errorf("auditing requires mode %s, got %s", types.ModeMAC, conf.Mode)
	}
	if conf.RInv != "" && !govalidator.IsInt(conf.RInv) {
		return fmt.Errorf("wrong rInv format: %q", conf.RInv)
	}
	return nil
}

// InitTypedConfig converts the string parameters that were parsed by standard json parser to the parameters which
// are used internally, e.g. string -> *codec.Modulus.
func InitTypedConfig(conf *types.EvaluationConfig) (*reconstruct.Config, error) {
	modulus, err := codec.ParseModulus(conf.Modulus)
	if err != nil {
		return nil, err
	}
	scale, err := codec.ParseScale(conf.Scale)
	if err != nil {
		return nil, err
	}
	if conf.LabelSplit == nil {
		return nil, errors.New("label split must be set, see SetDefaults")
	}
	typed := &reconstruct.Config{
		Dir:         conf.Dir,
		Mode:        conf.Mode,
		Modulus:     modulus,
		Scale:       scale,
		Parties:     conf.Parties,
		Predictions: conf.Predictions,
		LabelSplit:  *conf.LabelSplit,
	}
	if conf.Binary {
		var rInv *big.Int
		if conf.RInv != "" {
			var ok bool
			if rInv, ok = new(big.Int).SetString(conf.RInv, 10); !ok {
				return nil, errors.New("wrong rInv format")
			}
		}
		if typed.Converter, err = spdzio.NewOutputConverter(modulus, rInv); err != nil {
			return nil, err
		}
	}
	return typed, nil
}

// PrintEvaluation renders one row per sample followed by the accuracy.
func PrintEvaluation(w io.Writer, ev *reconstruct.Evaluation) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Sample").SetAlign(tabulate.MR)
	tab.Header("Score").SetAlign(tabulate.MR)
	tab.Header("Predicted").SetAlign(tabulate.MR)
	tab.Header("Label").SetAlign(tabulate.MR)
	for i := range ev.Values {
		row := tab.Row()
		row.Column(strconv.Itoa(i))
		row.Column(strconv.FormatFloat(ev.Values[i], 'f', 6, 64))
		row.Column(strconv.Itoa(ev.Predicted[i]))
		row.Column(strconv.Itoa(ev.Labels[i]))
	}
	tab.Print(w)
	fmt.Fprintf(w, "Accuracy: %v (%d/%d)\n", ev.Accuracy, ev.Correct, len(ev.Labels))
}

// PrintAudit renders the cells that failed MAC verification per split.
func PrintAudit(w io.Writer, mismatches map[int][]reconstruct.Mismatch) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Split").SetAlign(tabulate.MR)
	tab.Header("Row").SetAlign(tabulate.MR)
	tab.Header("Column").SetAlign(tabulate.MR)
	n := 0
	for _, split := range []int{types.SplitTrain, types.SplitTest} {
		for _, m := range mismatches[split] {
			row := tab.Row()
			row.Column(strconv.Itoa(split))
			row.Column(strconv.Itoa(m.Row))
			row.Column(strconv.Itoa(m.Column))
			n++
		}
	}
	if n == 0 {
		fmt.Fprintln(w, "MAC audit passed")
		return
	}
	fmt.Fprintf(w, "MAC audit failed for %d cell(s)\n", n)
	tab.Print(w)
}
