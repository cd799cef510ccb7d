// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/asaskevich/govalidator"
	l "github.com/carbynestack/sharecodec/pkg/logger"
	"github.com/carbynestack/sharecodec/pkg/metadata"
	"github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	"github.com/markkurossi/tabulate"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// DefaultPath is the record inside the default Player-Data directory.
var DefaultPath = filepath.Join(spdzio.DefaultDir, metadata.FileName)

func main() {
	conf, err := ParseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := l.NewDevelopmentLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	r, err := Run(conf, utils.Fio)
	if err != nil {
		logger.Fatalw("Metadata update failed", types.Path, conf.Path, "error", err)
	}
	if conf.BatchSize > 0 {
		logger.Infow("Updated training parameters", types.Path, conf.Path, "batchSize", r.BatchSize, "epochs", r.Epochs)
	}
	PrintRecord(os.Stdout, r)
}

// Run updates the training parameters if any are configured and returns the record as persisted. Without training
// parameters the record is only loaded.
func Run(conf *types.MetadataConfig, fio utils.FileIO) (*metadata.Record, error) {
	if conf.BatchSize == 0 && conf.Epochs == 0 {
		return metadata.Load(fio, conf.Path)
	}
	return metadata.Update(fio, conf.Path, conf.BatchSize, conf.Epochs)
}

// ParseFlags reads the optional config file named by --config and applies the flags that were set on top of it.
func ParseFlags(fs *pflag.FlagSet, args []string) (*types.MetadataConfig, error) {
	configPath := fs.String("config", "", "path of a JSON config file")
	path := fs.String("path", DefaultPath, "metadata record")
	batchSize := fs.Int("batch-size", 0, "training batch size")
	epochs := fs.Int("epochs", 0, "training epochs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	conf := &types.MetadataConfig{}
	if *configPath != "" {
		var err error
		if conf, err = ParseConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if fs.Changed("path") {
		conf.Path = *path
	}
	if fs.Changed("batch-size") {
		conf.BatchSize = *batchSize
	}
	if fs.Changed("epochs") {
		conf.Epochs = *epochs
	}
	if conf.Path == "" {
		conf.Path = DefaultPath
	}
	if _, err := govalidator.ValidateStruct(conf); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if (conf.BatchSize == 0) != (conf.Epochs == 0) {
		return nil, errors.New("batch size and epochs must be set together")
	}
	return conf, nil
}

// ParseConfig reads the configuration file content.
func ParseConfig(path string) (*types.MetadataConfig, error) {
	bytes, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf types.MetadataConfig
	err = json.Unmarshal(bytes, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// PrintRecord renders the five fields of the record.
func PrintRecord(w io.Writer, r *metadata.Record) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Field").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)
	for _, f := range []struct {
		name  string
		value int
	}{
		{"train rows", r.TrainRows},
		{"feature count", r.FeatureCount},
		{"test rows", r.TestRows},
		{"batch size", r.BatchSize},
		{"epochs", r.Epochs},
	} {
		row := tab.Row()
		row.Column(f.name)
		row.Column(strconv.Itoa(f.value))
	}
	tab.Print(w)
}
