// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carbynestack/sharecodec/pkg/metadata"
)

// DefaultDir is the directory the engine reads its player inputs from.
const DefaultDir = "Player-Data"

// Layout names the files of a Player-Data directory.
type Layout struct {
	Dir string
}

// NewLayout returns the layout rooted at dir.
func NewLayout(dir string) *Layout {
	if dir == "" {
		dir = DefaultDir
	}
	return &Layout{Dir: dir}
}

// Input is the share (or private input) file of party for split.
func (l *Layout) Input(party, split int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("Input-P%d-%d", party, split))
}

// MAC is the tag file of party for split.
func (l *Layout) MAC(party, split int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("MAC-P%d-%d", party, split))
}

// Key is the MAC key share file of party.
func (l *Layout) Key(party int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("alpha%d.txt", party))
}

// Metadata is the metadata record.
func (l *Layout) Metadata() string {
	return filepath.Join(l.Dir, metadata.FileName)
}

// Artifacts returns glob patterns matching every file a sharing session writes, for any number of parties.
func (l *Layout) Artifacts() []string {
	return []string{
		filepath.Join(l.Dir, "Input-P*-*"),
		filepath.Join(l.Dir, "MAC-P*-*"),
		filepath.Join(l.Dir, "alpha*.txt"),
		l.Metadata(),
	}
}

// Result resolves the name of an engine output file. Absolute names are returned unchanged. A %d verb in name is
// replaced by party.
func (l *Layout) Result(name string, party int) string {
	if strings.Contains(name, "%d") {
		name = fmt.Sprintf(name, party)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Dir, name)
}
