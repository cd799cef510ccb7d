// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package partition

import (
	"fmt"
	"math/rand"
)

// DefaultSeed is the permutation seed used unless configured otherwise.
const DefaultSeed = int64(42)

// Assignment maps feature columns to the parties of a vertically partitioned dataset.
type Assignment struct {
	// Permutation is the shuffled order of the feature indices.
	Permutation []int
	// Groups holds the feature columns of parties 0 .. n-2, contiguous slices of Permutation.
	Groups [][]int
	// LabelParty is the last party. It holds the label column and no features.
	LabelParty int
}

// Partition shuffles [0, nFeatures) with a generator seeded by seed and splits the result into nParties-1 contiguous
// groups whose sizes differ by at most one, the larger groups first. The same arguments always yield the same
// assignment. Groups are empty when there are more feature parties than features.
func Partition(nFeatures, nParties int, seed int64) (*Assignment, error) {
	if nParties < 2 {
		return nil, fmt.Errorf("at least two parties are required, got %d", nParties)
	}
	if nFeatures < 0 {
		return nil, fmt.Errorf("invalid number of features %d", nFeatures)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(nFeatures)
	k := nParties - 1
	base, extra := nFeatures/k, nFeatures%k
	groups := make([][]int, k)
	start := 0
	for i := range groups {
		size := base
		if i < extra {
			size++
		}
		groups[i] = perm[start : start+size : start+size]
		start += size
	}
	return &Assignment{
		Permutation: perm,
		Groups:      groups,
		LabelParty:  nParties - 1,
	}, nil
}

// Parties returns the number of parties including the label party.
func (a *Assignment) Parties() int {
	return len(a.Groups) + 1
}

// Columns returns the feature columns of party. The label party has none.
func (a *Assignment) Columns(party int) []int {
	if party < 0 || party >= len(a.Groups) {
		return nil
	}
	return a.Groups[party]
}

// HoldsLabel reports whether party receives the label column.
func (a *Assignment) HoldsLabel(party int) bool {
	return party == a.LabelParty
}
