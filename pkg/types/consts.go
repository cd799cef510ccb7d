//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package types

const (
	// ModeShares secret shares every cell of every row among all parties.
	ModeShares = "shares"
	// ModeMAC is ModeShares plus trusted dealer MAC tags and key shares.
	ModeMAC = "mac"
	// ModeVertical hands each party its own (encoded, unshared) group of feature columns. The last party holds the label.
	ModeVertical = "vertical"

	// RandomnessCrypto reads share randomness from crypto/rand.
	RandomnessCrypto = "crypto"
	// RandomnessChaCha20 reads share randomness from a ChaCha20 keystream keyed by crypto/rand.
	RandomnessChaCha20 = "chacha20"
	// RandomnessBlake2b reads share randomness from a blake2b keyed PRNG with a random key.
	RandomnessBlake2b = "blake2b"

	// DefaultRingModulus is used for plain sharing and vertical partitioning.
	DefaultRingModulus = "2^64"
	// DefaultFieldModulus is used for MAC mode, where tags need a field to authenticate every bit.
	DefaultFieldModulus = "2^61-1"
	// DefaultScale is the fixed-point scale 2^16.
	DefaultScale = "2^16"
	// DefaultParties is the two party setting of the engine.
	DefaultParties = 2

	// SplitTrain is the Player-Data suffix of the training split.
	SplitTrain = 0
	// SplitTest is the Player-Data suffix of the test split.
	SplitTest = 1

	SessionID = "sessionID"
	Split     = "split"
	Party     = "party"
	Path      = "path"
	Row       = "row"
	Column    = "column"
)

// Modes lists the supported dealer modes.
var Modes = []string{ModeShares, ModeMAC, ModeVertical}

// RandomnessSources lists the supported share randomness sources.
var RandomnessSources = []string{RandomnessCrypto, RandomnessChaCha20, RandomnessBlake2b}
