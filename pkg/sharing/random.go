//
// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package sharing

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/chacha20"
)

// NewRandomSource returns the cryptographically secure reader share randomness is drawn from. None of the sources can
// be seeded: a predictable share generator breaks the hiding property.
func NewRandomSource(kind string) (io.Reader, error) {
	switch kind {
	case "", types.RandomnessCrypto:
		return rand.Reader, nil
	case types.RandomnessChaCha20:
		return newChaChaReader()
	case types.RandomnessBlake2b:
		prng, err := utils.NewPRNG()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create keyed PRNG")
		}
		return prng, nil
	default:
		return nil, fmt.Errorf("unsupported randomness source %q", kind)
	}
}

// chachaReader streams the ChaCha20 keystream of a key drawn from crypto/rand.
type chachaReader struct {
	cipher *chacha20.Cipher
}

func newChaChaReader() (*chachaReader, error) {
	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Wrap(err, "failed to read chacha20 key")
	}
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "failed to read chacha20 nonce")
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	return &chachaReader{cipher: c}, nil
}

// Read fills p with keystream bytes.
func (r *chachaReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
