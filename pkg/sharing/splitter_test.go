// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package sharing_test

import (
	"bytes"
	"crypto/rand"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	. "github.com/carbynestack/sharecodec/pkg/sharing"
	"github.com/carbynestack/sharecodec/pkg/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Splitter", func() {
	var ring, field *codec.Modulus
	BeforeEach(func() {
		ring, _ = codec.NewRing(64)
		field, _ = codec.NewField(codec.Mersenne61)
	})

	Context("when creating a splitter", func() {
		It("requires at least two parties", func() {
			_, err := NewSplitter(ring, 1, rand.Reader)
			Expect(err).To(HaveOccurred())
		})
		It("requires a randomness source", func() {
			_, err := NewSplitter(ring, 2, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when splitting values", func() {
		It("reconstructs every value for any number of parties", func() {
			for _, m := range []*codec.Modulus{ring, field} {
				for n := 2; n <= 5; n++ {
					s, err := NewSplitter(m, n, rand.Reader)
					Expect(err).NotTo(HaveOccurred())
					for _, v := range []int64{0, 1, -1, 42, -98304, 1 << 40} {
						shares, err := s.Split(m.Reduce(big.NewInt(v)))
						Expect(err).NotTo(HaveOccurred())
						Expect(shares).To(HaveLen(n))
						for _, sh := range shares {
							Expect(sh.Sign()).To(BeNumerically(">=", 0))
							Expect(sh.Cmp(m.Int())).To(Equal(-1))
						}
						Expect(m.ToSigned(Reconstruct(m, shares)).Int64()).To(Equal(v))
					}
				}
			}
		})
		It("produces different shares for the same value", func() {
			s, _ := NewSplitter(ring, 2, rand.Reader)
			a, _ := s.Split(big.NewInt(7))
			b, _ := s.Split(big.NewInt(7))
			Expect(a[0].Cmp(b[0])).NotTo(Equal(0))
		})
		It("propagates failures of the randomness source", func() {
			s, _ := NewSplitter(ring, 2, bytes.NewReader(nil))
			_, err := s.Split(big.NewInt(7))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when choosing the randomness source", func() {
		It("supports every configured source", func() {
			for _, kind := range types.RandomnessSources {
				r, err := NewRandomSource(kind)
				Expect(err).NotTo(HaveOccurred())
				s, err := NewSplitter(field, 3, r)
				Expect(err).NotTo(HaveOccurred())
				shares, err := s.Split(big.NewInt(5))
				Expect(err).NotTo(HaveOccurred())
				Expect(Reconstruct(field, shares).Int64()).To(Equal(int64(5)))
			}
		})
		It("never yields the same keystream twice", func() {
			a, _ := NewRandomSource(types.RandomnessChaCha20)
			b, _ := NewRandomSource(types.RandomnessChaCha20)
			bufA := make([]byte, 32)
			bufB := make([]byte, 32)
			_, _ = a.Read(bufA)
			_, _ = b.Read(bufB)
			Expect(bufA).NotTo(Equal(bufB))
		})
		It("rejects unknown sources", func() {
			_, err := NewRandomSource("math/rand")
			Expect(err).To(HaveOccurred())
		})
	})
})
