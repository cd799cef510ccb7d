// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package codec_test

import (
	"crypto/rand"
	"math/big"

	. "github.com/carbynestack/sharecodec/pkg/codec"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Modulus", func() {
	Context("when parsing a modulus", func() {
		It("recognises 2^64 as a ring", func() {
			m, err := ParseModulus("2^64")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsRing()).To(BeTrue())
			Expect(m.Bits()).To(Equal(64))
			Expect(m.String()).To(Equal("Z_2^64"))
		})
		It("accepts the python power notation", func() {
			m, err := ParseModulus("2**32")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsRing()).To(BeTrue())
			Expect(m.Bits()).To(Equal(32))
		})
		It("recognises 2^61-1 as a field", func() {
			m, err := ParseModulus("2^61-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Kind()).To(Equal(Field))
			Expect(m.Int().String()).To(Equal(Mersenne61.String()))
		})
		It("treats a decimal power of two as a ring", func() {
			m, err := ParseModulus("18446744073709551616")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsRing()).To(BeTrue())
			Expect(m.Bits()).To(Equal(64))
		})
		It("accepts a decimal prime", func() {
			m, err := ParseModulus("172035116406933162231178957667602464769")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsRing()).To(BeFalse())
		})
		It("rejects composite numbers", func() {
			_, err := ParseModulus("15")
			Expect(err).To(HaveOccurred())
		})
		It("rejects garbage", func() {
			_, err := ParseModulus("p")
			Expect(err).To(HaveOccurred())
			_, err = ParseModulus("")
			Expect(err).To(HaveOccurred())
		})
		It("rejects a one bit ring", func() {
			_, err := ParseModulus("2")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when interpreting signed values", func() {
		var ring, field *Modulus
		BeforeEach(func() {
			ring, _ = NewRing(64)
			field, _ = NewField(Mersenne61)
		})
		It("maps the upper half of a ring to negative values", func() {
			x := ring.Reduce(big.NewInt(-5))
			Expect(x.Sign()).To(Equal(1))
			Expect(ring.ToSigned(x).String()).To(Equal("-5"))
		})
		It("uses two's complement at exactly half the ring", func() {
			half := ring.Half()
			Expect(ring.ToSigned(half).String()).To(Equal(new(big.Int).Neg(half).String()))
		})
		It("keeps floor(p/2) positive in a field", func() {
			half := field.Half()
			Expect(field.ToSigned(half).String()).To(Equal(half.String()))
			above := new(big.Int).Add(half, big.NewInt(1))
			Expect(field.ToSigned(above).Sign()).To(Equal(-1))
		})
		It("is undone by FromSigned", func() {
			for _, m := range []*Modulus{ring, field} {
				x := m.Reduce(big.NewInt(-123456))
				Expect(m.FromSigned(m.ToSigned(x)).String()).To(Equal(x.String()))
			}
		})
		It("is a no-op on values already signed", func() {
			for _, m := range []*Modulus{ring, field} {
				for _, v := range []int64{-7, 0, 1, 12345} {
					once := m.ToSigned(big.NewInt(v))
					Expect(m.ToSigned(once).String()).To(Equal(once.String()))
					Expect(once.String()).To(Equal(big.NewInt(v).String()))
				}
			}
		})
	})

	Context("when formatting values for the engine", func() {
		It("writes ring elements as signed 64 bit integers", func() {
			ring, _ := NewRing(64)
			Expect(ring.Format(big.NewInt(-1))).To(Equal("-1"))
			max := new(big.Int).Sub(ring.Int(), big.NewInt(1))
			Expect(ring.Format(max)).To(Equal("-1"))
		})
		It("writes field elements in [0, p)", func() {
			field, _ := NewField(Mersenne61)
			Expect(field.Format(big.NewInt(-1))).To(Equal(new(big.Int).Sub(Mersenne61, big.NewInt(1)).String()))
		})
		It("parses what it formats", func() {
			ring, _ := NewRing(64)
			v, err := ring.Parse(ring.Format(big.NewInt(-42)))
			Expect(err).NotTo(HaveOccurred())
			Expect(v.String()).To(Equal(ring.Reduce(big.NewInt(-42)).String()))
			_, err = ring.Parse("4.2")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when drawing random elements", func() {
		It("stays inside [0, m)", func() {
			field, _ := NewField(Mersenne61)
			for i := 0; i < 100; i++ {
				v, err := field.Random(rand.Reader)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.Sign()).To(BeNumerically(">=", 0))
				Expect(v.Cmp(Mersenne61)).To(Equal(-1))
			}
		})
	})
})
