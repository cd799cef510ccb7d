// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio_test

import (
	"encoding/base64"
	"math/big"

	"github.com/carbynestack/sharecodec/pkg/codec"
	. "github.com/carbynestack/sharecodec/pkg/spdzio"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Output converters", func() {
	Context("when converting Montgomery field output", func() {
		var conv OutputConverter
		BeforeEach(func() {
			p, _ := new(big.Int).SetString("172035116406933162231178957667602464769", 10)
			rInv, _ := new(big.Int).SetString("116525037434575252203671714714489805504", 10)
			field, err := codec.NewField(p)
			Expect(err).NotTo(HaveOccurred())
			conv, err = NewOutputConverter(field, rInv)
			Expect(err).NotTo(HaveOccurred())
		})
		It("returns the plain integer", func() {
			word, _ := base64.StdEncoding.DecodeString("Jf8uKaLlN9MhlQdaTPP1Rw==")
			values, err := conv.Convert(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(1))
			Expect(values[0].String()).To(Equal("111"))
		})
		It("splits multiple words", func() {
			word, _ := base64.StdEncoding.DecodeString("Jf8uKaLlN9MhlQdaTPP1Rw==")
			values, err := conv.Convert(append(word, word...))
			Expect(err).NotTo(HaveOccurred())
			Expect(values).To(HaveLen(2))
		})
		It("rejects partial words", func() {
			_, err := conv.Convert(make([]byte, 1))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix(ErrInvalidWordSize))
		})
		It("requires the Montgomery inverse", func() {
			field, _ := codec.NewField(codec.Mersenne61)
			_, err := NewOutputConverter(field, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when converting ring output", func() {
		It("reads little endian words", func() {
			ring, _ := codec.NewRing(64)
			conv, err := NewOutputConverter(ring, nil)
			Expect(err).NotTo(HaveOccurred())
			in := []byte{
				0x02, 0, 0, 0, 0, 0, 0, 0,
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			}
			values, err := conv.Convert(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(values[0].String()).To(Equal("2"))
			Expect(ring.ToSigned(values[1]).String()).To(Equal("-1"))
		})
		It("has no format for rings that are not byte aligned", func() {
			ring, _ := codec.NewRing(12)
			_, err := NewOutputConverter(ring, nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
