// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio_test

import (
	"errors"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"

	"github.com/carbynestack/sharecodec/pkg/codec"
	. "github.com/carbynestack/sharecodec/pkg/spdzio"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Matrix", func() {
	var (
		dir  string
		fio  utils.FileIO
		ring *codec.Modulus
	)
	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "sharecodec_spdzio_")
		Expect(err).NotTo(HaveOccurred())
		fio = &utils.OSFileIO{}
		ring, _ = codec.NewRing(64)
	})
	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	Context("when marshalling", func() {
		It("writes one space separated line per row", func() {
			m := Matrix{
				{big.NewInt(1), ring.Reduce(big.NewInt(-2))},
				{big.NewInt(3), big.NewInt(4)},
			}
			Expect(string(Marshal(ring, m))).To(Equal("1 -2\n3 4\n"))
		})
		It("keeps zero column rows as empty lines", func() {
			m := NewMatrix(3, 0)
			Expect(string(Marshal(ring, m))).To(Equal("\n\n\n"))
		})
	})

	Context("when unmarshalling", func() {
		It("reads what was written", func() {
			path := filepath.Join(dir, "Input-P0-0")
			m := Matrix{{big.NewInt(-7), big.NewInt(8)}}
			Expect(WriteMatrix(fio, path, ring, m)).To(Succeed())
			back, err := ReadMatrix(fio, "share file", path)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Rows()).To(Equal(1))
			Expect(back.Cols()).To(Equal(2))
			Expect(back[0][0].String()).To(Equal("-7"))
			Expect(back[0][1].String()).To(Equal("8"))
		})
		It("preserves the row count of zero column files", func() {
			m, err := Unmarshal("f", []byte("\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Rows()).To(Equal(2))
			Expect(m.Cols()).To(Equal(0))
		})
		It("rejects ragged rows", func() {
			_, err := Unmarshal("f", []byte("1 2\n3\n"))
			var dme *types.DimensionMismatchError
			Expect(errors.As(err, &dme)).To(BeTrue())
			Expect(dme.Expected).To(Equal(2))
			Expect(dme.Actual).To(Equal(1))
		})
		It("rejects non-integer cells", func() {
			_, err := Unmarshal("f", []byte("1 2.5\n"))
			var dfe *types.DataFormatError
			Expect(errors.As(err, &dfe)).To(BeTrue())
			Expect(dfe.Row).To(Equal(0))
			Expect(dfe.Column).To(Equal(1))
		})
		It("reports missing files", func() {
			_, err := ReadMatrix(fio, "result", filepath.Join(dir, "nope"))
			var nf *types.NotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.What).To(Equal("result"))
		})
	})

	Context("when accessing cells", func() {
		It("flattens row by row and extracts columns", func() {
			m := Matrix{
				{big.NewInt(1), big.NewInt(2)},
				{big.NewInt(3), big.NewInt(4)},
			}
			var flat []string
			for _, v := range m.Flatten() {
				flat = append(flat, v.String())
			}
			Expect(flat).To(Equal([]string{"1", "2", "3", "4"}))
			col := m.Column(1)
			Expect(col[0].String()).To(Equal("2"))
			Expect(col[1].String()).To(Equal("4"))
		})
	})

	Context("when handling scalars", func() {
		It("round trips a key share", func() {
			field, _ := codec.NewField(codec.Mersenne61)
			path := filepath.Join(dir, "alpha0.txt")
			Expect(WriteScalar(fio, path, field, big.NewInt(-1))).To(Succeed())
			v, err := ReadScalar(fio, "key share", path)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.String()).To(Equal(new(big.Int).Sub(codec.Mersenne61, big.NewInt(1)).String()))
		})
		It("rejects files with more than one value", func() {
			path := filepath.Join(dir, "alpha0.txt")
			Expect(ioutil.WriteFile(path, []byte("1 2\n"), 0644)).To(Succeed())
			_, err := ReadScalar(fio, "key share", path)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when measuring files", func() {
		It("returns rows and columns", func() {
			path := filepath.Join(dir, "Input-P1-1")
			Expect(ioutil.WriteFile(path, []byte("1 2 3\n4 5 6\n"), 0644)).To(Succeed())
			rows, cols, err := Dimensions(fio, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(2))
			Expect(cols).To(Equal(3))
		})
	})
})
