// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package dataset_test

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	. "github.com/carbynestack/sharecodec/pkg/dataset"
	"github.com/carbynestack/sharecodec/pkg/types"
	"github.com/carbynestack/sharecodec/pkg/utils"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dataset", func() {
	Context("when parsing CSV input", func() {
		It("reads rows of numbers with the label last", func() {
			ds, err := Parse("mem", strings.NewReader("1.5,-2,0\n3, 4e-2 ,1\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ds.Len()).To(Equal(2))
			Expect(ds.Cols()).To(Equal(3))
			Expect(ds.Features()).To(Equal(2))
			Expect(ds.IsLabel(2)).To(BeTrue())
			Expect(ds.Rows[1]).To(Equal([]float64{3, 0.04, 1}))
		})
		It("rejects ragged rows", func() {
			_, err := Parse("mem", strings.NewReader("1,2,0\n3,1\n"))
			var dfe *types.DataFormatError
			Expect(errors.As(err, &dfe)).To(BeTrue())
			Expect(dfe.Row).To(Equal(1))
		})
		It("rejects non-numeric cells", func() {
			_, err := Parse("mem", strings.NewReader("1,2,0\n3,abc,1\n"))
			var dfe *types.DataFormatError
			Expect(errors.As(err, &dfe)).To(BeTrue())
			Expect(dfe.Row).To(Equal(1))
			Expect(dfe.Column).To(Equal(1))
		})
		It("rejects missing values", func() {
			_, err := Parse("mem", strings.NewReader("1,,0\n"))
			var dfe *types.DataFormatError
			Expect(errors.As(err, &dfe)).To(BeTrue())
		})
		It("rejects non-finite cells", func() {
			_, err := Parse("mem", strings.NewReader("1,NaN,0\n"))
			var dfe *types.DataFormatError
			Expect(errors.As(err, &dfe)).To(BeTrue())
			_, err = Parse("mem", strings.NewReader("1,+Inf,0\n"))
			Expect(errors.As(err, &dfe)).To(BeTrue())
		})
		It("rejects empty input and label-only tables", func() {
			_, err := Parse("mem", strings.NewReader(""))
			Expect(err).To(HaveOccurred())
			_, err = Parse("mem", strings.NewReader("1\n0\n"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when loading from disk", func() {
		It("returns a not found error for a missing file", func() {
			_, err := Load(&utils.OSFileIO{}, filepath.Join(os.TempDir(), "does-not-exist-sharecodec.csv"))
			var nf *types.NotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.What).To(Equal("dataset"))
		})
		It("loads an existing file", func() {
			f, err := ioutil.TempFile("", "sharecodec_*.csv")
			Expect(err).NotTo(HaveOccurred())
			defer os.Remove(f.Name())
			_, _ = f.WriteString("1,2,1\n")
			_ = f.Close()
			ds, err := Load(&utils.OSFileIO{}, f.Name())
			Expect(err).NotTo(HaveOccurred())
			Expect(ds.Len()).To(Equal(1))
		})
	})

	Context("when splitting into train and test", func() {
		var ds *Dataset
		BeforeEach(func() {
			ds, _ = Parse("mem", strings.NewReader("0,0\n1,1\n2,0\n3,1\n4,0\n5,1\n6,0\n7,1\n8,0\n9,1\n"))
		})
		It("keeps the order and rounds the test part up", func() {
			train, test, err := ds.Split(0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(train.Len()).To(Equal(7))
			Expect(test.Len()).To(Equal(3))
			Expect(train.Rows[0][0]).To(Equal(0.0))
			Expect(test.Rows[0][0]).To(Equal(7.0))
		})
		It("allows an empty test part that keeps the column count", func() {
			train, test, err := ds.Split(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(train.Len()).To(Equal(10))
			Expect(test.Len()).To(Equal(0))
			Expect(test.Features()).To(Equal(1))
		})
		It("rejects sizes that leave no training rows", func() {
			_, _, err := ds.Split(1)
			Expect(err).To(HaveOccurred())
			_, _, err = ds.Split(-0.1)
			Expect(err).To(HaveOccurred())
		})
	})
})
