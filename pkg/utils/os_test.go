// Copyright (c) 2021-2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package utils_test

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/carbynestack/sharecodec/pkg/utils"
)

var _ = Describe("OS utils", func() {
	Context("when reading a file", func() {
		var (
			fileName string
			random   int32
		)
		BeforeEach(func() {
			rand.Seed(time.Now().UnixNano())
			random = rand.Int31()
			fileName = filepath.Join(os.TempDir(), fmt.Sprintf("config-%d.json", random))
		})
		AfterEach(func() {
			_ = os.Remove(fileName)
		})
		It("reads file content", func() {
			data := []byte(`a`)
			err := ioutil.WriteFile(fileName, data, 0644)
			Expect(err).NotTo(HaveOccurred())
			content, err := ReadFile(fileName)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("a"))
		})
		It("follows symlinks", func() {
			link := fileName + ".link"
			Expect(ioutil.WriteFile(fileName, []byte(`b`), 0644)).To(Succeed())
			Expect(os.Symlink(fileName, link)).To(Succeed())
			defer os.Remove(link)
			content, err := ReadFile(link)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("b"))
		})
		Context("when file does not exists", func() {
			It("returns an error", func() {
				content, err := ReadFile(fileName)
				Expect(err).To(HaveOccurred())
				Expect(len(content)).To(Equal(0))
			})
		})
	})
})
