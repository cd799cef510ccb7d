// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package spdzio_test

import (
	"path/filepath"

	. "github.com/carbynestack/sharecodec/pkg/spdzio"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Layout", func() {
	It("names the engine files", func() {
		l := NewLayout("out")
		Expect(l.Input(1, 0)).To(Equal("out/Input-P1-0"))
		Expect(l.MAC(0, 1)).To(Equal("out/MAC-P0-1"))
		Expect(l.Key(2)).To(Equal("out/alpha2.txt"))
		Expect(l.Metadata()).To(Equal("out/metadata.txt"))
	})
	It("defaults to Player-Data", func() {
		Expect(NewLayout("").Input(0, 0)).To(Equal("Player-Data/Input-P0-0"))
	})
	It("matches the files of any number of parties", func() {
		l := NewLayout("out")
		for _, path := range []string{l.Input(7, 1), l.MAC(3, 0), l.Key(12), l.Metadata()} {
			matched := false
			for _, pattern := range l.Artifacts() {
				ok, err := filepath.Match(pattern, path)
				Expect(err).NotTo(HaveOccurred())
				matched = matched || ok
			}
			Expect(matched).To(BeTrue(), path)
		}
		ok, _ := filepath.Match(l.Artifacts()[0], l.Result("predictions.txt", 0))
		Expect(ok).To(BeFalse())
	})
	It("resolves result names per party", func() {
		l := NewLayout("out")
		Expect(l.Result("Output-P%d-0", 1)).To(Equal("out/Output-P1-0"))
		Expect(l.Result("predictions.txt", 0)).To(Equal("out/predictions.txt"))
		Expect(l.Result("/tmp/predictions.txt", 0)).To(Equal("/tmp/predictions.txt"))
	})
})
