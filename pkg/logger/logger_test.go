// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package logger_test

import (
	. "github.com/carbynestack/sharecodec/pkg/logger"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
)

var _ = Describe("Logger", func() {
	It("builds a development logger at debug level", func() {
		l, err := NewLogger(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Desugar().Core().Enabled(zapcore.DebugLevel)).To(BeTrue())
	})
	It("builds a production logger at info level", func() {
		l, err := NewLogger(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Desugar().Core().Enabled(zapcore.DebugLevel)).To(BeFalse())
		Expect(l.Desugar().Core().Enabled(zapcore.InfoLevel)).To(BeTrue())
	})
})
