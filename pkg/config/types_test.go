package config_test

import (
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
)

// Tests are run as part of Config Suite from config_test.go.

var _ = Describe("Duration", func() {
	Describe("UnmarshalText", func() {
		It("should parse valid duration strings", func() {
			var d config.Duration
			err := d.UnmarshalText([]byte("10s"))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal("10s"))
		})

		It("should parse duration with multiple units", func() {
			var d config.Duration
			err := d.UnmarshalText([]byte("1h30m"))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal("1h30m0s"))
		})

		It("should return error for invalid duration format", func() {
			var d config.Duration
			err := d.UnmarshalText([]byte("invalid"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid duration"))
		})

		It("should return error for negative duration", func() {
			var d config.Duration
			err := d.UnmarshalText([]byte("-5s"))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrNegativeDuration)).To(BeTrue())
		})

		It("should accept zero duration", func() {
			var d config.Duration
			err := d.UnmarshalText([]byte("0s"))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.String()).To(Equal("0s"))
		})
	})

	Describe("MarshalText", func() {
		It("should marshal duration to text", func() {
			var d config.Duration
			_ = d.UnmarshalText([]byte("5m"))
			text, err := d.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(text)).To(Equal("5m0s"))
		})

		It("should marshal zero duration", func() {
			var d config.Duration
			text, err := d.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(text)).To(Equal("0s"))
		})
	})

	Describe("ToDuration", func() {
		It("should convert to time.Duration", func() {
			var d config.Duration
			_ = d.UnmarshalText([]byte("90s"))
			Expect(d.ToDuration()).To(Equal(90 * time.Second))
		})
	})
})
