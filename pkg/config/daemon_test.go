package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/config"
)

// Tests are run as part of Config Suite from config_test.go.

var _ = Describe("DaemonConfig", func() {
	Describe("GetSocket", func() {
		It("should return the default for a nil config", func() {
			var cfg *config.DaemonConfig
			Expect(cfg.GetSocket()).To(Equal(config.DefaultSocketPath))
		})

		It("should return the default when empty", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetSocket()).To(Equal(config.DefaultSocketPath))
		})

		It("should return the configured socket path", func() {
			cfg := &config.DaemonConfig{Socket: "/run/hookd.sock"}
			Expect(cfg.GetSocket()).To(Equal("/run/hookd.sock"))
		})
	})

	Describe("GetPidFile", func() {
		It("should return the default when empty", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetPidFile()).To(Equal(config.DefaultPidFile))
		})

		It("should return the configured pid file", func() {
			cfg := &config.DaemonConfig{PidFile: "/run/hookd.pid"}
			Expect(cfg.GetPidFile()).To(Equal("/run/hookd.pid"))
		})
	})

	Describe("GetIdleTimeout", func() {
		It("should return the default when zero", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetIdleTimeout()).To(Equal(config.DefaultIdleTimeout))
		})

		It("should return the configured timeout", func() {
			cfg := &config.DaemonConfig{IdleTimeout: config.Duration(time.Second)}
			Expect(cfg.GetIdleTimeout()).To(Equal(time.Second))
		})
	})

	Describe("GetIdlePollInterval", func() {
		It("should return the default when zero", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetIdlePollInterval()).To(Equal(config.DefaultIdlePollInterval))
		})

		It("should return the configured interval", func() {
			cfg := &config.DaemonConfig{IdlePollInterval: config.Duration(time.Second)}
			Expect(cfg.GetIdlePollInterval()).To(Equal(time.Second))
		})
	})

	Describe("GetGracePeriod", func() {
		It("should return the default when zero", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetGracePeriod()).To(Equal(config.DefaultGracePeriod))
		})
	})

	Describe("GetMaxConnections", func() {
		It("should return the default when zero", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.GetMaxConnections()).To(Equal(config.DefaultMaxConnections))
		})

		It("should return the default when negative", func() {
			cfg := &config.DaemonConfig{MaxConnections: -1}
			Expect(cfg.GetMaxConnections()).To(Equal(config.DefaultMaxConnections))
		})

		It("should return the configured cap", func() {
			cfg := &config.DaemonConfig{MaxConnections: 8}
			Expect(cfg.GetMaxConnections()).To(Equal(8))
		})
	})

	Describe("IsStrictInputEnabled", func() {
		It("should fail open by default", func() {
			cfg := &config.DaemonConfig{}
			Expect(cfg.IsStrictInputEnabled()).To(BeFalse())
		})

		It("should return false for a nil config", func() {
			var cfg *config.DaemonConfig
			Expect(cfg.IsStrictInputEnabled()).To(BeFalse())
		})

		It("should return true when enabled", func() {
			strict := true
			cfg := &config.DaemonConfig{StrictInput: &strict}
			Expect(cfg.IsStrictInputEnabled()).To(BeTrue())
		})
	})
})
