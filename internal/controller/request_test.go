package controller_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/controller"
	"github.com/smykla-skalski/hookd/internal/hookresponse"
	"github.com/smykla-skalski/hookd/pkg/config"
)

var _ = Describe("ProcessRequest", func() {
	var (
		c   *controller.Controller
		ctx context.Context
	)

	denyForcePushConfig := func() *config.Config {
		return &config.Config{
			Handlers: builtinsDisabled(),
			Rules: &config.RulesConfig{
				Rules: []config.RuleConfig{{
					Name:   "deny-force-push",
					Events: []string{"PreToolUse"},
					Match: &config.RuleMatchConfig{
						Commands: []string{"git push --force*"},
					},
					Action: &config.RuleActionConfig{
						Decision: "deny",
						Reason:   "force push is blocked",
					},
				}},
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		c = newController(denyForcePushConfig())
	})

	It("replies with an error and no request id to malformed JSON", func() {
		reply := c.ProcessRequest(ctx, []byte(`{invalid json`))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring("malformed request"))
		Expect(errReply.RequestID).To(BeEmpty())
	})

	It("rejects a request without an event, echoing the request id", func() {
		reply := c.ProcessRequest(ctx, []byte(`{"hook_input":{},"request_id":"r1"}`))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring("missing required field: event"))
		Expect(errReply.RequestID).To(Equal("r1"))
	})

	It("rejects a request without hook_input", func() {
		reply := c.ProcessRequest(ctx, []byte(`{"event":"PreToolUse","request_id":"r2"}`))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring("missing required field: hook_input"))
		Expect(errReply.RequestID).To(Equal("r2"))
	})

	It("treats a null hook_input as missing", func() {
		reply := c.ProcessRequest(ctx, []byte(`{"event":"PreToolUse","hook_input":null,"request_id":"r3"}`))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring("hook_input"))
	})

	It("rejects an unknown event name", func() {
		reply := c.ProcessRequest(ctx, []byte(`{"event":"NotAnEvent","hook_input":{},"request_id":"r4"}`))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring(`unknown event type "NotAnEvent"`))
		Expect(errReply.RequestID).To(Equal("r4"))
	})

	It("dispatches a well-formed request into an envelope", func() {
		line := `{"event":"PreToolUse","hook_input":` + forcePushInput + `,"request_id":"abc"}`

		reply := c.ProcessRequest(ctx, []byte(line))

		envelope, ok := reply.(*hookresponse.Envelope)
		Expect(ok).To(BeTrue())
		Expect(envelope.RequestID).To(Equal("abc"))
		Expect(envelope.Result.Decision).To(Equal("deny"))
		Expect(envelope.Result.Reason).To(ContainSubstring("force push is blocked"))
		Expect(envelope.HandlersMatched).To(ContainElement("deny-force-push"))
		Expect(envelope.TimingMS).To(BeNumerically(">=", 0))
	})

	It("accepts snake_case event names", func() {
		line := `{"event":"pre_tool_use","hook_input":` + forcePushInput + `,"request_id":"snake"}`

		reply := c.ProcessRequest(ctx, []byte(line))

		envelope, ok := reply.(*hookresponse.Envelope)
		Expect(ok).To(BeTrue())
		Expect(envelope.Result.Decision).To(Equal("deny"))
	})

	It("dispatches anyway when hook_input fails validation", func() {
		log := &capturingLogger{}
		c := newController(denyForcePushConfig(), controller.WithLogger(log))

		line := `{"event":"PreToolUse","hook_input":{"tool_name":42},"request_id":"r5"}`

		reply := c.ProcessRequest(ctx, []byte(line))

		envelope, ok := reply.(*hookresponse.Envelope)
		Expect(ok).To(BeTrue())
		Expect(envelope.RequestID).To(Equal("r5"))
		Expect(envelope.Result.Decision).To(Equal("allow"))
		Expect(log.warned("hook_input failed validation")).To(BeTrue())
	})

	It("rejects invalid hook_input in strict mode", func() {
		cfg := denyForcePushConfig()
		cfg.Daemon = &config.DaemonConfig{StrictInput: ptrBool(true)}
		c := newController(cfg)

		line := `{"event":"PreToolUse","hook_input":{"tool_name":42},"request_id":"r6"}`

		reply := c.ProcessRequest(ctx, []byte(line))

		errReply, ok := reply.(*hookresponse.ErrorResponse)
		Expect(ok).To(BeTrue())
		Expect(errReply.Error).To(ContainSubstring("input_validation_failed"))
		Expect(errReply.RequestID).To(Equal("r6"))
	})

	It("counts protocol errors in the stats", func() {
		c.ProcessRequest(ctx, []byte(`{invalid`))
		c.ProcessRequest(ctx, []byte(`{"hook_input":{}}`))

		Expect(c.StatsSnapshot().Errors).To(Equal(2))
	})

	It("serializes every reply shape to JSON", func() {
		lines := []string{
			`{invalid`,
			`{"event":"PreToolUse","hook_input":` + forcePushInput + `,"request_id":"x"}`,
			`{"event":"_system","hook_input":{"command":"ping"},"request_id":"y"}`,
		}

		for _, line := range lines {
			reply := c.ProcessRequest(ctx, []byte(line))

			_, err := json.Marshal(reply)
			Expect(err).NotTo(HaveOccurred())
		}
	})

	Describe("system commands", func() {
		It("answers ping with the version", func() {
			c := newController(denyForcePushConfig(), controller.WithVersion("1.2.3"))

			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"ping"},"request_id":"p1"}`))

			ping, ok := reply.(*controller.PingReply)
			Expect(ok).To(BeTrue())
			Expect(ping.Status).To(Equal("ok"))
			Expect(ping.Version).To(Equal("1.2.3"))
			Expect(ping.RequestID).To(Equal("p1"))
		})

		It("reports stats and handler counts in status", func() {
			line := `{"event":"PreToolUse","hook_input":` + forcePushInput + `,"request_id":"s0"}`
			c.ProcessRequest(ctx, []byte(line))

			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"status"},"request_id":"s1"}`))

			status, ok := reply.(*controller.StatusReply)
			Expect(ok).To(BeTrue())
			Expect(status.RequestID).To(Equal("s1"))
			Expect(status.Stats.RequestsProcessed).To(Equal(1))
			Expect(status.Handlers["PreToolUse"]).To(Equal(1))
		})

		It("returns recent records newest first, bounded by count", func() {
			line := `{"event":"PreToolUse","hook_input":` + forcePushInput + `,"request_id":"h0"}`
			c.ProcessRequest(ctx, []byte(line))
			c.ProcessRequest(ctx, []byte(line))

			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"recent","count":1},"request_id":"h1"}`))

			recent, ok := reply.(*controller.RecentReply)
			Expect(ok).To(BeTrue())
			Expect(recent.Records).To(HaveLen(1))
			Expect(recent.Records[0].Handler).To(Equal("deny-force-push"))
		})

		It("defaults the recent count when none is given", func() {
			line := `{"event":"PreToolUse","hook_input":` + forcePushInput + `,"request_id":"h2"}`
			c.ProcessRequest(ctx, []byte(line))

			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"recent"},"request_id":"h3"}`))

			recent, ok := reply.(*controller.RecentReply)
			Expect(ok).To(BeTrue())
			Expect(recent.Records).To(HaveLen(1))
		})

		It("acknowledges shutdown and fires the installed callback", func() {
			done := make(chan struct{})
			c.SetShutdownFunc(func() { close(done) })

			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"shutdown"},"request_id":"d1"}`))

			ack, ok := reply.(*controller.ShutdownReply)
			Expect(ok).To(BeTrue())
			Expect(ack.Status).To(Equal("shutting_down"))
			Expect(ack.RequestID).To(Equal("d1"))

			Eventually(done).Should(BeClosed())
		})

		It("rejects shutdown when no callback is installed", func() {
			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"shutdown"},"request_id":"d2"}`))

			errReply, ok := reply.(*hookresponse.ErrorResponse)
			Expect(ok).To(BeTrue())
			Expect(errReply.Error).To(ContainSubstring("shutdown is not available"))
		})

		It("rejects an unknown command", func() {
			reply := c.ProcessRequest(ctx, []byte(`{"event":"_system","hook_input":{"command":"zap"},"request_id":"u1"}`))

			errReply, ok := reply.(*hookresponse.ErrorResponse)
			Expect(ok).To(BeTrue())
			Expect(errReply.Error).To(ContainSubstring(`unknown _system command "zap"`))
			Expect(errReply.RequestID).To(Equal("u1"))
		})
	})
})
