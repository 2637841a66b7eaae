package hookresponse_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/handler"
	"github.com/smykla-skalski/hookd/internal/hookresponse"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

var _ = Describe("NewEnvelope", func() {
	It("carries the bare result alongside the event-facing shape", func() {
		result := handler.Deny("no").MarkMatched("bash_guard")
		envelope := hookresponse.NewEnvelope("req-1", result, hook.EventTypePreToolUse, 4.2)

		Expect(envelope.RequestID).To(Equal("req-1"))
		Expect(envelope.Result.Decision).To(Equal("deny"))
		Expect(envelope.Result.Reason).To(Equal("no"))
		Expect(envelope.TimingMS).To(BeNumerically("~", 4.2))
		Expect(envelope.HandlersMatched).To(Equal([]string{"bash_guard"}))
		Expect(envelope.HookSpecificOutput).NotTo(BeNil())
		Expect(envelope.HookSpecificOutput.PermissionDecision).To(Equal("deny"))
	})

	It("flattens the event-facing fields to the top level of the JSON", func() {
		result := handler.Deny("output contains a secret")
		envelope := hookresponse.NewEnvelope("req-2", result, hook.EventTypePostToolUse, 1.0)

		data, err := json.Marshal(envelope)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())

		Expect(decoded).To(HaveKeyWithValue("decision", "block"))
		Expect(decoded).To(HaveKeyWithValue("reason", "output contains a secret"))
		Expect(decoded).To(HaveKeyWithValue("request_id", "req-2"))
		Expect(decoded).To(HaveKey("result"))
		Expect(decoded).To(HaveKey("timing_ms"))
		Expect(decoded).To(HaveKey("handlers_matched"))
	})

	It("treats a nil result as the implicit allow", func() {
		envelope := hookresponse.NewEnvelope("req-3", nil, hook.EventTypePreToolUse, 0.1)

		Expect(envelope.Result.Decision).To(Equal("allow"))
		Expect(envelope.HandlersMatched).To(BeEmpty())
		Expect(envelope.HandlersMatched).NotTo(BeNil())
	})
})

var _ = Describe("ErrorResponse", func() {
	It("omits the request id when none could be parsed", func() {
		data, err := json.Marshal(&hookresponse.ErrorResponse{Error: "invalid JSON"})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{"error": "invalid JSON"}`))
	})

	It("echoes the request id when available", func() {
		data, err := json.Marshal(&hookresponse.ErrorResponse{
			Error:     "missing event field",
			RequestID: "req-9",
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{"error": "missing event field", "request_id": "req-9"}`))
	})
})

var _ = Describe("FormatDisableHint", func() {
	It("names the disable command and the configuration key", func() {
		hint := hookresponse.FormatDisableHint("bash_guard")

		Expect(hint).To(ContainSubstring("hookd disable bash_guard"))
		Expect(hint).To(ContainSubstring("handlers.overrides.bash_guard.enabled"))
	})
})
