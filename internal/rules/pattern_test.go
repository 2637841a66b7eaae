package rules_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/internal/rules"
)

var _ = Describe("DetectPatternType", func() {
	DescribeTable("classifies patterns",
		func(pattern string, expected rules.PatternType) {
			Expect(rules.DetectPatternType(pattern)).To(Equal(expected))
		},
		Entry("plain glob", "git push*", rules.PatternTypeGlob),
		Entry("glob with dot", "*.tmp", rules.PatternTypeGlob),
		Entry("start anchor", "^git", rules.PatternTypeRegex),
		Entry("end anchor", "push$", rules.PatternTypeRegex),
		Entry("character class", "[0-9]+", rules.PatternTypeRegex),
		Entry("alternation", "push|pull", rules.PatternTypeRegex),
		Entry("whitespace class", `git\s+push`, rules.PatternTypeRegex),
	)
})

var _ = Describe("CompilePattern", func() {
	compile := func(pattern string, opts rules.PatternOptions) rules.Pattern {
		compiled, err := rules.CompilePattern(pattern, opts)
		Expect(err).NotTo(HaveOccurred())

		return compiled
	}

	It("compiles glob patterns", func() {
		p := compile("git push*", rules.PatternOptions{})
		Expect(p.Match("git push --force")).To(BeTrue())
		Expect(p.Match("git pull")).To(BeFalse())
	})

	It("compiles regex patterns", func() {
		p := compile(`^git\s+push`, rules.PatternOptions{})
		Expect(p.Match("git  push origin")).To(BeTrue())
		Expect(p.Match("echo git push")).To(BeFalse())
	})

	It("inverts negated patterns", func() {
		p := compile("!git*", rules.PatternOptions{})
		Expect(p.Match("git push")).To(BeFalse())
		Expect(p.Match("make test")).To(BeTrue())
		Expect(p.String()).To(Equal("!git*"))
	})

	It("matches globs case-insensitively when asked", func() {
		p := compile("BASH", rules.PatternOptions{CaseInsensitive: true})
		Expect(p.Match("bash")).To(BeTrue())
		Expect(p.Match("Bash")).To(BeTrue())
	})

	It("matches regexes case-insensitively when asked", func() {
		p := compile("^deploy$", rules.PatternOptions{CaseInsensitive: true})
		Expect(p.Match("DEPLOY")).To(BeTrue())
	})

	It("rejects an invalid regex", func() {
		_, err := rules.CompilePattern("[", rules.PatternOptions{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("CompilePatterns", func() {
	It("compiles every pattern in the list", func() {
		patterns, err := rules.CompilePatterns([]string{"a*", "^b"}, rules.PatternOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(patterns).To(HaveLen(2))
	})

	It("fails on the first invalid pattern", func() {
		_, err := rules.CompilePatterns([]string{"ok*", "["}, rules.PatternOptions{})
		Expect(err).To(HaveOccurred())
	})
})
