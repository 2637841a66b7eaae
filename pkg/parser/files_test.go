package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hookd/pkg/parser"
)

var _ = Describe("Files", func() {
	Describe("WriteOp String", func() {
		It("names every operation", func() {
			Expect(parser.WriteOpNone.String()).To(Equal("None"))
			Expect(parser.WriteOpRedirect.String()).To(Equal("Redirect"))
			Expect(parser.WriteOpAppend.String()).To(Equal("Append"))
			Expect(parser.WriteOpTee.String()).To(Equal("Tee"))
			Expect(parser.WriteOpCopy.String()).To(Equal("Copy"))
			Expect(parser.WriteOpMove.String()).To(Equal("Move"))
			Expect(parser.WriteOpHeredoc.String()).To(Equal("Heredoc"))
		})

		It("returns Unknown for undefined WriteOp", func() {
			unknownOp := parser.WriteOp(99)
			Expect(unknownOp.String()).To(Equal("Unknown"))
		})
	})

	Describe("FileWrite", func() {
		It("converts to string with source command", func() {
			fw := parser.FileWrite{
				Path:      "output.txt",
				Operation: parser.WriteOpTee,
				Source:    "tee",
			}
			Expect(fw.String()).To(Equal("Tee tee -> output.txt"))
		})

		It("converts to string without source command", func() {
			fw := parser.FileWrite{
				Path:      "output.txt",
				Operation: parser.WriteOpRedirect,
			}
			Expect(fw.String()).To(Equal("Redirect -> output.txt"))
		})
	})

	Describe("File write detection in commands", func() {
		var p *parser.BashParser

		BeforeEach(func() {
			p = parser.NewBashParser()
		})

		Context("with redirections", func() {
			It("detects redirection to absolute path", func() {
				result, err := p.Parse("echo 'test' > /etc/motd")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))

				fw := result.FileWrites[0]
				Expect(fw.Path).To(Equal("/etc/motd"))
				Expect(fw.Operation).To(Equal(parser.WriteOpRedirect))
			})

			It("detects redirection to relative path", func() {
				result, err := p.Parse("echo 'test' > tmp/output.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))

				fw := result.FileWrites[0]
				Expect(fw.Path).To(Equal("tmp/output.txt"))
			})

			It("ignores input redirection", func() {
				result, err := p.Parse("wc -l < input.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(BeEmpty())
			})
		})

		Context("with tee command", func() {
			It("detects tee target", func() {
				result, err := p.Parse("echo 'test' | tee /var/log/app.log")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))

				fw := result.FileWrites[0]
				Expect(fw.Path).To(Equal("/var/log/app.log"))
				Expect(fw.Operation).To(Equal(parser.WriteOpTee))
				Expect(fw.Source).To(Equal("tee"))
			})

			It("skips tee flags", func() {
				result, err := p.Parse("echo 'test' | tee -a output.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))
				Expect(result.FileWrites[0].Path).To(Equal("output.txt"))
			})
		})

		Context("with cp/mv commands", func() {
			It("detects cp destination", func() {
				result, err := p.Parse("cp source.txt /backups/dest.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))

				fw := result.FileWrites[0]
				Expect(fw.Path).To(Equal("/backups/dest.txt"))
				Expect(fw.Operation).To(Equal(parser.WriteOpCopy))
				Expect(fw.Source).To(Equal("cp"))
			})

			It("detects mv destination", func() {
				result, err := p.Parse("mv old.txt archive/new.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(1))

				fw := result.FileWrites[0]
				Expect(fw.Path).To(Equal("archive/new.txt"))
				Expect(fw.Operation).To(Equal(parser.WriteOpMove))
			})

			It("ignores cp with a single argument", func() {
				result, err := p.Parse("cp source.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(BeEmpty())
			})
		})

		Context("with chained commands", func() {
			It("detects multiple file writes in order", func() {
				result, err := p.Parse("echo 'a' > a.txt && echo 'b' > b.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileWrites).To(HaveLen(2))

				Expect(result.FileWrites[0].Path).To(Equal("a.txt"))
				Expect(result.FileWrites[1].Path).To(Equal("b.txt"))
			})
		})
	})
})
