package loader_test

import (
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/loader"
)

var _ = Describe("ParseWords", func() {
	DescribeTable("literal forms",
		func(text string, want uint32) {
			words, err := loader.ParseWords(strings.NewReader(text))

			Expect(err).NotTo(HaveOccurred())
			Expect(words).To(Equal([]uint32{want}))
		},
		Entry("hex", "0x00208233", uint32(0x00208233)),
		Entry("upper hex", "0XFFF08193", uint32(0xFFF08193)),
		Entry("binary with separators", "0b0100000_00010_00001_000_00101_0110011", uint32(0x402082B3)),
		Entry("decimal", "19", uint32(19)),
		Entry("surrounding space", "  \t0x13  ", uint32(0x13)),
	)

	It("should skip comments and blank lines", func() {
		text := `
# header comment
0x13 # nop

// another comment
0x00208233 // add x4, x1, x2
`
		words, err := loader.ParseWords(strings.NewReader(text))

		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(Equal([]uint32{0x13, 0x00208233}))
	})

	It("should return an empty image for empty input", func() {
		words, err := loader.ParseWords(strings.NewReader(""))

		Expect(err).NotTo(HaveOccurred())
		Expect(words).To(BeEmpty())
	})

	It("should report the offending line", func() {
		_, err := loader.ParseWords(strings.NewReader("0x13\n\n0xzz\n"))

		Expect(err).To(MatchError(ContainSubstring(`line 3: invalid word "0xzz"`)))
	})

	It("should reject values wider than 32 bits", func() {
		_, err := loader.ParseWords(strings.NewReader("0x100000000"))

		Expect(err).To(MatchError(strconv.ErrRange))
	})
})
