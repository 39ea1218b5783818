package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	var (
		rawText string
		result  Result
	)

	JustBeforeEach(func() {
		result = Parse(rawText)
	})

	When("parsing valid JSON", func() {
		BeforeEach(func() {
			rawText = `{"merchant_name": "CVS Pharmacy", "total": 25.99}`
		})

		It("returns the mapping unmodified", func() {
			Expect(result).NotTo(BeNil())
			Expect(result["merchant_name"]).To(Equal("CVS Pharmacy"))
			Expect(result["total"]).To(Equal(25.99))
		})

		It("is not a failure record", func() {
			Expect(result.Failed()).To(BeFalse())
		})
	})

	When("the reply is wrapped in a json code fence", func() {
		BeforeEach(func() {
			rawText = "```json\n{\"total\": 5.00}\n```"
		})

		It("parses the fenced payload", func() {
			Expect(result.Failed()).To(BeFalse())
			Expect(result["total"]).To(Equal(5.00))
		})

		It("returns the same mapping as the unwrapped text", func() {
			Expect(result).To(Equal(Parse(`{"total": 5.00}`)))
		})
	})

	When("the reply is wrapped in a bare code fence", func() {
		BeforeEach(func() {
			rawText = "```\n{\"total\": 12.30}\n```"
		})

		It("parses the fenced payload", func() {
			Expect(result.Failed()).To(BeFalse())
			Expect(result["total"]).To(Equal(12.30))
		})
	})

	When("only a trailing fence is present", func() {
		BeforeEach(func() {
			rawText = "{\"total\": 1.00}\n```"
		})

		It("parses the payload", func() {
			Expect(result.Failed()).To(BeFalse())
			Expect(result["total"]).To(Equal(1.00))
		})
	})

	When("the reply has surrounding whitespace", func() {
		BeforeEach(func() {
			rawText = "  \n {\"total\": 2.50} \n "
		})

		It("parses the payload", func() {
			Expect(result.Failed()).To(BeFalse())
			Expect(result["total"]).To(Equal(2.50))
		})
	})

	When("the reply is not valid JSON", func() {
		BeforeEach(func() {
			rawText = "not json"
		})

		It("returns a failure record instead of raising", func() {
			Expect(result.Failed()).To(BeTrue())
		})

		It("prefixes the decoder message", func() {
			Expect(result["error"]).To(HavePrefix("Failed to parse JSON response: "))
		})

		It("preserves the original text verbatim", func() {
			Expect(result.RawResponse()).To(Equal("not json"))
		})
	})

	When("invalid JSON is wrapped in a fence", func() {
		BeforeEach(func() {
			rawText = "```json\nnot json either\n```"
		})

		It("preserves the fence-stripped text", func() {
			Expect(result.Failed()).To(BeTrue())
			Expect(result.RawResponse()).To(Equal("not json either"))
		})
	})

	When("the reply decodes to a nested document", func() {
		BeforeEach(func() {
			rawText = `{"items": [{"name": "Milk", "quantity": 1}], "total": 3.49}`
		})

		It("returns the nested structure as-is", func() {
			items, ok := result["items"].([]any)
			Expect(ok).To(BeTrue())
			Expect(items).To(HaveLen(1))
			first, ok := items[0].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(first["name"]).To(Equal("Milk"))
		})
	})
})
