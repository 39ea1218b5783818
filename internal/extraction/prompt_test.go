package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildInstructions", func() {
	When("no schema is supplied", func() {
		It("embeds the default schema", func() {
			instructions, err := BuildInstructions(nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(instructions).To(ContainSubstring(`"merchant_name": "string"`))
			Expect(instructions).To(ContainSubstring(`"payment_method": "string"`))
			Expect(instructions).To(ContainSubstring(`"discounts"`))
		})
	})

	When("a custom schema is supplied", func() {
		It("embeds it pretty-printed instead of the default", func() {
			instructions, err := BuildInstructions(Schema{"vendor": "string", "total": "number"})

			Expect(err).NotTo(HaveOccurred())
			Expect(instructions).To(ContainSubstring(`"vendor": "string"`))
			Expect(instructions).NotTo(ContainSubstring(`"merchant_name": "string"`))
		})
	})

	It("states the task and shows a worked example", func() {
		instructions, err := BuildInstructions(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(instructions).To(ContainSubstring("receipt processing expert"))
		Expect(instructions).To(ContainSubstring(`"merchant_name": "Example Store"`))
		Expect(instructions).To(ContainSubstring("```json"))
	})

	It("is deterministic", func() {
		schema := Schema{"total": "number"}

		first, err := BuildInstructions(schema)
		Expect(err).NotTo(HaveOccurred())
		second, err := BuildInstructions(schema)
		Expect(err).NotTo(HaveOccurred())

		Expect(first).To(Equal(second))
	})
})
