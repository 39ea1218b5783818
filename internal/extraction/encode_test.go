package extraction

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// testImage builds a gradient so resizes have real pixel data to filter
func testImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8((x + y) % 256), G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	return img
}

// decodePayload reverses Encode for dimension checks
func decodePayload(payload string) image.Image {
	data, err := base64.StdEncoding.DecodeString(payload)
	Expect(err).NotTo(HaveOccurred())
	img, err := png.Decode(bytes.NewReader(data))
	Expect(err).NotTo(HaveOccurred())
	return img
}

var _ = Describe("Encode", func() {
	It("is deterministic", func() {
		img := testImage(400, 300)

		first, err := Encode(img, DefaultMaxDimension)
		Expect(err).NotTo(HaveOccurred())
		second, err := Encode(img, DefaultMaxDimension)
		Expect(err).NotTo(HaveOccurred())

		Expect(first).To(Equal(second))
	})

	When("both dimensions are under the cap", func() {
		It("round-trips with unchanged dimensions", func() {
			payload, err := Encode(testImage(2000, 1000), 2048)
			Expect(err).NotTo(HaveOccurred())

			decoded := decodePayload(payload)
			Expect(decoded.Bounds().Dx()).To(Equal(2000))
			Expect(decoded.Bounds().Dy()).To(Equal(1000))
		})
	})

	When("the larger dimension exceeds the cap", func() {
		It("scales so the larger dimension equals the cap", func() {
			payload, err := Encode(testImage(3000, 1500), 2048)
			Expect(err).NotTo(HaveOccurred())

			decoded := decodePayload(payload)
			Expect(decoded.Bounds().Dx()).To(Equal(2048))
			Expect(decoded.Bounds().Dy()).To(Equal(1024))
		})

		It("caps on height when the image is taller than wide", func() {
			payload, err := Encode(testImage(1500, 3000), 2048)
			Expect(err).NotTo(HaveOccurred())

			decoded := decodePayload(payload)
			Expect(decoded.Bounds().Dx()).To(Equal(1024))
			Expect(decoded.Bounds().Dy()).To(Equal(2048))
		})
	})

	It("never upscales", func() {
		payload, err := Encode(testImage(100, 50), 2048)
		Expect(err).NotTo(HaveOccurred())

		decoded := decodePayload(payload)
		Expect(decoded.Bounds().Dx()).To(Equal(100))
		Expect(decoded.Bounds().Dy()).To(Equal(50))
	})

	It("produces a valid base64 PNG regardless of source color model", func() {
		gray := image.NewGray(image.Rect(0, 0, 64, 64))

		payload, err := Encode(gray, 2048)
		Expect(err).NotTo(HaveOccurred())

		decoded := decodePayload(payload)
		Expect(decoded.Bounds().Dx()).To(Equal(64))
	})
})
