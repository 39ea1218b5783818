package extraction

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension is the encoder's own size cap, independent of the
// normalizer's width cap. It is sized to the model's image input limits.
const DefaultMaxDimension = 2048

// Encode converts the image into a transport-safe base64 string. The image is
// cloned into NRGBA first so the channel order of the encoded bytes is always
// the same regardless of how the image was decoded, capped so its larger
// dimension does not exceed maxDimension (Lanczos, never upscaled), then
// re-encoded as lossless PNG and base64-encoded. Pure: same image and cap
// always produce the same output.
func Encode(img image.Image, maxDimension int) (string, error) {
	nrgba := imaging.Clone(img)

	bounds := nrgba.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		nrgba = imaging.Fit(nrgba, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
