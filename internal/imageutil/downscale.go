package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxReceiptDimension bounds the longer edge of a receipt photo before it is
// sent to the extraction API. Phone cameras produce images far larger than
// the vision models need.
const MaxReceiptDimension = 1280

// jpegQuality for re-encoded receipt photos
const jpegQuality = 85

// DownscaleReceipt shrinks a receipt photo so its longer edge does not exceed
// MaxReceiptDimension, preserving aspect ratio. Images already within bounds
// are returned unchanged.
func DownscaleReceipt(imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= MaxReceiptDimension && height <= MaxReceiptDimension {
		return imageData, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = MaxReceiptDimension
		newHeight = height * MaxReceiptDimension / width
	} else {
		newHeight = MaxReceiptDimension
		newWidth = width * MaxReceiptDimension / height
	}

	scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}
