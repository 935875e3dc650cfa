package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"hikaya/internal/domain"
)

// jpegQuality is fixed so re-encoding the same decoded image always yields
// the same bytes.
const jpegQuality = 90

// Normalized is an uploaded image after decoding, color flattening and
// re-encoding into a provider-accepted format.
type Normalized struct {
	Data   []byte
	Format string // "jpeg" or "png"
	Source string // format reported by the decoder
}

func (n *Normalized) MIME() string {
	return "image/" + n.Format
}

// Normalize decodes data, flattens it to plain RGB and re-encodes it.
// JPEG and PNG sources keep their encoding; everything else becomes JPEG.
func Normalize(data []byte) (*Normalized, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyInput
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	img := flatten(src)

	encoding := "jpeg"
	if format == "png" {
		encoding = "png"
	}

	var buf bytes.Buffer
	switch encoding {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	return &Normalized{Data: buf.Bytes(), Format: encoding, Source: format}, nil
}

// flatten redraws the source onto an opaque RGBA canvas so grayscale,
// paletted and alpha images reach the provider as plain color.
func flatten(src image.Image) image.Image {
	if _, ok := src.(*image.RGBA); ok {
		return src
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}
