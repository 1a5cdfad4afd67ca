package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Processor downscales oversized images before they are hosted
type Processor struct {
	maxWidth int
}

// NewProcessor creates a processor; maxWidth <= 0 disables resizing
func NewProcessor(maxWidth int) *Processor {
	return &Processor{maxWidth: maxWidth}
}

// Prepare returns the file resized to at most maxWidth wide, with its final dimensions.
// Images already narrow enough are returned untouched.
func (p *Processor) Prepare(file File) (File, int, int, error) {
	format, ok := encodeFormat(file.ContentType)
	if !ok {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
		if err != nil {
			return file, 0, 0, nil
		}
		return file, cfg.Width, cfg.Height, nil
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return file, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if p.maxWidth <= 0 || bounds.Dx() <= p.maxWidth {
		return file, bounds.Dx(), bounds.Dy(), nil
	}

	resized := imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return file, 0, 0, fmt.Errorf("encode image: %w", err)
	}
	file.Data = buf.Bytes()
	return file, resized.Bounds().Dx(), resized.Bounds().Dy(), nil
}

func encodeFormat(contentType string) (imaging.Format, bool) {
	switch contentType {
	case "image/jpeg":
		return imaging.JPEG, true
	case "image/png":
		return imaging.PNG, true
	case "image/gif":
		return imaging.GIF, true
	}
	return 0, false
}
