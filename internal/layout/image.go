package layout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
)

// ImageInfo describes a decodable raster
type ImageInfo struct {
	Format string // backend image type, "PNG" or "JPG"
	Width  int
	Height int
}

// DecodeImage probes raw logo bytes without decoding the pixels
func DecodeImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("empty image")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return ImageInfo{}, fmt.Errorf("image has no pixels")
	}

	info := ImageInfo{Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "png":
		info.Format = "PNG"
	case "jpeg":
		info.Format = "JPG"
	default:
		return ImageInfo{}, fmt.Errorf("unsupported image format: %s", format)
	}
	return info, nil
}
