package wheatconv

import (
	"image"
	"os"

	"github.com/agrovision/wheatconv/logger"

	// Decoders for the recognized image formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// decodeImageConfig opens the file at path and returns the results of
// image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// imageSize returns the pixel dimensions of the image at path. When the file
// cannot be read or decoded it logs a warning and substitutes the fallback
// dimensions, so a corrupt image never aborts a batch.
func imageSize(path string, fallbackWidth, fallbackHeight int) (width, height int) {
	config, _, err := decodeImageConfig(path)
	if err != nil {
		logger.S().Warnf("Cannot read image %s: %v", path, err)
		return fallbackWidth, fallbackHeight
	}
	return config.Width, config.Height
}

// fileSize returns the size of the file at path in bytes, or 0 with a
// warning when it cannot be stat'ed.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		logger.S().Warnf("Cannot stat %s: %v", path, err)
		return 0
	}
	return info.Size()
}
