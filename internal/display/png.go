package display

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"codeberg.org/mutker/cutiepi/internal/logger"
)

// PNG writes every changed frame to a file. Used for headless runs and
// screenshots during development.
type PNG struct {
	path  string
	size  image.Point
	cache frameCache
	enc   png.Encoder
}

func NewPNG(path string, size image.Point) *PNG {
	logger.Info().Str("path", path).Msg("writing frames to PNG")

	return &PNG{
		path: path,
		size: size,
		enc:  png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

func (p *PNG) Size() image.Point {
	return p.size
}

// Flush replaces the file atomically so readers never see a partial image.
func (p *PNG) Flush(img *image.RGBA) error {
	if !p.cache.changed(img) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".frame-*.png")
	if err != nil {
		p.cache.reset()
		return errFactory.Wrap(ErrWriteSnapshot, err).WithData(p.path)
	}
	defer os.Remove(tmp.Name())

	if err := p.enc.Encode(tmp, img); err != nil {
		tmp.Close()
		p.cache.reset()
		return errFactory.Wrap(ErrWriteSnapshot, err).WithData(p.path)
	}
	if err := tmp.Close(); err != nil {
		p.cache.reset()
		return errFactory.Wrap(ErrWriteSnapshot, err).WithData(p.path)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		p.cache.reset()
		return errFactory.Wrap(ErrWriteSnapshot, err).WithData(p.path)
	}

	return nil
}

func (p *PNG) Invalidate() {
	p.cache.reset()
}

func (p *PNG) Close() error {
	return nil
}
