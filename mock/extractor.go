package mock

import "github.com/fwojciec/pagefetch"

// Compile-time interface verification.
var (
	_ pagefetch.Extractor     = (*Extractor)(nil)
	_ pagefetch.BlockDetector = (*BlockDetector)(nil)
	_ pagefetch.Converter     = (*Converter)(nil)
)

// Extractor is a mock implementation of pagefetch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagefetch.Extraction, error)
}

func (e *Extractor) Extract(html string) (*pagefetch.Extraction, error) {
	return e.ExtractFn(html)
}

// BlockDetector is a mock implementation of pagefetch.BlockDetector.
type BlockDetector struct {
	DetectBlockFn func(html string) (string, bool)
}

func (d *BlockDetector) DetectBlock(html string) (string, bool) {
	return d.DetectBlockFn(html)
}

// Converter is a mock implementation of pagefetch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
