package render

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// LoadFace parses a TrueType or OpenType font file at the given point size.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// LoadFaceOrDefault loads the font at path and falls back to the built-in
// 7x13 bitmap face when it cannot be loaded.
func LoadFaceOrDefault(path string, size float64, logger *slog.Logger) font.Face {
	face, err := LoadFace(path, size)
	if err != nil {
		logger.Warn("failed to load TrueType font; using default font",
			"font_path", path,
			"error", err,
		)
		return basicfont.Face7x13
	}
	return face
}
