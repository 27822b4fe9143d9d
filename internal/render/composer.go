// Package render composites card text onto the background image.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // background may be a JPEG
	_ "image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/osustats/osustats/internal/model"
)

// Render errors.
var (
	ErrBackground = errors.New("background image unavailable")
	ErrEncode     = errors.New("failed to encode image")
	ErrWrite      = errors.New("failed to write image")
)

// Options configures a Composer.
type Options struct {
	BackgroundPath string
	FontPath       string
	FontSize       float64
	OutputPath     string
}

// Composer draws cards onto the background and writes the result to OutputPath.
type Composer struct {
	opts   Options
	logger *slog.Logger
}

// NewComposer creates a new Composer.
func NewComposer(opts Options, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 20
	}
	return &Composer{opts: opts, logger: logger}
}

// OutputPath returns where Compose writes the image.
func (c *Composer) OutputPath() string {
	return c.opts.OutputPath
}

// Compose renders the card and atomically replaces the output file.
func (c *Composer) Compose(card model.Card) error {
	img, err := c.Render(card)
	if err != nil {
		return err
	}
	return WritePNG(c.opts.OutputPath, img)
}

// Render draws the card onto a copy of the background.
func (c *Composer) Render(card model.Card) (*image.RGBA, error) {
	canvas, err := loadBackground(c.opts.BackgroundPath)
	if err != nil {
		return nil, err
	}

	face := LoadFaceOrDefault(c.opts.FontPath, c.opts.FontSize, c.logger)
	defer face.Close()

	drawLabels(canvas, face, Layout(card))
	return canvas, nil
}

// drawLabels draws each label centred on its anchor.
func drawLabels(dst draw.Image, face font.Face, labels []Label) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(TextColor),
		Face: face,
	}
	for _, label := range labels {
		d.Dot = centeredDot(face, label.Text, label.Anchor)
		d.DrawString(label.Text)
	}
}

// Ping reports whether the background can be opened.
func (c *Composer) Ping(ctx context.Context) error {
	f, err := os.Open(c.opts.BackgroundPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackground, err)
	}
	return f.Close()
}

// loadBackground decodes the background into an opaque RGBA canvas.
// Alpha is discarded and the stored colour of each pixel kept, so a
// transparent region shows its underlying RGB rather than blending.
func loadBackground(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackground, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrBackground, path, err)
	}

	return flatten(src), nil
}

func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
		return canvas
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			canvas.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return canvas
}
