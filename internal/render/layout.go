package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/osustats/osustats/internal/model"
)

// TextColor is the colour of every label on the card.
var TextColor = color.RGBA{R: 101, G: 74, B: 187, A: 255}

// Label is one line of text centred on an anchor point.
type Label struct {
	Text   string
	Anchor image.Point
}

// anchors lists the label centres in the order returned by Card.Labels:
// the player column, the comparison column, then the milestone column.
var anchors = [9]image.Point{
	{X: 150, Y: 75}, {X: 150, Y: 100}, {X: 150, Y: 125},
	{X: 445, Y: 75}, {X: 445, Y: 100}, {X: 445, Y: 125},
	{X: 738, Y: 75}, {X: 738, Y: 100}, {X: 738, Y: 125},
}

// Layout places the card's nine lines on their fixed anchors.
func Layout(card model.Card) []Label {
	texts := card.Labels()
	labels := make([]Label, len(texts))
	for i, text := range texts {
		labels[i] = Label{Text: text, Anchor: anchors[i]}
	}
	return labels
}

// centeredDot returns the drawing origin that centres text's bounding box on anchor.
func centeredDot(face font.Face, text string, anchor image.Point) fixed.Point26_6 {
	bounds, _ := font.BoundString(face, text)
	return centerOn(bounds, anchor)
}

// centerOn shifts an origin-relative bounding box so its centre lands on anchor.
func centerOn(bounds fixed.Rectangle26_6, anchor image.Point) fixed.Point26_6 {
	midX := (bounds.Min.X + bounds.Max.X) / 2
	midY := (bounds.Min.Y + bounds.Max.Y) / 2
	return fixed.Point26_6{
		X: fixed.I(anchor.X) - midX,
		Y: fixed.I(anchor.Y) - midY,
	}
}
