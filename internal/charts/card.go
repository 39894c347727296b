package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	fontLarge   font.Face
	fontRegular font.Face
	fontOnce    sync.Once
)

// loadFonts builds faces from the chart library's bundled font. If that font
// cannot be parsed the fixed bitmap face is used for both sizes.
func loadFonts() {
	fontOnce.Do(func() {
		f, err := chart.GetDefaultFont()
		if err != nil {
			fontLarge = basicfont.Face7x13
			fontRegular = basicfont.Face7x13
			return
		}
		fontLarge = truetype.NewFace(f, &truetype.Options{Size: 96, DPI: 72, Hinting: font.HintingFull})
		fontRegular = truetype.NewFace(f, &truetype.Options{Size: 28, DPI: 72, Hinting: font.HintingFull})
	})
}

// PreviewWidth and PreviewHeight are the standard Open Graph image dimensions.
const (
	PreviewWidth  = 1200
	PreviewHeight = 630
)

// PreviewData is the dataset summary drawn on the link preview card.
type PreviewData struct {
	Observations    int
	First           time.Time
	Last            time.Time
	MeanTemperature float64 // NaN when no temperature is usable
}

// Preview renders the link preview card.
func Preview(data PreviewData) ([]byte, error) {
	loadFonts()

	img := image.NewRGBA(image.Rect(0, 0, PreviewWidth, PreviewHeight))
	fillGradient(img)

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{200, 200, 200, 255}

	headline := "--°"
	if isFinite(data.MeanTemperature) {
		headline = fmt.Sprintf("%.1f°", data.MeanTemperature)
	}
	drawText(img, headline, 60, PreviewHeight-260, white, fontLarge)
	drawText(img, "mean temperature", 60, PreviewHeight-200, lightGray, fontRegular)

	summary := fmt.Sprintf("%d observations", data.Observations)
	if data.Observations > 0 && !data.First.IsZero() {
		summary += fmt.Sprintf(", %s to %s", data.First.Format("2 Jan 2006"), data.Last.Format("2 Jan 2006"))
	}
	drawText(img, summary, 60, PreviewHeight-120, lightGray, fontRegular)
	drawText(img, "Seasonal weather dashboard", 60, PreviewHeight-50, lightGray, fontRegular)

	return encodePNG(img)
}

// Placeholder renders a plain card carrying a title and a message. It stands
// in for charts that have nothing to plot.
func Placeholder(title, message string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	bg := color.RGBA{245, 245, 245, 255}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	face := basicfont.Face7x13
	dark := color.RGBA{60, 60, 60, 255}
	gray := color.RGBA{130, 130, 130, 255}
	drawText(img, title, centreX(face, title), Height/2-10, dark, face)
	drawText(img, message, centreX(face, message), Height/2+14, gray, face)

	return encodePNG(img)
}

func centreX(face font.Face, text string) int {
	w := font.MeasureString(face, text).Ceil()
	x := (Width - w) / 2
	if x < 0 {
		return 0
	}
	return x
}

// fillGradient paints a dark blue vertical gradient.
func fillGradient(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		progress := float64(y-b.Min.Y) / float64(b.Dy())
		c := color.RGBA{
			R: uint8(20 + progress*10),
			G: uint8(30 + progress*25),
			B: uint8(60 + progress*40),
			A: 255,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
