package charts

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// colourBarWidth is the right-hand margin reserved for a scatter's colour bar.
const colourBarWidth = 100

const colourBarBands = 48

var legendText = drawing.ColorFromHex("#333333")

// colourBar draws a vertical viridis scale from lo (bottom) to hi (top) in
// the right margin, with the range ends and label as text.
func colourBar(label string, lo, hi float64) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		left := Width - colourBarWidth + 40
		right := left + 14
		top := canvas.Top + 24
		bottom := canvas.Bottom
		if bottom-top < colourBarBands {
			return
		}

		span := float64(bottom - top)
		for i := 0; i < colourBarBands; i++ {
			y0 := top + int(span*float64(i)/colourBarBands)
			y1 := top + int(span*float64(i+1)/colourBarBands)
			// Band 0 sits at the top of the bar and takes the high end.
			f := 1 - (float64(i)+0.5)/colourBarBands
			colour := chart.Viridis(0.5, 0, 1)
			if lo != hi {
				colour = chart.Viridis(lo+f*(hi-lo), lo, hi)
			}
			r.SetFillColor(colour)
			r.MoveTo(left, y0)
			r.LineTo(right, y0)
			r.LineTo(right, y1)
			r.LineTo(left, y1)
			r.Close()
			r.Fill()
		}

		r.SetStrokeColor(drawing.ColorFromHex("#999999"))
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.Stroke()

		if defaults.Font == nil {
			return
		}
		r.SetFont(defaults.Font)
		r.SetFontColor(legendText)
		r.SetFontSize(9)
		r.Text(formatEdge(hi), right+4, top+8)
		if lo != hi {
			r.Text(formatEdge(lo), right+4, bottom)
		}

		r.SetFontSize(8)
		x := Width - colourBarWidth + 4
		if w := r.MeasureText(label).Width(); x+w > Width-2 {
			x = Width - 2 - w
		}
		r.Text(label, x, top-10)
	}
}

// axisCaption centres text along the bottom edge of the image. Bar charts
// have no x axis name of their own.
func axisCaption(text string) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		if text == "" || defaults.Font == nil {
			return
		}
		r.SetFont(defaults.Font)
		r.SetFontColor(legendText)
		r.SetFontSize(10)
		w := r.MeasureText(text).Width()
		r.Text(text, (Width-w)/2, Height-10)
	}
}
