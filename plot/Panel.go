package plot

import (
	"github.com/fogleman/gg"
)

// panel maps data coordinates onto a rectangular region of an image
type panel struct {
	x, y, w, h float64
	xMin, xMax float64
	yMin, yMax float64
}

func newPanel(x, y, w, h, xMin, xMax, yMin, yMax float64) panel {
	if xMax <= xMin {
		xMax = xMin + 1
	}
	return panel{x: x, y: y, w: w, h: h, xMin: xMin, xMax: xMax,
		yMin: yMin, yMax: yMax}
}

// pixel returns the pixel coordinates of a data point
func (p panel) pixel(x, y float64) (float64, float64) {
	px := p.x + (x-p.xMin)/(p.xMax-p.xMin)*p.w
	py := p.y + p.h - (y-p.yMin)/(p.yMax-p.yMin)*p.h
	return px, py
}

// frame draws the border of the panel
func (p panel) frame(dc *gg.Context) {
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(p.x, p.y, p.w, p.h)
	dc.Stroke()
}

func (p panel) label(dc *gg.Context, s string) {
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(s, p.x+p.w/2, p.y-4, 0.5, 0)
}

// line draws ys against their indices with the current colour
func (p panel) line(dc *gg.Context, ys []float64) {
	dc.SetLineWidth(2)
	dc.ClearPath()
	for i, y := range ys {
		dc.LineTo(p.pixel(float64(i), y))
	}
	dc.Stroke()
}

// hline draws a dashed horizontal line at y
func (p panel) hline(dc *gg.Context, y float64) {
	x0, py := p.pixel(p.xMin, y)
	x1, _ := p.pixel(p.xMax, y)

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)
	dc.DrawLine(x0, py, x1, py)
	dc.Stroke()
	dc.SetDash()
}

// tick draws a vertical tick at x from y0 to y1
func (p panel) tick(dc *gg.Context, x, y0, y1 float64) {
	px, py0 := p.pixel(x, y0)
	_, py1 := p.pixel(x, y1)
	dc.DrawLine(px, py0, px, py1)
	dc.Stroke()
}
