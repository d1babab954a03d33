// Package chartrenderer draws simple chart PNGs with the standard
// library's image package. No third-party charting library appeared
// anywhere in the reference corpus, so this component is stdlib-only;
// see DESIGN.md for the justification.
package chartrenderer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

const (
	width   = 640
	height  = 360
	margin  = 24
	barGap  = 8
	bgGray  = 245
	axisCol = 90
)

// PNGRenderer draws a minimal bar or line chart as a flat-shaded PNG,
// enough to carry a visual alongside a text reply.
type PNGRenderer struct {
	log *logger.Logger
}

func New() *PNGRenderer {
	return &PNGRenderer{log: logger.Get().With("component", "chart_renderer")}
}

var _ orchestrator.ChartRenderer = (*PNGRenderer)(nil)

// Render draws series as kind and returns the encoded PNG bytes.
func (r *PNGRenderer) Render(ctx context.Context, series []orchestrator.SeriesPoint, kind orchestrator.ChartKind) ([]byte, error) {
	if len(series) == 0 {
		return nil, errors.Wrap(errors.ErrRenderFailed, "no series data to render")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, 0, 0, width, height, color.RGBA{bgGray, bgGray, bgGray, 255})
	drawAxes(img)

	switch kind {
	case orchestrator.ChartCandlestick:
		drawCandlesticks(img, series)
	case orchestrator.ChartLine:
		drawLine(img, series)
	default:
		drawBars(img, series)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrRenderFailed, "encode png: "+err.Error())
	}

	r.log.Debugf("rendered chart: kind=%s points=%d bytes=%d", kind, len(series), buf.Len())
	return buf.Bytes(), nil
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, c)
		}
	}
}

func drawAxes(img *image.RGBA) {
	axis := color.RGBA{axisCol, axisCol, axisCol, 255}
	for x := margin; x < width-margin; x++ {
		img.Set(x, height-margin, axis)
	}
	for y := margin; y < height-margin; y++ {
		img.Set(margin, y, axis)
	}
}

func valueRange(series []orchestrator.SeriesPoint, pick func(orchestrator.SeriesPoint) float64) (min, max float64) {
	min, max = pick(series[0]), pick(series[0])
	for _, p := range series {
		v := pick(p)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

func drawBars(img *image.RGBA, series []orchestrator.SeriesPoint) {
	pick := func(p orchestrator.SeriesPoint) float64 { return p.Value }
	min, max := valueRange(series, pick)

	plotW := width - 2*margin
	plotH := height - 2*margin
	barW := plotW / len(series)
	if barW < 1 {
		barW = 1
	}

	bar := color.RGBA{70, 130, 180, 255}
	for i, p := range series {
		norm := (p.Value - min) / (max - min)
		barH := int(norm * float64(plotH))
		x0 := margin + i*barW + barGap/2
		x1 := x0 + barW - barGap
		if x1 <= x0 {
			x1 = x0 + 1
		}
		y0 := height - margin - barH
		y1 := height - margin
		fillRect(img, x0, y0, x1, y1, bar)
	}
}

func drawLine(img *image.RGBA, series []orchestrator.SeriesPoint) {
	pick := func(p orchestrator.SeriesPoint) float64 { return p.Close }
	min, max := valueRange(series, pick)

	plotW := width - 2*margin
	plotH := height - 2*margin
	line := color.RGBA{200, 60, 60, 255}

	var prevX, prevY int
	for i, p := range series {
		x := margin + int(float64(i)/float64(len(series)-1+boolToInt(len(series) == 1))*float64(plotW))
		norm := (p.Close - min) / (max - min)
		y := height - margin - int(norm*float64(plotH))
		if i > 0 {
			drawSegment(img, prevX, prevY, x, y, line)
		}
		prevX, prevY = x, y
	}
}

func drawCandlesticks(img *image.RGBA, series []orchestrator.SeriesPoint) {
	pick := func(p orchestrator.SeriesPoint) float64 { return p.High }
	min, _ := valueRange(series, func(p orchestrator.SeriesPoint) float64 { return p.Low })
	_, max := valueRange(series, pick)

	plotW := width - 2*margin
	plotH := height - 2*margin
	slot := plotW / len(series)
	if slot < 2 {
		slot = 2
	}

	for i, p := range series {
		x := margin + i*slot + slot/2
		yHigh := height - margin - int((p.High-min)/(max-min)*float64(plotH))
		yLow := height - margin - int((p.Low-min)/(max-min)*float64(plotH))
		yOpen := height - margin - int((p.Open-min)/(max-min)*float64(plotH))
		yClose := height - margin - int((p.Close-min)/(max-min)*float64(plotH))

		wick := color.RGBA{80, 80, 80, 255}
		drawSegment(img, x, yHigh, x, yLow, wick)

		body := color.RGBA{60, 160, 80, 255}
		if p.Close < p.Open {
			body = color.RGBA{200, 60, 60, 255}
		}
		y0, y1 := yOpen, yClose
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		fillRect(img, x-slot/4, y0, x+slot/4, y1, body)
	}
}

func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		img.Set(x, y, c)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
