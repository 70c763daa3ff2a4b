package services

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

const (
	chartWidth   = 800
	chartHeight  = 400
	chartPadding = 60.0
	chartMaxY    = 5.0
)

// RenderMoodChart draws the mood trend as a PNG line chart: one series for
// the mood picked before writing, one for the mood after. Entries must be in
// chronological order. The y axis runs over the mood scale with labeled ticks.
func RenderMoodChart(entries []models.JournalEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to chart")
	}

	dc := gg.NewContext(chartWidth, chartHeight)

	// Background
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: 13}))

	plotW := float64(chartWidth) - 2*chartPadding
	plotH := float64(chartHeight) - 2*chartPadding

	xFor := func(i int) float64 {
		if len(entries) == 1 {
			return chartPadding + plotW/2
		}
		return chartPadding + plotW*float64(i)/float64(len(entries)-1)
	}
	yFor := func(v int) float64 {
		return chartPadding + plotH*(1-float64(v)/chartMaxY)
	}

	// Axes
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1.5)
	dc.DrawLine(chartPadding, chartPadding, chartPadding, chartPadding+plotH)
	dc.DrawLine(chartPadding, chartPadding+plotH, chartPadding+plotW, chartPadding+plotH)
	dc.Stroke()

	// Y ticks labeled with the mood catalog
	for v := 1; v <= int(chartMaxY); v++ {
		y := yFor(v)
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.SetLineWidth(0.5)
		dc.DrawLine(chartPadding, y, chartPadding+plotW, y)
		dc.Stroke()

		dc.SetRGB(0.3, 0.3, 0.3)
		label := string(models.MoodForValue(v))
		dc.DrawStringAnchored(label, chartPadding-8, y, 1, 0.5)
	}

	drawSeries := func(values []int, r, g, b float64) {
		dc.SetRGB(r, g, b)
		dc.SetLineWidth(2)
		started := false
		for i, v := range values {
			if v == 0 {
				continue
			}
			if started {
				dc.LineTo(xFor(i), yFor(v))
			} else {
				dc.MoveTo(xFor(i), yFor(v))
				started = true
			}
		}
		dc.Stroke()

		for i, v := range values {
			if v == 0 {
				continue
			}
			dc.DrawCircle(xFor(i), yFor(v), 3.5)
			dc.Fill()
		}
	}

	before := make([]int, len(entries))
	after := make([]int, len(entries))
	for i, e := range entries {
		before[i] = e.MoodBefore.Value()
		after[i] = e.MoodAfter.Value()
	}

	drawSeries(before, 0.25, 0.47, 0.85) // blue: mood before
	drawSeries(after, 0.20, 0.66, 0.37)  // green: mood after

	// Legend
	dc.SetRGB(0.25, 0.47, 0.85)
	dc.DrawRectangle(chartPadding, 20, 14, 14)
	dc.Fill()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("Mood before", chartPadding+20, 27, 0, 0.5)

	dc.SetRGB(0.20, 0.66, 0.37)
	dc.DrawRectangle(chartPadding+140, 20, 14, 14)
	dc.Fill()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("Mood after", chartPadding+160, 27, 0, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
