package web

import (
	"github.com/nergy-se/dashboard/pkg/state"
)

const (
	chartHeight  = 240.0
	chartTop     = 10.0
	chartLeft    = 40.0
	chartBottom  = 30.0
	barWidth     = 60.0
	barGap       = 30.0
	chartMaxUsed = 100.0
)

type bar struct {
	Name   string
	Usage  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
	LabelX float64
}

type tick struct {
	Value float64
	Y     float64
}

type chart struct {
	Width  float64
	Height float64
	BaseY  float64
	Left   float64
	Bars   []bar
	Ticks  []tick
}

// newChart lays out a bar chart of usage per appliance on a 0-100 axis.
func newChart(points []state.ChartPoint) chart {
	plot := chartHeight - chartTop - chartBottom
	baseY := chartTop + plot
	c := chart{
		Width:  chartLeft + float64(len(points))*(barWidth+barGap) + barGap,
		Height: chartHeight,
		BaseY:  baseY,
		Left:   chartLeft,
	}
	for v := 0.0; v <= chartMaxUsed; v += 25 {
		c.Ticks = append(c.Ticks, tick{Value: v, Y: baseY - plot*v/chartMaxUsed})
	}
	for i, p := range points {
		h := plot * p.Usage / chartMaxUsed
		x := chartLeft + barGap + float64(i)*(barWidth+barGap)
		c.Bars = append(c.Bars, bar{
			Name:   p.Name,
			Usage:  p.Usage,
			X:      x,
			Y:      baseY - h,
			Width:  barWidth,
			Height: h,
			LabelX: x + barWidth/2,
		})
	}
	return c
}
