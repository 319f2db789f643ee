package utils

import (
	"image/color"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/functions"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
)

type ColorName uint8

const (
	White ColorName = iota
	Blue
	Red
	Green
	Black
)

func GetColor(name ColorName) (c color.RGBA) {
	switch name {
	case White:
		c = color.RGBA{R: 255, G: 255, B: 255}
	case Blue:
		c = color.RGBA{R: 50, G: 0, B: 255}
	case Red:
		c = color.RGBA{R: 255, G: 0, B: 50}
	case Green:
		c = color.RGBA{R: 25, G: 255, B: 25}
	case Black:
		c = color.RGBA{}
	}
	return
}

func SleepFor(milliseconds int) {
	time.Sleep(time.Duration(milliseconds) * time.Millisecond)
}

// ArraysTo2Vector pairs up two component arrays, optionally scaled
func ArraysTo2Vector(r1, r2 []float64, scaleO ...float64) (g [][2]float64) {
	var (
		scale float64 = 1
	)
	g = make([][2]float64, len(r1))
	if len(scaleO) > 0 {
		scale = scaleO[0]
	}
	for i := range r1 {
		g[i][0] = r1[i] * scale
		g[i][1] = r2[i] * scale
	}
	return
}

func ArraysToPoints(r1, r2 []float64) (points []graphics2D.Point) {
	points = make([]graphics2D.Point, len(r1))
	for i := range r1 {
		points[i].X[0] = float32(r1[i])
		points[i].X[1] = float32(r2[i])
	}
	return
}

/*
InterfaceChart draws the interface, its normals and the marched cloud in one
window. Colors are given in [-1, 1], -1 is red and 1 is blue.
*/
type InterfaceChart struct {
	Chart    *chart2d.Chart2D
	ColorMap *utils2.ColorMap
}

func NewInterfaceChart(width, height int, xmin, xmax, ymin, ymax float64) (ic *InterfaceChart) {
	ic = &InterfaceChart{
		Chart:    chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(ymin), float32(ymax)),
		ColorMap: utils2.NewColorMap(-1, 1, 1),
	}
	go ic.Chart.Plot()
	return
}

func (ic *InterfaceChart) AddCurve(name string, x, y []float64, lineColor float64) error {
	return ic.Chart.AddSeries(name, x, y, chart2d.NoGlyph, chart2d.Solid, ic.ColorMap.GetRGB(float32(lineColor)))
}

func (ic *InterfaceChart) AddPoints(name string, x, y []float64, pointColor float64) error {
	return ic.Chart.AddSeries(name, x, y, chart2d.CrossGlyph, chart2d.NoLine, ic.ColorMap.GetRGB(float32(pointColor)))
}

func (ic *InterfaceChart) AddNormals(name string, x, y, nx, ny []float64, scale float64) error {
	return ic.Chart.AddVectors(name, ArraysToPoints(x, y), ArraysTo2Vector(nx, ny, scale),
		chart2d.Solid, GetColor(Green))
}

func (ic *InterfaceChart) AddMesh(name string, gm graphics2D.TriMesh) error {
	return ic.Chart.AddTriMesh(name, gm, chart2d.NoGlyph, chart2d.Solid, GetColor(White))
}

// SurfacePlot colors a scalar field sampled on the vertices of a triangulation
type SurfacePlot struct {
	Chart        *chart2d.Chart2D
	ColorMap     *utils2.ColorMap
	GraphicsMesh *graphics2D.TriMesh
}

func NewSurfacePlot(width, height int, xmin, xmax, ymin, ymax float64,
	gm *graphics2D.TriMesh) (sp *SurfacePlot) {
	sp = &SurfacePlot{
		Chart:        chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(ymin), float32(ymax)),
		GraphicsMesh: gm,
	}
	go sp.Chart.Plot()
	return
}

func (sp *SurfacePlot) AddFunctionSurface(name string, field []float64) error {
	var (
		f32        = make([]float32, len(field))
		fmin, fmax = field[0], field[0]
	)
	for i, v := range field {
		f32[i] = float32(v)
		fmin, fmax = min(fmin, v), max(fmax, v)
	}
	sp.ColorMap = utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
	sp.Chart.AddColorMap(sp.ColorMap)
	fs := functions.NewFSurface(sp.GraphicsMesh, [][]float32{f32}, 0)
	return sp.Chart.AddFunctionSurface(name, *fs, chart2d.NoLine, GetColor(White))
}
