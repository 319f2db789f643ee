package geometry2D

import (
	"math"
)

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(X, Y []float64) (Box *BoundingBox) {
	if len(X) == 0 {
		return nil
	}
	Box = &BoundingBox{
		XMin: [2]float64{X[0], Y[0]},
		XMax: [2]float64{X[0], Y[0]},
	}
	for i := range X {
		Box.GrowPoint(X[i], Y[i])
	}
	return Box
}

func (bb *BoundingBox) GrowPoint(x, y float64) {
	bb.XMin[0], bb.XMax[0] = math.Min(bb.XMin[0], x), math.Max(bb.XMax[0], x)
	bb.XMin[1], bb.XMax[1] = math.Min(bb.XMin[1], y), math.Max(bb.XMax[1], y)
}

func (bb *BoundingBox) Grow(newBB *BoundingBox) {
	bb.GrowPoint(newBB.XMin[0], newBB.XMin[1])
	bb.GrowPoint(newBB.XMax[0], newBB.XMax[1])
}

func (bb *BoundingBox) Centroid() (cx, cy float64) {
	return 0.5 * (bb.XMax[0] + bb.XMin[0]), 0.5 * (bb.XMax[1] + bb.XMin[1])
}

func (bb *BoundingBox) Extent() (dx, dy float64) {
	return bb.XMax[0] - bb.XMin[0], bb.XMax[1] - bb.XMin[1]
}

func (bb *BoundingBox) Scale(scale float64) (bbOut *BoundingBox) {
	bbOut = new(BoundingBox)
	for i := 0; i < 2; i++ {
		xRange := bb.XMax[i] - bb.XMin[i]
		centroid := bb.XMin[i] + 0.5*xRange
		bbOut.XMin[i] = scale*(bb.XMin[i]-centroid) + centroid
		bbOut.XMax[i] = scale*(bb.XMax[i]-centroid) + centroid
	}
	return bbOut
}

func (bb *BoundingBox) PointInside(x, y float64) (within bool) {
	return x >= bb.XMin[0] && x <= bb.XMax[0] && y >= bb.XMin[1] && y <= bb.XMax[1]
}
