package utils

import (
	"math"
	"testing"

	"github.com/decker502/globe/pkg/types"
)

const projEps = 1e-9

func TestSphereToVectorUnitLength(t *testing.T) {
	locs := []types.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 48.85, Longitude: 2.35},
		{Latitude: -33.87, Longitude: 151.21},
		{Latitude: 90, Longitude: 0},
	}

	for _, loc := range locs {
		v := SphereToVector(loc)
		n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		if math.Abs(n-1) > projEps {
			t.Errorf("|SphereToVector(%v)| = %v, 期望 1", loc, n)
		}
	}
}

// TestTargetRotationCentersLocation rotation = 目标弧度时，目标点位于屏幕中心且可见
func TestTargetRotationCentersLocation(t *testing.T) {
	locs := []types.Location{
		{Latitude: 48.85, Longitude: 2.35},
		{Latitude: 35.68, Longitude: 139.69},
		{Latitude: -33.87, Longitude: 151.21},
		{Latitude: 40.71, Longitude: -74.01},
	}

	for _, loc := range locs {
		sx, sy, visible := ProjectLocation(loc, loc.Radians(), 1.0, 400, 300, 200)
		if !visible {
			t.Errorf("%v: 目标点应可见", loc)
		}
		if math.Abs(sx-400) > 1e-6 || math.Abs(sy-300) > 1e-6 {
			t.Errorf("%v: 投影到 (%v, %v), 期望屏幕中心 (400, 300)", loc, sx, sy)
		}
	}
}

func TestProjectLocationBaseline(t *testing.T) {
	// 未旋转时 (0°, 0°) 在中心，(0°, 180°) 在背面
	sx, sy, visible := ProjectLocation(types.Location{}, [3]float64{}, 1.0, 0, 0, 100)
	if !visible || math.Abs(sx) > projEps || math.Abs(sy) > projEps {
		t.Errorf("(0,0) 投影到 (%v, %v, %v)", sx, sy, visible)
	}

	_, _, visible = ProjectLocation(types.Location{Longitude: 180}, [3]float64{}, 1.0, 0, 0, 100)
	if visible {
		t.Error("(0,180) 应位于背面")
	}

	// 北极在正上方，屏幕 Y 向下
	_, sy, _ = ProjectLocation(types.Location{Latitude: 90}, [3]float64{}, 1.5, 0, 0, 100)
	if math.Abs(sy+150) > 1e-6 {
		t.Errorf("北极 sy = %v, 期望 -150", sy)
	}
}

func TestRotateVectorPreservesLength(t *testing.T) {
	v := SphereToVector(types.Location{Latitude: 12, Longitude: 34})
	r := RotateVector(v, [3]float64{0.3, -1.2, 0.7})
	n := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	if math.Abs(n-1) > projEps {
		t.Errorf("旋转后长度 = %v, 期望 1", n)
	}
}
