package components

import (
	"testing"

	"github.com/decker502/globe/pkg/types"
)

func TestViewpointReset(t *testing.T) {
	vp := NewBaselineViewpoint()
	if vp.Scale != 1.0 || vp.Rotation != [3]float64{} {
		t.Fatalf("NewBaselineViewpoint() = %+v", vp)
	}

	vp.Rotation = [3]float64{0.8, 1.2, 0.1}
	vp.Scale = 0.3
	vp.Reset()
	if vp.Scale != 1.0 || vp.Rotation != [3]float64{} {
		t.Errorf("Reset() = %+v, 期望基准视角", vp)
	}
}

func TestGlobeTransitionIsActive(t *testing.T) {
	tests := []struct {
		phase types.AnimationPhase
		want  bool
	}{
		{types.PhaseIdle, false},
		{types.PhaseZoomOut, true},
		{types.PhaseSpin, true},
		{types.PhaseZoomIn, true},
	}
	for _, tt := range tests {
		c := &GlobeTransitionComponent{Phase: tt.phase}
		if got := c.IsActive(); got != tt.want {
			t.Errorf("IsActive() in %s = %v, 期望 %v", tt.phase, got, tt.want)
		}
	}
}
