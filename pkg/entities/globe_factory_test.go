package entities

import (
	"testing"

	"github.com/decker502/globe/pkg/components"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
	"github.com/decker502/globe/pkg/types"
)

func TestNewGlobeEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewGlobeEntity(em)

	vp, ok := ecs.GetComponent[*components.ViewpointComponent](em, id)
	if !ok {
		t.Fatal("地球实体缺少 ViewpointComponent")
	}
	if vp.Scale != 1.0 || vp.Rotation != [3]float64{} {
		t.Errorf("初始视角 = %+v, 期望基准视角", vp)
	}

	tc, ok := ecs.GetComponent[*components.GlobeTransitionComponent](em, id)
	if !ok {
		t.Fatal("地球实体缺少 GlobeTransitionComponent")
	}
	if tc.Phase != types.PhaseIdle || tc.ShowTargetOverlay || tc.IsActive() {
		t.Errorf("初始过渡状态 = %+v, 期望 Idle", tc)
	}
}

func TestSyncDestinationMarkers(t *testing.T) {
	em := ecs.NewEntityManager()
	globe := NewGlobeEntity(em)

	catalog := &config.DestinationCatalog{
		Destinations: []config.Destination{
			{ID: "paris", Name: "Paris", Latitude: 48.85, Longitude: 2.35, Image: "photos/paris.png"},
			{ID: "tokyo", Name: "Tokyo", Latitude: 35.68, Longitude: 139.69},
		},
	}

	ids := SyncDestinationMarkers(em, catalog)
	if len(ids) != 2 {
		t.Fatalf("期望 2 个标记, 实际 %d", len(ids))
	}

	m, _ := ecs.GetComponent[*components.DestinationMarkerComponent](em, ids[0])
	if m.ID != "paris" || m.ImageKey != "photos/paris.png" {
		t.Errorf("第一个标记 = %+v", m)
	}
	req := m.Request()
	if req.Target != (types.Location{Latitude: 48.85, Longitude: 2.35}) || req.Label != "Paris" {
		t.Errorf("Request() = %+v", req)
	}

	// 重新同步：旧标记被替换，地球实体不受影响
	catalog.Destinations = catalog.Destinations[:1]
	ids = SyncDestinationMarkers(em, catalog)
	if len(ids) != 1 {
		t.Fatalf("重新同步后期望 1 个标记, 实际 %d", len(ids))
	}
	if got := len(ecs.GetEntitiesWith1[*components.DestinationMarkerComponent](em)); got != 1 {
		t.Errorf("标记实体数量 = %d, 期望 1", got)
	}
	if _, ok := ecs.GetComponent[*components.ViewpointComponent](em, globe); !ok {
		t.Error("同步标记不应删除地球实体")
	}
}
