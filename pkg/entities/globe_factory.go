package entities

import (
	"github.com/decker502/globe/pkg/components"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
)

// NewGlobeEntity 创建地球实体
//
// 地球实体携带：
//   - ViewpointComponent: 基准视角（scale=1，rotation=[0,0,0]）
//   - GlobeTransitionComponent: 空闲阶段
//
// 返回：
//   - 地球实体ID
func NewGlobeEntity(em *ecs.EntityManager) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewBaselineViewpoint())
	ecs.AddComponent(em, id, &components.GlobeTransitionComponent{})
	return id
}

// NewDestinationMarkerEntity 创建目的地标记实体
func NewDestinationMarkerEntity(em *ecs.EntityManager, d config.Destination) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.DestinationMarkerComponent{
		ID:       d.ID,
		Name:     d.Name,
		Location: d.Location(),
		ImageKey: d.Image,
	})
	return id
}

// SyncDestinationMarkers 让标记实体与目录保持一致
//
// 目录热重载后调用：删除旧标记，按目录顺序重新创建。
// 返回新建的标记实体ID（与目录顺序一致）。
func SyncDestinationMarkers(em *ecs.EntityManager, catalog *config.DestinationCatalog) []ecs.EntityID {
	for _, id := range ecs.GetEntitiesWith1[*components.DestinationMarkerComponent](em) {
		em.DestroyEntity(id)
	}
	em.RemoveMarkedEntities()

	if catalog == nil {
		return nil
	}

	ids := make([]ecs.EntityID, 0, catalog.Len())
	for _, d := range catalog.Destinations {
		ids = append(ids, NewDestinationMarkerEntity(em, d))
	}
	return ids
}
