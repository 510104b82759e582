package systems

import (
	"testing"

	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
)

// fakeStarter 记录收到的过渡请求
type fakeStarter struct {
	busy     bool
	requests []types.TransitionRequest
}

func (f *fakeStarter) Start(req types.TransitionRequest) bool {
	if f.busy {
		return false
	}
	f.requests = append(f.requests, req)
	return true
}

func testCatalog() *config.DestinationCatalog {
	return &config.DestinationCatalog{
		Home: "paris",
		Destinations: []config.Destination{
			{ID: "paris", Name: "Paris", Latitude: 48.85, Longitude: 2.35},
			{ID: "tokyo", Name: "Tokyo", Latitude: 35.68, Longitude: 139.69},
			{ID: "rio", Name: "Rio", Latitude: -22.91, Longitude: -43.17},
		},
	}
}

func TestCompileTourScript(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{name: "valid", src: `next := func(c, n, v) { return 0 }`},
		{name: "missing next", src: `x := 1`, wantErr: true},
		{name: "syntax error", src: `next := func(c, n, v) {`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileTourScript([]byte(tt.src))
			if (err != nil) != tt.wantErr {
				t.Errorf("CompileTourScript() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTourSystem_RoundTheWorldScript(t *testing.T) {
	clock := utils.NewManualClock(0)
	starter := &fakeStarter{}
	tour := NewTourSystem(starter, testCatalog(), 3, clock)

	if err := tour.LoadScript("../../data/tours/round_the_world.tengo"); err != nil {
		t.Fatalf("LoadScript() error: %v", err)
	}

	tour.Begin()
	tour.Update(0)
	if len(starter.requests) != 1 || starter.requests[0].Label != "Paris" {
		t.Fatalf("第一个目的地 = %v, 期望 Paris", starter.requests)
	}
	if tour.Current() != 0 {
		t.Errorf("Current() = %d, 期望 0", tour.Current())
	}

	// 过渡结束后停留 3s
	clock.Set(5000)
	tour.OnTransitionComplete()
	clock.Set(7999)
	tour.Update(0)
	if len(starter.requests) != 1 {
		t.Fatal("停留时间未到不应开始下一段")
	}
	clock.Set(8000)
	tour.Update(0)
	if len(starter.requests) != 2 || starter.requests[1].Label != "Tokyo" {
		t.Fatalf("第二个目的地 = %v, 期望 Tokyo", starter.requests)
	}

	// 等待期间只开始一次
	tour.Update(0)
	if len(starter.requests) != 2 {
		t.Errorf("请求数 = %d, 期望 2", len(starter.requests))
	}

	// 目录顺序回绕
	tour.SetCurrent(2)
	tour.OnTransitionComplete()
	clock.Set(20000)
	tour.Update(0)
	if got := starter.requests[len(starter.requests)-1].Label; got != "Paris" {
		t.Errorf("回绕后目的地 = %s, 期望 Paris", got)
	}
}

func TestTourSystem_RandomScriptSkipsVisited(t *testing.T) {
	tour := NewTourSystem(&fakeStarter{}, testCatalog(), 0, utils.NewManualClock(0))
	if err := tour.LoadScript("../../data/tours/random.tengo"); err != nil {
		t.Fatalf("LoadScript() error: %v", err)
	}

	// 当前在 0，1 已访问，只剩 2
	tour.SetCurrent(1)
	tour.OnTransitionComplete()
	tour.SetCurrent(0)
	for i := 0; i < 10; i++ {
		if got := tour.PickNext(); got != 2 {
			t.Fatalf("PickNext() = %d, 期望 2", got)
		}
	}
}

func TestTourSystem_BusyStarterRetries(t *testing.T) {
	clock := utils.NewManualClock(0)
	starter := &fakeStarter{busy: true}
	tour := NewTourSystem(starter, testCatalog(), 0, clock)

	tour.Begin()
	tour.Update(0)
	if len(starter.requests) != 0 {
		t.Fatal("编排器忙时不应记录请求")
	}

	starter.busy = false
	tour.Update(0)
	if len(starter.requests) != 1 {
		t.Errorf("下一帧应重试, 请求数 = %d", len(starter.requests))
	}
}

func TestTourSystem_ScriptFallback(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "out of range", src: `next := func(c, n, v) { return n + 5 }`},
		{name: "wrong type", src: `next := func(c, n, v) { return "tokyo" }`},
		{name: "runtime error", src: `next := func(c, n, v) { return v.missing.field }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := NewTourSystem(&fakeStarter{}, testCatalog(), 0, utils.NewManualClock(0))
			compiled, err := CompileTourScript([]byte(tt.src))
			if err != nil {
				t.Fatalf("CompileTourScript() error: %v", err)
			}
			tour.compiled = compiled
			tour.SetCurrent(1)
			if got := tour.PickNext(); got != 2 {
				t.Errorf("PickNext() = %d, 期望按目录顺序回退到 2", got)
			}
		})
	}
}

func TestTourSystem_StopAndCatalogReload(t *testing.T) {
	clock := utils.NewManualClock(0)
	starter := &fakeStarter{}
	tour := NewTourSystem(starter, testCatalog(), 0, clock)

	tour.Toggle()
	if !tour.IsActive() {
		t.Fatal("Toggle() 应开始巡游")
	}
	tour.Toggle()
	tour.Update(0)
	if tour.IsActive() || len(starter.requests) != 0 {
		t.Error("停止后不应开始过渡")
	}

	tour.SetCurrent(2)
	tour.SetCatalog(&config.DestinationCatalog{Destinations: testCatalog().Destinations[:1]})
	if tour.Current() != -1 {
		t.Errorf("目录缩小后 Current() = %d, 期望 -1", tour.Current())
	}

	empty := NewTourSystem(starter, &config.DestinationCatalog{}, 0, clock)
	empty.Begin()
	if empty.IsActive() || empty.PickNext() != -1 {
		t.Error("空目录不能开始巡游")
	}
}
