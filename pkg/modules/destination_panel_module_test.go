package modules

import (
	"testing"

	"github.com/decker502/globe/pkg/config"
)

func panelTestCatalog() *config.DestinationCatalog {
	return &config.DestinationCatalog{
		Destinations: []config.Destination{
			{ID: "paris", Name: "Paris", Latitude: 48.85, Longitude: 2.35},
			{ID: "tokyo", Name: "Tokyo", Latitude: 35.68, Longitude: 139.69},
		},
	}
}

func TestDestinationPanelModule_Select(t *testing.T) {
	var selected []string
	panel := NewDestinationPanelModule(panelTestCatalog(), nil, func(index int, d config.Destination) {
		selected = append(selected, d.ID)
	})

	if panel.ButtonCount() != 2 {
		t.Fatalf("按钮数量 = %d, 期望 2", panel.ButtonCount())
	}

	tests := []struct {
		index int
		want  bool
	}{
		{index: 1, want: true},
		{index: 0, want: true},
		{index: 2, want: false},
		{index: -1, want: false},
	}
	for _, tt := range tests {
		if got := panel.Select(tt.index); got != tt.want {
			t.Errorf("Select(%d) = %v, 期望 %v", tt.index, got, tt.want)
		}
	}

	if len(selected) != 2 || selected[0] != "tokyo" || selected[1] != "paris" {
		t.Errorf("回调收到 %v, 期望 [tokyo paris]", selected)
	}
}

func TestDestinationPanelModule_SetCatalog(t *testing.T) {
	panel := NewDestinationPanelModule(nil, nil, nil)
	if panel.ButtonCount() != 0 {
		t.Errorf("空目录按钮数量 = %d, 期望 0", panel.ButtonCount())
	}
	if panel.Select(0) {
		t.Error("空目录 Select 应返回 false")
	}

	panel.SetCatalog(panelTestCatalog())
	if panel.ButtonCount() != 2 {
		t.Errorf("重建后按钮数量 = %d, 期望 2", panel.ButtonCount())
	}
	// 没有回调时也能选择
	if !panel.Select(0) {
		t.Error("Select(0) 应返回 true")
	}

	panel.SetStatus("Idle | ignore")
	if panel.Status() != "Idle | ignore" {
		t.Errorf("Status() = %q", panel.Status())
	}
}
