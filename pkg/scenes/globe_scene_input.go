package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

// digitKeys 1-9 对应目录前九个目的地
var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// clipboardWriter 系统剪贴板（首次使用时初始化，失败后不再重试）
type clipboardWriter struct {
	initialized bool
	available   bool
}

func (c *clipboardWriter) write(s string) error {
	if !c.initialized {
		c.initialized = true
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard unavailable: %w", err)
		}
		c.available = true
	}
	if !c.available {
		return fmt.Errorf("clipboard unavailable")
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

// handleInput 处理快捷键
func (s *GlobeScene) handleInput() {
	for i, key := range digitKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.panel.Select(i)
		}
	}

	if tapped, x, y := utils.JustTapped(); tapped {
		s.TapAt(float64(x), float64(y))
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.CancelTransition()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.ToggleSignedIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.CyclePolicy()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		s.tour.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.CopyTargetCoordinates()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		s.ToggleStats()
	}
}

// TapAt 点击地球上的标记时飞往该目的地（面板区域交给 ebitenui）
func (s *GlobeScene) TapAt(x, y float64) bool {
	if x >= config.GameWindowWidth-config.PanelWidth {
		return false
	}
	marker, ok := s.renderSystem.MarkerAt(x, y)
	if !ok {
		return false
	}
	s.tour.Stop()
	return s.SelectDestination(s.catalog.Index(marker.ID))
}

// CancelTransition 中止当前过渡和巡游
func (s *GlobeScene) CancelTransition() bool {
	s.tour.Stop()
	return s.sequencer.Cancel()
}

// ToggleSignedIn 切换登录状态（决定是否空闲自转）
func (s *GlobeScene) ToggleSignedIn() {
	signedIn := !s.sequencer.SignedIn()
	s.sequencer.SetSignedIn(signedIn)
	s.settings.SetSignedIn(signedIn)
}

// CyclePolicy 切换到下一个重入策略
func (s *GlobeScene) CyclePolicy() {
	policy := s.sequencer.Policy().Next()
	s.sequencer.SetPolicy(policy)
	s.settings.SetReentryPolicy(policy)
}

// targetText 当前（或最近一次）目标的坐标文本
func (s *GlobeScene) targetText() (string, bool) {
	if s.sequencer.IsRunning() {
		return s.sequencer.CurrentRequest().Target.String(), true
	}
	if id := s.settings.GetSettings().LastDestination; id != "" {
		if d, ok := s.catalog.Find(id); ok {
			return d.Location().String(), true
		}
	}
	return "", false
}

// CopyTargetCoordinates 把目标坐标写入剪贴板
func (s *GlobeScene) CopyTargetCoordinates() bool {
	text, ok := s.targetText()
	if !ok {
		log.Printf("[GlobeScene] Nothing to copy: no target yet")
		return false
	}
	if err := s.clipboard.write(text); err != nil {
		log.Printf("[GlobeScene] Warning: %v", err)
		return false
	}
	log.Printf("[GlobeScene] Copied %s", text)
	return true
}
