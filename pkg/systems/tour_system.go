package systems

import (
	"fmt"
	"log"
	"strconv"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/embedded"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
)

// tourDispatchScript 附加在用户脚本之后，调用脚本定义的 next()
const tourDispatchScript = `
__result := next(__current, __count, __visited)
`

// TransitionStarter 能开始一次地球过渡的对象（GlobeSequencerSystem）
type TransitionStarter interface {
	Start(req types.TransitionRequest) bool
}

// TourSystem 自动巡游系统
//
// 每次过渡结束后停留 dwell 时长，然后由 tengo 脚本的
// next(current, count, visited) 选出下一个目的地（目录下标）。
// 脚本出错或返回越界下标时按目录顺序前进。
type TourSystem struct {
	starter TransitionStarter
	clock   utils.Clock
	catalog *config.DestinationCatalog

	scriptPath string
	compiled   *tengo.Compiled

	dwellMillis float64
	active      bool
	waiting     bool
	nextAt      float64

	current int
	visited map[int]bool
}

// NewTourSystem 创建巡游系统（初始未启动）
//
// 参数：
//   - starter: 过渡编排器
//   - catalog: 目的地目录
//   - dwellSeconds: 每个目的地的停留时间
//   - clock: 时钟源
func NewTourSystem(starter TransitionStarter, catalog *config.DestinationCatalog, dwellSeconds float64, clock utils.Clock) *TourSystem {
	if clock == nil {
		clock = utils.NewSystemClock()
	}
	return &TourSystem{
		starter:     starter,
		clock:       clock,
		catalog:     catalog,
		dwellMillis: dwellSeconds * 1000,
		current:     -1,
		visited:     make(map[int]bool),
	}
}

// CompileTourScript 编译巡游脚本
// 脚本必须定义 next(current, count, visited) 函数。
func CompileTourScript(src []byte) (*tengo.Compiled, error) {
	full := string(src) + "\n" + tourDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__current", 0)
	_ = script.Add("__count", 0)
	_ = script.Add("__visited", map[string]interface{}{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile tour script: %w", err)
	}
	return compiled, nil
}

// LoadScript 从文件加载巡游脚本
// 加载失败时保留之前的脚本。
func (s *TourSystem) LoadScript(path string) error {
	src, err := embedded.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tour script %s: %w", path, err)
	}
	compiled, err := CompileTourScript(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.scriptPath = path
	s.compiled = compiled
	log.Printf("[TourSystem] Loaded tour script: %s", path)
	return nil
}

// ScriptPath 返回当前脚本路径
func (s *TourSystem) ScriptPath() string {
	return s.scriptPath
}

// SetCatalog 替换目的地目录（热重载），访问记录清空
func (s *TourSystem) SetCatalog(catalog *config.DestinationCatalog) {
	s.catalog = catalog
	s.visited = make(map[int]bool)
	if catalog == nil || s.current >= catalog.Len() {
		s.current = -1
	}
}

// SetCurrent 记录当前所在目的地（手动选择后调用）
func (s *TourSystem) SetCurrent(index int) {
	s.current = index
}

// Current 返回当前目的地下标，未知时为 -1
func (s *TourSystem) Current() int {
	return s.current
}

// IsActive 巡游是否进行中
func (s *TourSystem) IsActive() bool {
	return s.active
}

// Begin 开始巡游，立即选择第一个目的地
func (s *TourSystem) Begin() {
	if s.catalog == nil || s.catalog.Len() == 0 {
		log.Printf("[TourSystem] Cannot begin tour: empty catalog")
		return
	}
	s.active = true
	s.waiting = true
	s.nextAt = s.clock.NowMillis()
	log.Printf("[TourSystem] Tour started (%d destinations, dwell %.0fms)", s.catalog.Len(), s.dwellMillis)
}

// Stop 停止巡游
func (s *TourSystem) Stop() {
	if s.active {
		log.Printf("[TourSystem] Tour stopped")
	}
	s.active = false
	s.waiting = false
}

// Toggle 切换巡游状态
func (s *TourSystem) Toggle() {
	if s.active {
		s.Stop()
	} else {
		s.Begin()
	}
}

// OnTransitionComplete 一次过渡结束（挂在编排器的 onComplete 上）
func (s *TourSystem) OnTransitionComplete() {
	if s.current >= 0 {
		s.visited[s.current] = true
	}
	if !s.active {
		return
	}
	s.waiting = true
	s.nextAt = s.clock.NowMillis() + s.dwellMillis
}

// Update 停留结束后开始下一段过渡
// 编排器忙（返回 false）时下一帧重试。
func (s *TourSystem) Update(deltaTime float64) {
	if !s.active || !s.waiting || s.catalog == nil || s.catalog.Len() == 0 {
		return
	}
	if s.clock.NowMillis() < s.nextAt {
		return
	}

	next := s.PickNext()
	dest := s.catalog.Destinations[next]
	if !s.starter.Start(dest.Request()) {
		return
	}

	log.Printf("[TourSystem] Next destination: %s (%d/%d)", dest.ID, next+1, s.catalog.Len())
	s.current = next
	s.waiting = false
}

// PickNext 选出下一个目的地下标
func (s *TourSystem) PickNext() int {
	count := 0
	if s.catalog != nil {
		count = s.catalog.Len()
	}
	if count == 0 {
		return -1
	}

	fallback := (s.current + 1) % count
	if s.compiled == nil {
		return fallback
	}

	idx, err := s.runScript(s.current, count)
	if err != nil {
		log.Printf("[TourSystem] Warning: %v (falling back to catalog order)", err)
		return fallback
	}
	return idx
}

func (s *TourSystem) runScript(current, count int) (int, error) {
	visited := make(map[string]interface{}, len(s.visited))
	for i, v := range s.visited {
		if v {
			visited[strconv.Itoa(i)] = true
		}
	}

	if err := s.compiled.Set("__current", current); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("__count", count); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("__visited", visited); err != nil {
		return 0, err
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("tour script %s: %w", s.scriptPath, err)
	}

	result := s.compiled.Get("__result")
	if result.ValueType() != "int" {
		return 0, fmt.Errorf("tour script %s: next() returned %s, want int", s.scriptPath, result.ValueType())
	}
	idx := result.Int()
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("tour script %s: next() returned %d, out of range [0,%d)", s.scriptPath, idx, count)
	}
	return idx, nil
}
