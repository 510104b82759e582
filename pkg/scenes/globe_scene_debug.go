package scenes

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/shirou/gopsutil/v3/process"
)

// statsSampleIntervalMillis 进程统计采样间隔
const statsSampleIntervalMillis = 1000

// processStats 当前进程的资源占用（调试面板用）
type processStats struct {
	proc *process.Process

	lastSample float64
	sampled    bool

	rssMB      float64
	cpuPercent float64
	threads    int32
}

func newProcessStats() *processStats {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Printf("[GlobeScene] Warning: process stats unavailable: %v", err)
		return &processStats{}
	}
	return &processStats{proc: proc}
}

// sample 距上次采样超过间隔时刷新统计
func (p *processStats) sample(nowMillis float64) {
	if p.proc == nil {
		return
	}
	if p.sampled && nowMillis-p.lastSample < statsSampleIntervalMillis {
		return
	}
	p.lastSample = nowMillis
	p.sampled = true

	if mem, err := p.proc.MemoryInfo(); err == nil {
		p.rssMB = float64(mem.RSS) / (1024 * 1024)
	}
	if cpu, err := p.proc.CPUPercent(); err == nil {
		p.cpuPercent = cpu
	}
	if n, err := p.proc.NumThreads(); err == nil {
		p.threads = n
	}
}

// lines 格式化统计行
func (p *processStats) lines() []string {
	if p.proc == nil {
		return []string{"process: n/a"}
	}
	return []string{
		fmt.Sprintf("RSS: %.1f MB", p.rssMB),
		fmt.Sprintf("CPU: %.1f%%", p.cpuPercent),
		fmt.Sprintf("Threads: %d", p.threads),
	}
}

// debugLines 调试面板内容
func (s *GlobeScene) debugLines() []string {
	vp := s.sequencer.Viewpoint()
	lines := []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Phase: %s", s.sequencer.Phase()),
		fmt.Sprintf("Scale: %.3f", vp.Scale),
		fmt.Sprintf("Rotation: %.3f %.3f %.3f", vp.Rotation[0], vp.Rotation[1], vp.Rotation[2]),
		fmt.Sprintf("Completed: %d  Queued: %d", s.completedRuns, s.sequencer.Pending()),
	}
	return append(lines, s.stats.lines()...)
}

// drawStats 左上角绘制调试统计
func (s *GlobeScene) drawStats(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, strings.Join(s.debugLines(), "\n"), 10, 10)
}

// ToggleStats 切换调试统计显示
func (s *GlobeScene) ToggleStats() {
	s.showStats = !s.showStats
	s.settings.SetShowStats(s.showStats)
	log.Printf("[GlobeScene] Stats overlay: %v", s.showStats)
}
