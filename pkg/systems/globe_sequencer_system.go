package systems

import (
	"log"

	"github.com/decker502/globe/pkg/components"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
)

// phaseStep 单个阶段的调度表项
type phaseStep struct {
	// duration 阶段时长（毫秒）
	duration float64
	// ease 把线性进度映射为缓动进度，端点保持不变
	ease utils.EasingFunc
	// advance 按缓动后的进度 e ∈ [0,1] 写入视角
	advance func(vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent, e float64)
	// next 阶段完成后进入的阶段（PhaseIdle 表示整次运行结束）
	next types.AnimationPhase
}

// GlobeSequencerSystem 地球过渡动画编排系统
//
// 一次过渡分三段：缩小（ZoomOut）→ 旋转到目标（Spin）→ 放大（ZoomIn）。
// 此系统负责：
//   - 按时钟时间推进阶段，写入地球实体的 ViewpointComponent
//   - ZoomIn 开始时打开目标浮层
//   - 运行结束时恢复基准视角并触发一次 onComplete
//   - 空闲且未登录时让地球缓慢自转
//
// 只有宿主帧循环调用此系统，内部不加锁。
type GlobeSequencerSystem struct {
	entityManager *ecs.EntityManager
	globeEntity   ecs.EntityID
	cfg           config.SequencerConfig
	clock         utils.Clock

	phases map[types.AnimationPhase]phaseStep

	policy   types.ReentryPolicy
	signedIn bool
	queue    []types.TransitionRequest

	onComplete func()

	// 上一次 Tick 的时间戳，用于空闲自转的增量
	lastTickMillis float64
	hasTicked      bool
}

// NewGlobeSequencerSystem 创建地球过渡动画编排系统
//
// 参数：
//   - em: 实体管理器
//   - globeEntity: 携带 ViewpointComponent 和 GlobeTransitionComponent 的地球实体
//   - cfg: 全局配置（nil 时使用默认配置）
//   - clock: 时钟源（nil 时使用系统时钟）
//
// 返回：
//   - 编排系统实例
func NewGlobeSequencerSystem(em *ecs.EntityManager, globeEntity ecs.EntityID, cfg *config.GlobeConfig, clock utils.Clock) *GlobeSequencerSystem {
	if cfg == nil {
		cfg = config.DefaultGlobeConfig()
	}
	if clock == nil {
		clock = utils.NewSystemClock()
	}

	s := &GlobeSequencerSystem{
		entityManager: em,
		globeEntity:   globeEntity,
		cfg:           cfg.Sequencer,
		clock:         clock,
		policy:        cfg.Sequencer.Policy(),
	}

	s.phases = map[types.AnimationPhase]phaseStep{
		types.PhaseZoomOut: {duration: s.cfg.ZoomOutMillis, ease: utils.EaseLinear, advance: s.advanceZoomOut, next: types.PhaseSpin},
		types.PhaseSpin:    {duration: s.cfg.SpinMillis, ease: utils.EaseOutCubic, advance: s.advanceSpin, next: types.PhaseZoomIn},
		types.PhaseZoomIn:  {duration: s.cfg.ZoomInMillis, ease: utils.EaseLinear, advance: s.advanceZoomIn, next: types.PhaseIdle},
	}

	log.Printf("[GlobeSequencerSystem] Initialized (Entity ID: %d, policy: %s, total: %.0fms)",
		globeEntity, s.policy, s.cfg.TotalMillis())

	return s
}

// SetOnComplete 设置运行结束回调
// 每次运行恰好触发一次；被 Restart 打断或 Cancel 的运行不触发。
func (s *GlobeSequencerSystem) SetOnComplete(fn func()) {
	s.onComplete = fn
}

// SetSignedIn 设置登录状态（登录后不再空闲自转）
func (s *GlobeSequencerSystem) SetSignedIn(signedIn bool) {
	s.signedIn = signedIn
}

// SignedIn 返回登录状态
func (s *GlobeSequencerSystem) SignedIn() bool {
	return s.signedIn
}

// SetPolicy 设置运行期间再次 Start 的处理策略
// 切出 Queue 策略时丢弃已排队的请求。
func (s *GlobeSequencerSystem) SetPolicy(policy types.ReentryPolicy) {
	if policy != types.ReentryQueue && len(s.queue) > 0 {
		log.Printf("[GlobeSequencerSystem] Policy -> %s, dropping %d queued request(s)", policy, len(s.queue))
		s.queue = nil
	}
	s.policy = policy
}

// Policy 返回当前重入策略
func (s *GlobeSequencerSystem) Policy() types.ReentryPolicy {
	return s.policy
}

// Pending 返回排队中的请求数
func (s *GlobeSequencerSystem) Pending() int {
	return len(s.queue)
}

// Phase 返回当前阶段
func (s *GlobeSequencerSystem) Phase() types.AnimationPhase {
	_, tc := s.state()
	if tc == nil {
		return types.PhaseIdle
	}
	return tc.Phase
}

// IsRunning 是否有过渡在进行
func (s *GlobeSequencerSystem) IsRunning() bool {
	return s.Phase() != types.PhaseIdle
}

// Viewpoint 返回当前视角的副本
func (s *GlobeSequencerSystem) Viewpoint() components.ViewpointComponent {
	vp, _ := s.state()
	if vp == nil {
		return *components.NewBaselineViewpoint()
	}
	return *vp
}

// ShowTargetOverlay 是否显示目标浮层
func (s *GlobeSequencerSystem) ShowTargetOverlay() bool {
	_, tc := s.state()
	return tc != nil && tc.ShowTargetOverlay
}

// CurrentRequest 返回最近一次运行的请求
func (s *GlobeSequencerSystem) CurrentRequest() types.TransitionRequest {
	_, tc := s.state()
	if tc == nil {
		return types.TransitionRequest{}
	}
	return tc.Request
}

// Start 开始一次过渡
//
// 空闲时立即进入 ZoomOut，阶段起点取自时钟。
// 运行期间按重入策略处理：
//   - Ignore: 忽略新请求，返回 false
//   - Queue: 排队（超过上限时丢弃并返回 false）
//   - Restart: 放弃当前运行（不触发 onComplete），从基准视角重新开始
//
// 坐标有效性由调用方负责。
func (s *GlobeSequencerSystem) Start(req types.TransitionRequest) bool {
	vp, tc := s.state()
	if vp == nil || tc == nil {
		log.Printf("[GlobeSequencerSystem] Start ignored: globe entity %d missing components", s.globeEntity)
		return false
	}

	if tc.IsActive() {
		switch s.policy {
		case types.ReentryQueue:
			if len(s.queue) >= s.cfg.QueueLimit {
				log.Printf("[GlobeSequencerSystem] Queue full (%d), dropping request to %s", len(s.queue), req.Target)
				return false
			}
			s.queue = append(s.queue, req)
			log.Printf("[GlobeSequencerSystem] Queued request to %s (%d pending)", req.Target, len(s.queue))
			return true

		case types.ReentryRestart:
			log.Printf("[GlobeSequencerSystem] Run %d aborted in %s, restarting", tc.RunID, tc.Phase)
			s.resetViewpoint(vp)

		default:
			log.Printf("[GlobeSequencerSystem] Run %d in progress (%s), ignoring request to %s",
				tc.RunID, tc.Phase, req.Target)
			return false
		}
	}

	s.begin(vp, tc, req, s.clock.NowMillis())
	return true
}

// Cancel 中止当前运行并恢复基准视角
// 不触发 onComplete，同时清空排队请求。空闲时返回 false。
func (s *GlobeSequencerSystem) Cancel() bool {
	vp, tc := s.state()
	if vp == nil || tc == nil || !tc.IsActive() {
		return false
	}

	log.Printf("[GlobeSequencerSystem] Run %d cancelled in %s", tc.RunID, tc.Phase)

	s.queue = nil
	s.resetViewpoint(vp)
	tc.Phase = types.PhaseIdle
	tc.ShowTargetOverlay = false
	return true
}

// Update 场景适配：按时钟当前时间推进
func (s *GlobeSequencerSystem) Update(deltaTime float64) {
	s.Tick(s.clock.NowMillis())
}

// Tick 推进到 nowMillis
//
// nowMillis 必须与注入的 Clock 同一时间原点（Start 的阶段起点取自 Clock）。
// 下一阶段从上一阶段的计划结束时刻开始，一次 Tick 可以连续跨过多个阶段，
// 每跨过一个阶段都先精确写入其端点值。因此运行总时长恒为各阶段时长之和，
// 与 Tick 的间隔无关。
func (s *GlobeSequencerSystem) Tick(nowMillis float64) {
	vp, tc := s.state()
	if vp == nil || tc == nil {
		return
	}

	delta := 0.0
	if s.hasTicked {
		delta = nowMillis - s.lastTickMillis
	}
	s.lastTickMillis = nowMillis
	s.hasTicked = true

	if tc.Phase == types.PhaseIdle {
		s.idleSpin(vp, delta)
		return
	}

	for tc.IsActive() {
		step, ok := s.phases[tc.Phase]
		if !ok {
			return
		}

		p := utils.Progress(nowMillis-tc.PhaseStartMillis, step.duration)
		step.advance(vp, tc, step.ease(p))
		if p < 1 {
			return
		}

		end := tc.PhaseStartMillis + step.duration
		if step.next == types.PhaseIdle {
			s.complete(vp, tc, nowMillis)
			return
		}
		s.enterPhase(tc, step.next, end)
	}
}

// begin 从 ZoomOut 开始一次新运行
func (s *GlobeSequencerSystem) begin(vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent, req types.TransitionRequest, nowMillis float64) {
	tc.RunID++
	tc.Request = req
	tc.ShowTargetOverlay = false
	vp.Scale = s.cfg.ScaleBaseline

	log.Printf("[GlobeSequencerSystem] Run %d started -> %s (image: %q)", tc.RunID, req.Target, req.TargetImage)
	s.enterPhase(tc, types.PhaseZoomOut, nowMillis)
}

func (s *GlobeSequencerSystem) enterPhase(tc *components.GlobeTransitionComponent, phase types.AnimationPhase, nowMillis float64) {
	if tc.IsActive() {
		log.Printf("[GlobeSequencerSystem] Run %d: %s -> %s at %.0fms", tc.RunID, tc.Phase, phase, nowMillis)
	}
	tc.Phase = phase
	tc.PhaseStartMillis = nowMillis
	if phase == types.PhaseZoomIn {
		tc.ShowTargetOverlay = true
	}
}

// complete 结束运行：恢复基准视角，触发回调，再启动排队的请求
func (s *GlobeSequencerSystem) complete(vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent, nowMillis float64) {
	log.Printf("[GlobeSequencerSystem] Run %d complete at %.0fms", tc.RunID, nowMillis)

	s.resetViewpoint(vp)
	tc.Phase = types.PhaseIdle
	tc.ShowTargetOverlay = false

	if s.onComplete != nil {
		s.onComplete()
	}

	// 回调里可能已经开始了新运行
	if tc.IsActive() || len(s.queue) == 0 {
		return
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	s.begin(vp, tc, next, nowMillis)
}

func (s *GlobeSequencerSystem) advanceZoomOut(vp *components.ViewpointComponent, _ *components.GlobeTransitionComponent, e float64) {
	vp.Scale = utils.Lerp(s.cfg.ScaleBaseline, s.cfg.ScaleZoomedOut, e)
}

func (s *GlobeSequencerSystem) advanceSpin(vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent, e float64) {
	vp.Rotation = utils.LerpVec3([3]float64{}, tc.Request.Target.Radians(), e)
}

func (s *GlobeSequencerSystem) advanceZoomIn(vp *components.ViewpointComponent, _ *components.GlobeTransitionComponent, e float64) {
	vp.Scale = utils.Lerp(s.cfg.ScaleZoomedOut, s.cfg.ScaleZoomedIn, e)
}

// idleSpin 空闲自转：rotation.y += rate * Δt，规范到 [0, 2π)
func (s *GlobeSequencerSystem) idleSpin(vp *components.ViewpointComponent, deltaMillis float64) {
	if s.signedIn || deltaMillis <= 0 || s.cfg.IdleSpinRate == 0 {
		return
	}
	vp.Rotation[1] = utils.WrapAngle(vp.Rotation[1] + s.cfg.IdleSpinRate*deltaMillis/1000.0)
}

func (s *GlobeSequencerSystem) resetViewpoint(vp *components.ViewpointComponent) {
	vp.Reset()
	vp.Scale = s.cfg.ScaleBaseline
}

func (s *GlobeSequencerSystem) state() (*components.ViewpointComponent, *components.GlobeTransitionComponent) {
	vp, ok := ecs.GetComponent[*components.ViewpointComponent](s.entityManager, s.globeEntity)
	if !ok {
		return nil, nil
	}
	tc, ok := ecs.GetComponent[*components.GlobeTransitionComponent](s.entityManager, s.globeEntity)
	if !ok {
		return nil, nil
	}
	return vp, tc
}
