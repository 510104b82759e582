package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/decker502/globe/pkg/components"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
	"github.com/decker502/globe/pkg/embedded"
	"github.com/decker502/globe/pkg/entities"
	"github.com/decker502/globe/pkg/game"
	"github.com/decker502/globe/pkg/modules"
	"github.com/decker502/globe/pkg/systems"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// photoPreloadTimeout 场景创建时预加载照片的总超时
const photoPreloadTimeout = 5 * time.Second

var backgroundColor = color.RGBA{R: 6, G: 10, B: 20, A: 255}

// GlobeSceneOptions 地球场景参数
type GlobeSceneOptions struct {
	// Config 全局配置，nil 时使用默认配置
	Config *config.GlobeConfig

	// CatalogPath 目的地目录路径（data/ 前缀读嵌入资源，其余读磁盘并热重载）
	CatalogPath string

	// TourScriptPath 巡游脚本路径，为空时巡游按目录顺序前进
	TourScriptPath string

	// Policy 命令行指定的重入策略，为空时依次使用用户设置、配置文件
	Policy string

	// SignedIn 命令行指定的登录状态，nil 时使用用户设置
	SignedIn *bool

	// Debug 启动时显示调试统计
	Debug bool

	// Clock 时钟源，nil 时使用系统时钟
	Clock utils.Clock
}

// GlobeScene 地球场景
//
// 组装 ECS、过渡编排器、渲染系统、巡游系统和目的地面板，
// 处理快捷键、目录热重载和设置持久化。
type GlobeScene struct {
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager

	entityManager *ecs.EntityManager
	globeEntity   ecs.EntityID
	clock         utils.Clock
	cfg           *config.GlobeConfig

	sequencer    *systems.GlobeSequencerSystem
	renderSystem *systems.GlobeRenderSystem
	tour         *systems.TourSystem
	panel        *modules.DestinationPanelModule
	watcher      *game.CatalogWatcher

	catalog     *config.DestinationCatalog
	catalogPath string
	tourPath    string

	completedRuns int
	showStats     bool
	stats         *processStats
	clipboard     *clipboardWriter
}

// NewGlobeScene 创建地球场景
//
// 参数：
//   - rm: 资源管理器（照片、字体）
//   - settings: 用户设置管理器
//   - opts: 场景参数
//
// 返回：
//   - 场景实例
//   - 目录或配置加载失败时返回错误
func NewGlobeScene(rm *game.ResourceManager, settings *game.SettingsManager, opts GlobeSceneOptions) (*GlobeScene, error) {
	if rm == nil {
		rm = game.NewResourceManager()
	}
	if settings == nil {
		settings, _ = game.NewSettingsManager(nil)
	}
	if opts.Config == nil {
		opts.Config = config.DefaultGlobeConfig()
	}
	if opts.CatalogPath == "" {
		opts.CatalogPath = config.DestinationsPath
	}
	if opts.Clock == nil {
		opts.Clock = utils.NewSystemClock()
	}

	catalog, err := config.LoadDestinationCatalog(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load destinations: %w", err)
	}

	s := &GlobeScene{
		resourceManager: rm,
		settings:        settings,
		entityManager:   ecs.NewEntityManager(),
		clock:           opts.Clock,
		cfg:             opts.Config,
		catalog:         catalog,
		catalogPath:     opts.CatalogPath,
		tourPath:        opts.TourScriptPath,
		showStats:       opts.Debug || settings.GetSettings().ShowStats,
		stats:           newProcessStats(),
		clipboard:       &clipboardWriter{},
	}

	s.globeEntity = entities.NewGlobeEntity(s.entityManager)
	entities.SyncDestinationMarkers(s.entityManager, catalog)

	s.sequencer = systems.NewGlobeSequencerSystem(s.entityManager, s.globeEntity, opts.Config, opts.Clock)
	s.sequencer.SetPolicy(s.resolvePolicy(opts.Policy))
	signedIn := settings.GetSettings().SignedIn
	if opts.SignedIn != nil {
		signedIn = *opts.SignedIn
	}
	s.sequencer.SetSignedIn(signedIn)
	s.sequencer.SetOnComplete(s.onTransitionComplete)

	s.renderSystem = systems.NewGlobeRenderSystem(s.entityManager, s.globeEntity, rm, rm.Face())

	s.tour = systems.NewTourSystem(s.sequencer, catalog, opts.Config.Tour.DwellSeconds, opts.Clock)
	if opts.TourScriptPath != "" {
		if err := s.tour.LoadScript(opts.TourScriptPath); err != nil {
			log.Printf("[GlobeScene] Warning: %v (tour follows catalog order)", err)
		}
	}
	// 巡游从上次到达的目的地（或目录的 home）继续
	start := settings.GetSettings().LastDestination
	if catalog.Index(start) < 0 {
		start = catalog.Home
	}
	s.tour.SetCurrent(catalog.Index(start))

	s.panel = modules.NewDestinationPanelModule(catalog, rm.Face(), func(index int, d config.Destination) {
		s.tour.Stop()
		s.SelectDestination(index)
	})

	rm.SetPreloadWorkers(opts.Config.Photos.PreloadWorkers)
	s.preloadPhotos()
	if utils.IsMobile() {
		// 移动端没有键盘，也不监听文件，直接开始巡游
		s.tour.Begin()
	} else {
		s.startWatcher()
	}
	s.refreshStatus()

	log.Printf("[GlobeScene] Initialized with %d destinations (policy: %s, signed in: %v)",
		catalog.Len(), s.sequencer.Policy(), signedIn)
	return s, nil
}

// resolvePolicy 命令行 > 用户设置 > 配置文件
func (s *GlobeScene) resolvePolicy(flagValue string) types.ReentryPolicy {
	if flagValue != "" {
		policy, err := types.ParseReentryPolicy(flagValue)
		if err == nil {
			return policy
		}
		log.Printf("[GlobeScene] Warning: %v (ignoring -policy)", err)
	}
	if policy, ok := s.settings.ReentryPolicy(); ok {
		return policy
	}
	return s.cfg.Sequencer.Policy()
}

// SelectDestination 请求飞往目录中的第 index 个目的地
//
// 返回：
//   - 编排器接受请求（开始、排队或重启）时返回 true
func (s *GlobeScene) SelectDestination(index int) bool {
	if index < 0 || index >= s.catalog.Len() {
		return false
	}
	d := s.catalog.Destinations[index]
	if err := d.Location().Validate(); err != nil {
		log.Printf("[GlobeScene] Rejected destination %s: %v", d.ID, err)
		return false
	}
	return s.sequencer.Start(d.Request())
}

// onTransitionComplete 编排器完成回调
func (s *GlobeScene) onTransitionComplete() {
	s.completedRuns++

	req := s.sequencer.CurrentRequest()
	if idx := s.indexOfTarget(req.Target); idx >= 0 {
		id := s.catalog.Destinations[idx].ID
		s.settings.SetLastDestination(id)
		s.tour.SetCurrent(idx)
		log.Printf("[GlobeScene] Arrived at %s", id)
	}
	s.tour.OnTransitionComplete()
}

// indexOfTarget 按坐标在目录中查找目的地
func (s *GlobeScene) indexOfTarget(loc types.Location) int {
	for i, d := range s.catalog.Destinations {
		if d.Location() == loc {
			return i
		}
	}
	return -1
}

// preloadPhotos 并发解码目录中的所有照片
func (s *GlobeScene) preloadPhotos() {
	var paths []string
	for _, d := range s.catalog.Destinations {
		if d.Image != "" {
			paths = append(paths, d.Image)
		}
	}
	if len(paths) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), photoPreloadTimeout)
	defer cancel()

	loaded, failed, err := s.resourceManager.PreloadImages(ctx, paths)
	if err != nil {
		log.Printf("[GlobeScene] Warning: photo preload interrupted: %v", err)
	}
	log.Printf("[GlobeScene] Photos preloaded: %d ok, %d failed", loaded, failed)
}

// ensureTargetPhoto 当前目标照片未缓存时同步加载一次
// 预加载超时或热重载后新增的照片在这里补上；加载失败后不再重试，直到下次预加载。
func (s *GlobeScene) ensureTargetPhoto() {
	if !s.sequencer.IsRunning() {
		return
	}
	path := s.sequencer.CurrentRequest().TargetImage
	if path == "" || s.resourceManager.GetImage(path) != nil || s.resourceManager.LoadError(path) != nil {
		return
	}
	if _, err := s.resourceManager.LoadImage(path); err != nil {
		log.Printf("[GlobeScene] Warning: %v (falling back to marker)", err)
		return
	}
	log.Printf("[GlobeScene] Loaded photo on demand: %s", path)
}

// startWatcher 监听磁盘上的目录和巡游脚本（嵌入资源不监听）
func (s *GlobeScene) startWatcher() {
	var files []string
	for _, p := range []string{s.catalogPath, s.tourPath} {
		if p != "" && !embedded.IsEmbedded(p) && embedded.Exists(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return
	}

	w, err := game.NewCatalogWatcher(files...)
	if err != nil {
		log.Printf("[GlobeScene] Warning: hot reload disabled: %v", err)
		return
	}
	s.watcher = w
}

// applyFileChanges 处理热重载
func (s *GlobeScene) applyFileChanges(changed []string) {
	for _, name := range changed {
		switch {
		case samePath(name, s.catalogPath):
			s.ReloadCatalog()
		case s.tourPath != "" && samePath(name, s.tourPath):
			if err := s.tour.LoadScript(s.tourPath); err != nil {
				log.Printf("[GlobeScene] Warning: tour reload failed: %v (keeping previous script)", err)
			}
		}
	}
}

// ReloadCatalog 重新加载目的地目录
// 失败时保留旧目录；进行中的过渡不受影响（请求在运行期间不可变）。
func (s *GlobeScene) ReloadCatalog() bool {
	catalog, err := config.LoadDestinationCatalog(s.catalogPath)
	if err != nil {
		log.Printf("[GlobeScene] Warning: catalog reload failed: %v (keeping previous catalog)", err)
		return false
	}

	s.catalog = catalog
	entities.SyncDestinationMarkers(s.entityManager, catalog)
	s.panel.SetCatalog(catalog)
	s.tour.SetCatalog(catalog)
	s.preloadPhotos()

	log.Printf("[GlobeScene] Catalog reloaded: %d destinations", catalog.Len())
	return true
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// step 推进场景逻辑（不读输入）
func (s *GlobeScene) step(deltaTime float64) {
	if s.watcher != nil {
		s.applyFileChanges(s.watcher.Poll())
	}
	s.sequencer.Update(deltaTime)
	s.tour.Update(deltaTime)
	s.ensureTargetPhoto()
	if s.showStats {
		s.stats.sample(s.clock.NowMillis())
	}
	s.refreshStatus()
}

// Update 更新场景
func (s *GlobeScene) Update(deltaTime float64) {
	s.handleInput()
	s.panel.Update()
	s.step(deltaTime)
}

// Draw 绘制场景
func (s *GlobeScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.renderSystem.Draw(screen)
	s.panel.Draw(screen)
	if s.showStats {
		s.drawStats(screen)
	}
}

// refreshStatus 更新面板状态行
func (s *GlobeScene) refreshStatus() {
	signed := "signed out"
	if s.sequencer.SignedIn() {
		signed = "signed in"
	}
	status := fmt.Sprintf("%s | %s | %s", s.sequencer.Phase(), s.sequencer.Policy(), signed)
	if n := s.sequencer.Pending(); n > 0 {
		status += fmt.Sprintf(" | %d queued", n)
	}
	if s.tour.IsActive() {
		status += " | tour"
	}
	s.panel.SetStatus(status)
}

// Viewpoint 返回当前视角（调试和测试用）
func (s *GlobeScene) Viewpoint() components.ViewpointComponent {
	return s.sequencer.Viewpoint()
}

// SaveOnExit 退出时保存用户设置
func (s *GlobeScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[GlobeScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

// Close 停止文件监听
func (s *GlobeScene) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
