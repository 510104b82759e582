// Package app 提供地球应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/game"
	"github.com/decker502/globe/pkg/scenes"
	"github.com/decker502/globe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储目录名
const AppName = "globe"

// GlobeSceneName 场景工厂中地球场景的名称
const GlobeSceneName = "globe"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 地球参数配置文件，为空时使用嵌入的 data/globe.yaml
	ConfigPath string
	// DestinationsPath 目的地目录，为空时使用嵌入的 data/destinations.yaml
	DestinationsPath string
	// TourPath 巡游脚本，为空时巡游按目录顺序前进
	TourPath string
	// Policy 重入策略（ignore / queue / restart），为空时使用用户设置
	Policy string
	// SignedIn 覆盖用户设置中的登录状态，nil 表示不覆盖
	SignedIn *bool
	// Debug 启动时显示调试统计
	Debug bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GlobeConfigPath
	}
	globeConfig, err := config.LoadGlobeConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("地球配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载地球配置: %s", configPath)

	settings := openSettings()

	resourceManager := game.NewResourceManager()

	sceneOpts := scenes.GlobeSceneOptions{
		Config:         globeConfig,
		CatalogPath:    cfg.DestinationsPath,
		TourScriptPath: cfg.TourPath,
		Policy:         cfg.Policy,
		SignedIn:       cfg.SignedIn,
		Debug:          cfg.Debug,
	}

	var sceneErr error
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(name string) game.Scene {
		if name != GlobeSceneName {
			sceneErr = fmt.Errorf("unknown scene %q", name)
			return nil
		}
		s, err := scenes.NewGlobeScene(resourceManager, settings, sceneOpts)
		if err != nil {
			sceneErr = err
			return nil
		}
		return s
	})
	if !sceneManager.Load(GlobeSceneName) {
		return nil, fmt.Errorf("地球场景初始化失败: %w", sceneErr)
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// openSettings 打开 gdata 存储，失败时降级为内存设置
func openSettings() *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v (settings will not persist)", err)
		manager = nil
	}
	settings, _ := game.NewSettingsManager(manager)
	return settings
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Shutdown 保存当前场景并释放资源（窗口关闭后调用）
func (a *App) Shutdown() {
	scene := a.sceneManager.GetCurrentScene()
	if saveable, ok := scene.(game.Saveable); ok {
		saveable.SaveOnExit()
	} else if err := a.settings.Save(); err != nil {
		log.Printf("[App] Failed to save settings: %v", err)
	}
	if closer, ok := scene.(game.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("[App] Failed to close scene: %v", err)
		}
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
