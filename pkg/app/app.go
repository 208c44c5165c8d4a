// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/embedded"
	"github.com/decker502/cyberrebel/pkg/game"
)

// 逻辑屏幕尺寸
const (
	WindowWidth  = 800
	WindowHeight = 600
)

// TicksPerSecond 逻辑帧率
const TicksPerSecond = 60

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡文件，为空则使用会话配置中的 CR_LEVEL_PATH
	Level string
	// Session 会话配置，为 nil 时从环境变量读取
	Session *config.SessionConfig
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	cfg          *config.SessionConfig
	session      *game.Session
	verbose      bool
	shutdown     bool
	unfocused    bool // 窗口失去焦点时已自动暂停

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 内容文件优先从磁盘读取，磁盘上不存在时使用 embedded 包中的内嵌数据，
// 因此调用前应先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sessionCfg := cfg.Session
	if sessionCfg == nil {
		loaded, err := config.LoadSessionConfig()
		if err != nil {
			return nil, fmt.Errorf("会话配置加载失败: %w", err)
		}
		sessionCfg = loaded
	}
	if cfg.Verbose {
		sessionCfg.Verbose = true
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		cfg:          sessionCfg,
		verbose:      cfg.Verbose,
	}
	a.sceneManager.SetSceneFactory(a.newGameplayScene)

	levelToLoad := cfg.Level
	if levelToLoad == "" {
		levelToLoad = sessionCfg.LevelPath
	}
	log.Printf("[App] Starting level: %s", levelToLoad)

	if err := a.LoadLevel(levelToLoad); err != nil {
		return nil, err
	}
	return a, nil
}

// newGameplayScene 场景工厂：为指定关卡文件构造会话和游戏场景
// 失败时返回 nil
func (a *App) newGameplayScene(levelPath string) game.Scene {
	cfg := *a.cfg
	cfg.LevelPath = levelPath

	content, err := game.LoadSessionContentWith(&cfg, embedded.ReadFileOrDisk)
	if err != nil {
		log.Printf("[App] Error: %v", err)
		return nil
	}
	store, err := game.OpenStore(&cfg)
	if err != nil {
		log.Printf("[App] Error: %v", err)
		return nil
	}
	session, err := game.NewSession(&cfg, content, store)
	if err != nil {
		log.Printf("[App] Error: %v", err)
		if closer, ok := store.(io.Closer); ok {
			closer.Close()
		}
		return nil
	}

	a.session = session
	return game.NewGameplayScene(session)
}

// LoadLevel 切换到指定关卡文件，并关闭上一个会话的存档后端
func (a *App) LoadLevel(levelPath string) error {
	previous := a.session
	if !a.sceneManager.LoadLevel(levelPath) {
		return fmt.Errorf("关卡加载失败: %s", levelPath)
	}
	if previous != nil && previous != a.session {
		if err := previous.Close(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}
	return nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	a.handleFocus(ebiten.IsFocused())

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / TicksPerSecond)
	return nil
}

// handleFocus 窗口失去焦点时暂停并保存，重新获得焦点时不自动继续
func (a *App) handleFocus(focused bool) {
	if focused {
		a.unfocused = false
		return
	}
	if a.unfocused {
		return
	}
	a.unfocused = true
	a.sceneManager.PauseCurrent(true)
	if !a.sceneManager.SaveCurrent() {
		log.Printf("[App] Warning: checkpoint was not saved on focus loss")
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 20, B: 28, A: 255})
	a.sceneManager.Draw(screen)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Shutdown 保存最后检查点并关闭存档后端
// 可以重复调用
func (a *App) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true

	if !a.sceneManager.SaveCurrent() {
		log.Printf("[App] Warning: checkpoint was not saved on exit")
	}
	if a.session == nil {
		return
	}
	if err := a.session.Close(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	a.session = nil
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Session 返回当前会话
func (a *App) Session() *game.Session {
	return a.session
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
