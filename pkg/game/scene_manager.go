package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，返回 nil 表示创建失败
type SceneFactory func(levelID string) Scene

// SceneManager 管理当前活动场景
// 任何时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	currentLevel string
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器
// 初始没有活动场景，使用 SwitchTo 或 LoadLevel 设置
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换到指定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentLevel 返回通过 LoadLevel 加载的关卡ID
func (sm *SceneManager) CurrentLevel() string {
	return sm.currentLevel
}

// LoadLevel 加载指定ID的关卡场景
// 切换前先让当前场景保存状态
//
// 返回：
//   - bool: 是否成功切换
func (sm *SceneManager) LoadLevel(levelID string) bool {
	log.Printf("[SceneManager] Loading level: %s", levelID)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return false
	}

	newScene := sm.sceneFactory(levelID)
	if newScene == nil {
		log.Printf("[SceneManager] Error: failed to create scene for level %s", levelID)
		return false
	}

	sm.SaveCurrent()
	sm.SwitchTo(newScene)
	sm.currentLevel = levelID
	log.Printf("[SceneManager] Switched to level: %s", levelID)
	return true
}

// SaveCurrent 如果当前场景实现了 Saveable，调用其 SaveOnExit
// 没有场景或场景不需要保存时返回 true
func (sm *SceneManager) SaveCurrent() bool {
	saveable, ok := sm.currentScene.(Saveable)
	if !ok {
		return true
	}
	return saveable.SaveOnExit()
}

// PauseCurrent 如果当前场景实现了 Pausable，暂停或继续它
func (sm *SceneManager) PauseCurrent(paused bool) {
	if pausable, ok := sm.currentScene.(Pausable); ok {
		pausable.SetPaused(paused)
	}
}

// Update 推进当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
