package game

import "errors"

// 检查点系统的错误分类
//
// 这些错误在每帧更新路径中只会被记录并降级处理，不会中断会话
var (
	// ErrMissingCollaborator 必需的外部引用（玩家、注册表、物品目录等）缺失
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrInvalidIdentifier 空的或格式错误的标识符
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrStaleReference 注册表条目指向的对象已被销毁
	ErrStaleReference = errors.New("stale reference")
	// ErrNoCheckpoint 本次会话还没有可恢复的检查点
	ErrNoCheckpoint = errors.New("no checkpoint")
)
