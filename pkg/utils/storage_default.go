//go:build !android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保存储目录存在（非 Android 平台无需处理）
// gdata 在桌面平台上会自动创建存储目录
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 获取存储根目录（非 Android 平台返回空字符串，表示工作目录）
func GetStoragePath() string {
	return ""
}

// ResolveSavePath 把相对存档路径解析为平台上的实际路径，并确保父目录存在
// 桌面平台上相对路径基于工作目录
func ResolveSavePath(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory for %s: %w", path, err)
	}
	return path, nil
}
