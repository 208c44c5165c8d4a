package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

// GdataStore 基于 gdata 的跨平台偏好存储
//
// 映射方式：命名空间 -> gdata object，键 -> gdata property。
// gdata 每次 Save 都直接写文件，Flush 无需额外操作
type GdataStore struct {
	manager *gdata.Manager
}

// NewGdataStore 包装一个已打开的 gdata Manager
func NewGdataStore(manager *gdata.Manager) (*GdataStore, error) {
	if manager == nil {
		return nil, fmt.Errorf("gdata manager is nil: %w", ErrMissingCollaborator)
	}
	return &GdataStore{manager: manager}, nil
}

// OpenGdataStore 按应用名打开 gdata 存储
func OpenGdataStore(appName string) (*GdataStore, error) {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage for %s: %w", appName, err)
	}
	return NewGdataStore(manager)
}

// Get 读取键值
func (s *GdataStore) Get(namespace, key string) (string, bool, error) {
	if !s.manager.ObjectPropExists(namespace, key) {
		return "", false, nil
	}
	data, err := s.manager.LoadObjectProp(namespace, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to load %s/%s: %w", namespace, key, err)
	}
	return string(data), true, nil
}

// Set 写入键值
func (s *GdataStore) Set(namespace, key, value string) error {
	if err := s.manager.SaveObjectProp(namespace, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, key, err)
	}
	return nil
}

// DeleteNamespace 删除整个 gdata object
func (s *GdataStore) DeleteNamespace(namespace string) error {
	if err := s.manager.DeleteObject(namespace); err != nil {
		return fmt.Errorf("failed to delete %s: %w", namespace, err)
	}
	return nil
}

// Flush gdata 写入即落盘
func (s *GdataStore) Flush() error {
	return nil
}
