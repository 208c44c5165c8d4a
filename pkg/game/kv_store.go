package game

import "sort"

// KVStore 持久化键值存储
//
// 检查点存档以扁平键值对写入某个命名空间。
// 具体实现：
//   - GdataStore: 操作系统级偏好存储（gdata）
//   - SQLiteStore: 内嵌数据库
//   - MemoryStore: 仅内存，用于测试和降级模式
type KVStore interface {
	// Get 读取键值，不存在时返回 ok=false
	Get(namespace, key string) (value string, ok bool, err error)
	// Set 写入键值
	Set(namespace, key, value string) error
	// DeleteNamespace 删除命名空间下的所有键
	DeleteNamespace(namespace string) error
	// Flush 将写入提交到持久介质
	Flush() error
}

// MemoryStore 仅内存的键值存储
type MemoryStore struct {
	data map[string]map[string]string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// Get 读取键值
func (s *MemoryStore) Get(namespace, key string) (string, bool, error) {
	ns, ok := s.data[namespace]
	if !ok {
		return "", false, nil
	}
	value, ok := ns[key]
	return value, ok, nil
}

// Set 写入键值
func (s *MemoryStore) Set(namespace, key, value string) error {
	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string)
		s.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

// DeleteNamespace 删除命名空间
func (s *MemoryStore) DeleteNamespace(namespace string) error {
	delete(s.data, namespace)
	return nil
}

// Flush 内存存储无需提交
func (s *MemoryStore) Flush() error {
	return nil
}

// Keys 返回命名空间下的所有键（排序后，调试用）
func (s *MemoryStore) Keys(namespace string) []string {
	keys := make([]string, 0, len(s.data[namespace]))
	for k := range s.data[namespace] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
