package game

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/decker502/cyberrebel/pkg/types"
)

// 存档键布局（扁平命名空间，每个字段一个键）
const (
	keyHasData           = "has_data"
	keyFormatVersion     = "format_version"
	keyPosX              = "pos_x"
	keyPosY              = "pos_y"
	keyPosZ              = "pos_z"
	keyRotX              = "rot_x"
	keyRotY              = "rot_y"
	keyRotZ              = "rot_z"
	keyRotW              = "rot_w"
	keyHealth            = "health"
	keyMaxHealth         = "max_health"
	keyInventory         = "inventory"
	keyCollected         = "collected"
	keyMissionIndex      = "mission_index"
	keyMissionsCompleted = "missions_completed"
)

// CheckpointFormatVersion 存档键布局版本
// v2: 列表字段改为 JSON 数组（v1 为逗号分隔，读取时仍兼容）
const CheckpointFormatVersion = 2

// DefaultSaveNamespace 默认存档命名空间
const DefaultSaveNamespace = "checkpoint"

// PersistenceGateway 检查点快照与持久键值存储之间的转换层
//
// 写入时每个标量字段一个键，列表字段编码为 JSON 字符串数组，
// 最后写入存在标记；读取时先检查存在标记。
// 不实现自己的原子提交协议，持久性取决于底层存储
type PersistenceGateway struct {
	store     KVStore
	namespace string
}

// NewPersistenceGateway 创建持久化网关
//
// 参数：
//   - store: 键值存储，为 nil 时降级为内存存储（不跨会话持久化）
//   - namespace: 存档命名空间，为空时使用 DefaultSaveNamespace
func NewPersistenceGateway(store KVStore, namespace string) *PersistenceGateway {
	if store == nil {
		log.Printf("[PersistenceGateway] Warning: no durable store, saves will not survive this session")
		store = NewMemoryStore()
	}
	if namespace == "" {
		namespace = DefaultSaveNamespace
	}
	return &PersistenceGateway{store: store, namespace: namespace}
}

// Namespace 返回存档命名空间
func (g *PersistenceGateway) Namespace() string {
	return g.namespace
}

// Save 将快照写入存储
// 存在标记先清除、最后写入，写入中途失败时不会留下可读的半份存档
func (g *PersistenceGateway) Save(snap *CheckpointSnapshot) error {
	if snap == nil {
		return fmt.Errorf("save checkpoint: %w", ErrNoCheckpoint)
	}

	inventory, err := encodeStringList(snap.InventoryIDs)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	collectedIDs := make([]string, len(snap.CollectedWorldIDs))
	for i, id := range snap.CollectedWorldIDs {
		collectedIDs[i] = string(id)
	}
	collected, err := encodeStringList(collectedIDs)
	if err != nil {
		return fmt.Errorf("failed to encode collected ids: %w", err)
	}

	fields := []struct {
		key   string
		value string
	}{
		{keyFormatVersion, strconv.Itoa(CheckpointFormatVersion)},
		{keyPosX, formatFloat(snap.Position.X)},
		{keyPosY, formatFloat(snap.Position.Y)},
		{keyPosZ, formatFloat(snap.Position.Z)},
		{keyRotX, formatFloat(snap.Rotation.X)},
		{keyRotY, formatFloat(snap.Rotation.Y)},
		{keyRotZ, formatFloat(snap.Rotation.Z)},
		{keyRotW, formatFloat(snap.Rotation.W)},
		{keyHealth, formatFloat(snap.Health)},
		{keyMaxHealth, formatFloat(snap.MaxHealth)},
		{keyInventory, inventory},
		{keyCollected, collected},
		{keyMissionIndex, strconv.Itoa(snap.MissionIndex)},
		{keyMissionsCompleted, strconv.FormatBool(snap.MissionsCompleted)},
		// 存在标记最后写入
		{keyHasData, "1"},
	}

	// 先清除存在标记，中途失败时 Load 视为没有存档而不是读到新旧混合的字段
	if err := g.store.Set(g.namespace, keyHasData, "0"); err != nil {
		return fmt.Errorf("failed to clear presence flag: %w", err)
	}
	for _, f := range fields {
		if err := g.store.Set(g.namespace, f.key, f.value); err != nil {
			return fmt.Errorf("failed to save checkpoint field %s: %w", f.key, err)
		}
	}
	if err := g.store.Flush(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}

	log.Printf("[PersistenceGateway] Checkpoint saved to namespace %q", g.namespace)
	return nil
}

// HasData 检查是否存在存档
// 读取失败视为没有存档
func (g *PersistenceGateway) HasData() bool {
	value, ok, err := g.store.Get(g.namespace, keyHasData)
	if err != nil {
		log.Printf("[PersistenceGateway] Warning: failed to read presence flag: %v", err)
		return false
	}
	return ok && value == "1"
}

// Load 从存储读取快照
//
// 返回：
//   - *CheckpointSnapshot: 读取到的快照
//   - bool: 是否存在存档；没有存档不是错误
//   - error: 存储读取失败或字段损坏
func (g *PersistenceGateway) Load() (*CheckpointSnapshot, bool, error) {
	flag, ok, err := g.store.Get(g.namespace, keyHasData)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read presence flag: %w", err)
	}
	if !ok || flag != "1" {
		return nil, false, nil
	}

	r := fieldReader{store: g.store, namespace: g.namespace}
	snap := &CheckpointSnapshot{
		Position: types.Vec3{
			X: r.readFloat(keyPosX),
			Y: r.readFloat(keyPosY),
			Z: r.readFloat(keyPosZ),
		},
		Rotation: types.Quat{
			X: r.readFloat(keyRotX),
			Y: r.readFloat(keyRotY),
			Z: r.readFloat(keyRotZ),
			W: r.readFloat(keyRotW),
		},
		Health:            r.readFloat(keyHealth),
		MaxHealth:         r.readFloat(keyMaxHealth),
		InventoryIDs:      r.readList(keyInventory),
		MissionIndex:      r.readInt(keyMissionIndex),
		MissionsCompleted: r.readBool(keyMissionsCompleted),
	}
	for _, id := range r.readList(keyCollected) {
		snap.CollectedWorldIDs = append(snap.CollectedWorldIDs, types.WorldID(id))
	}
	if snap.CollectedWorldIDs == nil {
		snap.CollectedWorldIDs = []types.WorldID{}
	}
	if r.err != nil {
		return nil, false, r.err
	}

	log.Printf("[PersistenceGateway] Checkpoint loaded from namespace %q", g.namespace)
	return snap, true, nil
}

// Erase 清除整个存档命名空间
func (g *PersistenceGateway) Erase() error {
	if err := g.store.DeleteNamespace(g.namespace); err != nil {
		return fmt.Errorf("failed to erase saved data: %w", err)
	}
	if err := g.store.Flush(); err != nil {
		return fmt.Errorf("failed to flush erase: %w", err)
	}
	log.Printf("[PersistenceGateway] Saved data erased")
	return nil
}

// fieldReader 逐字段读取，记录第一个错误
type fieldReader struct {
	store     KVStore
	namespace string
	err       error
}

func (r *fieldReader) raw(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	value, ok, err := r.store.Get(r.namespace, key)
	if err != nil {
		r.err = fmt.Errorf("failed to read checkpoint field %s: %w", key, err)
		return "", false
	}
	return value, ok
}

func (r *fieldReader) readFloat(key string) float64 {
	value, ok := r.raw(key)
	if !ok || value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.err = fmt.Errorf("corrupt checkpoint field %s=%q: %w", key, value, err)
		return 0
	}
	return f
}

func (r *fieldReader) readInt(key string) int {
	value, ok := r.raw(key)
	if !ok || value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.err = fmt.Errorf("corrupt checkpoint field %s=%q: %w", key, value, err)
		return 0
	}
	return n
}

func (r *fieldReader) readBool(key string) bool {
	value, ok := r.raw(key)
	if !ok || value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.err = fmt.Errorf("corrupt checkpoint field %s=%q: %w", key, value, err)
		return false
	}
	return b
}

func (r *fieldReader) readList(key string) []string {
	value, ok := r.raw(key)
	if !ok {
		return []string{}
	}
	items, err := decodeStringList(value)
	if err != nil {
		r.err = fmt.Errorf("corrupt checkpoint field %s: %w", key, err)
		return []string{}
	}
	return items
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// encodeStringList 将ID列表编码为 JSON 数组，ID 中的逗号不会破坏分隔
func encodeStringList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeStringList 解码ID列表
// 兼容 v1 格式：不是 JSON 数组时按逗号分隔解析
func decodeStringList(value string) ([]string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []string{}
		}
		return items, nil
	}

	items := []string{}
	for _, part := range strings.Split(trimmed, ",") {
		if part != "" {
			items = append(items, part)
		}
	}
	return items, nil
}
