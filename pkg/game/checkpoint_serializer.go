package game

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CheckpointExportVersion 导出文件版本号
// 数据结构发生不兼容变更时递增
const CheckpointExportVersion = 1

// CheckpointExportHeader 导出文件头
// 以一行 JSON 写在压缩流开头，便于不解码 gob 就能预览
type CheckpointExportHeader struct {
	Version  int       `json:"version"`
	SaveTime time.Time `json:"save_time"`
	Mission  int       `json:"mission_index"`
	Items    int       `json:"items"`
}

// checkpointExportData 导出文件的 gob 负载
type checkpointExportData struct {
	Header   CheckpointExportHeader
	Snapshot CheckpointSnapshot
}

// CheckpointSerializer 检查点导出/导入
//
// 将快照写成单个 zstd 压缩文件（JSON 头 + gob 负载），
// 用于手动备份存档槽；与键值存档相互独立
type CheckpointSerializer struct{}

// NewCheckpointSerializer 创建序列化器实例
func NewCheckpointSerializer() *CheckpointSerializer {
	return &CheckpointSerializer{}
}

// Export 将快照导出到文件
func (s *CheckpointSerializer) Export(path string, snap *CheckpointSnapshot) error {
	if snap == nil {
		return fmt.Errorf("export checkpoint: %w", ErrNoCheckpoint)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	data := checkpointExportData{
		Header: CheckpointExportHeader{
			Version:  CheckpointExportVersion,
			SaveTime: time.Now(),
			Mission:  snap.MissionIndex,
			Items:    len(snap.InventoryIDs),
		},
		Snapshot: *snap.Clone(),
	}

	bw := bufio.NewWriter(enc)
	hb, err := json.Marshal(data.Header)
	if err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := gob.NewEncoder(bw).Encode(&data); err != nil {
		_ = enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish zstd stream: %w", err)
	}

	log.Printf("[CheckpointSerializer] Exported checkpoint to %s: mission=%d, items=%d",
		path, snap.MissionIndex, len(snap.InventoryIDs))
	return nil
}

// Import 从文件导入快照
// 版本不匹配时返回错误
func (s *CheckpointSerializer) Import(path string) (*CheckpointSnapshot, *CheckpointExportHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	// 头部行只用于预览，gob 负载里也包含头部
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var data checkpointExportData
	if err := gob.NewDecoder(br).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("gob decode: %w", err)
	}

	if data.Header.Version != CheckpointExportVersion {
		return nil, nil, fmt.Errorf("incompatible checkpoint export version: %d (expected %d)",
			data.Header.Version, CheckpointExportVersion)
	}

	snap := data.Snapshot.Clone()
	log.Printf("[CheckpointSerializer] Imported checkpoint from %s: mission=%d, items=%d",
		path, snap.MissionIndex, len(snap.InventoryIDs))
	return snap, &data.Header, nil
}

// ReadHeader 只读取导出文件头（用于存档列表预览）
func (s *CheckpointSerializer) ReadHeader(path string) (*CheckpointExportHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header CheckpointExportHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return &header, nil
}
