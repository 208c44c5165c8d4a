package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// NoNextMission 表示最后一个任务（没有后续任务）
const NoNextMission = -1

//go:embed mission_schema.json
var missionSchemaJSON string

var (
	missionSchemaOnce sync.Once
	missionSchema     *jsonschema.Schema
	missionSchemaErr  error
)

// MissionTableConfig 任务表配置
// 对应 data/missions.yaml，按顺序列出线性任务链
type MissionTableConfig struct {
	Missions []MissionConfig `yaml:"missions"`
}

// MissionConfig 单个任务定义
type MissionConfig struct {
	ID           int    `yaml:"id"`           // 任务ID
	Objective    string `yaml:"objective"`    // "目标" 文本
	Instruction  string `yaml:"instruction"`  // "怎么做" 文本
	RequiredItem string `yaml:"requiredItem"` // 完成任务需要拾取的物品目录ID
	Next         *int   `yaml:"next"`         // 下一个任务ID，缺省或负数表示最后一个任务
}

// NextID 返回下一个任务ID，没有后续任务时返回 NoNextMission
func (m MissionConfig) NextID() int {
	if m.Next == nil || *m.Next < 0 {
		return NoNextMission
	}
	return *m.Next
}

// LoadMissionTableConfig 从YAML文件加载任务表
//
// 加载流程：
//  1. 读取文件
//  2. 使用内嵌 JSON Schema 校验结构
//  3. 解析为 MissionTableConfig
//  4. 校验任务ID唯一、后续任务引用存在
func LoadMissionTableConfig(path string) (*MissionTableConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission table file %s: %w", path, err)
	}

	cfg, err := ParseMissionTableConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid mission table in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseMissionTableConfig 从YAML数据解析并校验任务表
func ParseMissionTableConfig(data []byte) (*MissionTableConfig, error) {
	if err := validateMissionSchema(data); err != nil {
		return nil, err
	}

	var cfg MissionTableConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mission table YAML: %w", err)
	}

	if err := validateMissionTable(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// compiledMissionSchema 编译内嵌的任务表 Schema（只编译一次）
func compiledMissionSchema() (*jsonschema.Schema, error) {
	missionSchemaOnce.Do(func() {
		missionSchema, missionSchemaErr = jsonschema.CompileString("mission_schema.json", missionSchemaJSON)
	})
	return missionSchema, missionSchemaErr
}

// validateMissionSchema 使用 JSON Schema 校验 YAML 文档结构
// YAML 先解码为通用值，再经 JSON 往返，得到 jsonschema 期望的值类型
func validateMissionSchema(data []byte) error {
	schema, err := compiledMissionSchema()
	if err != nil {
		return fmt.Errorf("failed to compile mission schema: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse mission table YAML: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert mission table to JSON: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to decode mission table JSON: %w", err)
	}

	if err := schema.Validate(generic); err != nil {
		return fmt.Errorf("mission table does not match schema: %w", err)
	}
	return nil
}

// validateMissionTable 校验任务ID唯一以及后续任务引用有效
func validateMissionTable(cfg *MissionTableConfig) error {
	ids := make(map[int]bool, len(cfg.Missions))
	for _, m := range cfg.Missions {
		if ids[m.ID] {
			return fmt.Errorf("duplicate mission id %d", m.ID)
		}
		ids[m.ID] = true
	}

	for _, m := range cfg.Missions {
		next := m.NextID()
		if next != NoNextMission && !ids[next] {
			return fmt.Errorf("mission %d points to unknown next mission %d", m.ID, next)
		}
	}
	return nil
}
