package types

import (
	"fmt"
	"strings"
)

// WorldID 场景中一个拾取物实例的唯一标识
// 由物品目录 ID 和实例名组合而成，例如 "keyA_instance1"
type WorldID string

// WorldIDSeparator 目录 ID 与实例名之间的分隔符
// 实例名不能包含分隔符，目录 ID 可以
const WorldIDSeparator = "_"

// NewWorldID 组合目录 ID 和实例名
//
// 返回：
//   - WorldID: 组合后的标识
//   - error: 任一部分为空时返回错误
func NewWorldID(catalogID, instanceName string) (WorldID, error) {
	catalogID = strings.TrimSpace(catalogID)
	instanceName = strings.TrimSpace(instanceName)
	if catalogID == "" || instanceName == "" {
		return "", fmt.Errorf("world id needs catalog id and instance name (got %q, %q)", catalogID, instanceName)
	}
	return WorldID(catalogID + WorldIDSeparator + instanceName), nil
}

// String 返回字符串形式
func (id WorldID) String() string {
	return string(id)
}

// IsValid 检查标识是否非空且不只包含空白
func (id WorldID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}
