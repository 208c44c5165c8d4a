// inspect_save 打印存档中的检查点
//
// 用法：
//
//	go run ./cmd/inspect_save                              # 使用 CR_* 环境变量中的存档后端
//	go run ./cmd/inspect_save -backend sqlite -sqlite data/saves/checkpoint.db
//	go run ./cmd/inspect_save -export data/saves/checkpoint.sav
//	go run ./cmd/inspect_save -erase                       # 删除存档
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/game"
)

// savedVec3 输出用的位置
type savedVec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// savedCheckpoint 输出用的检查点
type savedCheckpoint struct {
	Source            string             `yaml:"source"`
	Export            *exportInfo        `yaml:"export,omitempty"`
	Position          savedVec3          `yaml:"position"`
	Rotation          map[string]float64 `yaml:"rotation"`
	Health            float64            `yaml:"health"`
	MaxHealth         float64            `yaml:"maxHealth"`
	Inventory         []string           `yaml:"inventory"`
	Collected         []string           `yaml:"collected"`
	MissionIndex      int                `yaml:"missionIndex"`
	MissionsCompleted bool               `yaml:"missionsCompleted"`
}

type exportInfo struct {
	Version  int    `yaml:"version"`
	SaveTime string `yaml:"saveTime"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 解析参数并输出检查点，返回进程退出码
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadSessionConfig()
	if err != nil {
		fmt.Fprintf(stderr, "❌ 会话配置错误: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("inspect_save", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.SaveBackend, "backend", cfg.SaveBackend, "存档后端：gdata、sqlite 或 memory")
	fs.StringVar(&cfg.AppName, "app", cfg.AppName, "gdata 应用名")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "sqlite 数据库路径")
	fs.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "存档命名空间")
	exportPath := fs.String("export", "", "读取导出的检查点文件而不是存档后端")
	erase := fs.Bool("erase", false, "删除存档")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch cfg.SaveBackend {
	case config.SaveBackendGdata, config.SaveBackendSQLite, config.SaveBackendMemory:
	default:
		fmt.Fprintf(stderr, "❌ 未知的存档后端: %s\n", cfg.SaveBackend)
		return 1
	}

	if *exportPath != "" {
		return printExport(*exportPath, stdout, stderr)
	}

	store, err := game.OpenStore(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "❌ 打开存档失败: %v\n", err)
		return 1
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	gateway := game.NewPersistenceGateway(store, cfg.Namespace)

	if *erase {
		if err := gateway.Erase(); err != nil {
			fmt.Fprintf(stderr, "❌ 删除存档失败: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "✅ 存档已删除")
		return 0
	}

	snap, ok, err := gateway.Load()
	if err != nil {
		fmt.Fprintf(stderr, "❌ 读取存档失败: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(stdout, "没有存档")
		return 0
	}
	return printSnapshot(toSaved(cfg.SaveBackend+":"+cfg.Namespace, snap), stdout, stderr)
}

func printExport(path string, stdout, stderr io.Writer) int {
	snap, header, err := game.NewCheckpointSerializer().Import(path)
	if err != nil {
		fmt.Fprintf(stderr, "❌ 读取导出文件失败: %v\n", err)
		return 1
	}
	out := toSaved(path, snap)
	out.Export = &exportInfo{Version: header.Version, SaveTime: header.SaveTime.Format(time.RFC3339)}
	return printSnapshot(out, stdout, stderr)
}

func printSnapshot(out savedCheckpoint, stdout, stderr io.Writer) int {
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "❌ 输出失败: %v\n", err)
		return 1
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "❌ 输出失败: %v\n", err)
		return 1
	}
	return 0
}

func toSaved(source string, snap *game.CheckpointSnapshot) savedCheckpoint {
	out := savedCheckpoint{
		Source:   source,
		Position: savedVec3{X: snap.Position.X, Y: snap.Position.Y, Z: snap.Position.Z},
		Rotation: map[string]float64{
			"x": snap.Rotation.X, "y": snap.Rotation.Y, "z": snap.Rotation.Z, "w": snap.Rotation.W,
		},
		Health:            snap.Health,
		MaxHealth:         snap.MaxHealth,
		Inventory:         append([]string{}, snap.InventoryIDs...),
		Collected:         make([]string, 0, len(snap.CollectedWorldIDs)),
		MissionIndex:      snap.MissionIndex,
		MissionsCompleted: snap.MissionsCompleted,
	}
	for _, id := range snap.CollectedWorldIDs {
		out.Collected = append(out.Collected, string(id))
	}
	return out
}
