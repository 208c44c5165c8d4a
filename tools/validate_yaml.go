// validate_yaml 校验内容数据文件
//
// 用法（在项目根目录运行）：
//
//	go run ./tools
//	go run ./tools -items data/items.yaml -missions data/missions.yaml -level data/levels/facility.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/cyberrebel/pkg/config"
)

func main() {
	itemsPath := flag.String("items", "data/items.yaml", "物品目录文件")
	missionsPath := flag.String("missions", "data/missions.yaml", "任务表文件")
	levelPath := flag.String("level", "data/levels/facility.yaml", "关卡文件")
	flag.Parse()

	items, err := config.LoadItemCatalogConfig(*itemsPath)
	if err != nil {
		fmt.Printf("❌ 物品目录错误: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 物品数量: %d\n", len(items.Items))

	missions, err := config.LoadMissionTableConfig(*missionsPath)
	if err != nil {
		fmt.Printf("❌ 任务表错误: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 任务数量: %d\n", len(missions.Missions))

	level, err := config.LoadLevelConfig(*levelPath)
	if err != nil {
		fmt.Printf("❌ 关卡错误: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 关卡 %s: %d 个可拾取物, %d 个检查点, %d 个伤害区域\n",
		level.ID, len(level.Collectibles), len(level.Checkpoints), len(level.DamageZones))

	known := make(map[string]bool, len(items.Items))
	for _, item := range items.Items {
		known[item.ID] = true
	}

	problems := 0
	for _, m := range missions.Missions {
		if m.RequiredItem != "" && !known[m.RequiredItem] {
			fmt.Printf("❌ 任务 %d 需要未知物品 %q\n", m.ID, m.RequiredItem)
			problems++
		}
	}
	for _, c := range level.Collectibles {
		if !known[c.Item] {
			fmt.Printf("❌ 可拾取物 %s_%s 引用未知物品\n", c.Item, c.Instance)
			problems++
		}
	}

	if problems == 0 {
		fmt.Printf("✅ 所有引用都有效\n")
	} else {
		fmt.Printf("❌ 有 %d 个无效引用\n", problems)
		os.Exit(1)
	}
}
