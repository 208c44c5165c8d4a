//go:build mobile

// embed.go - 移动端内容数据嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把项目根目录的 data/ 复制到此目录：
//
//	cp -r data mobile/data
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/items.yaml data/missions.yaml data/levels
var dataFS embed.FS
