//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前把根目录的 assets/ 和 data/walkers.yaml 复制到此目录：
//
//	cp -r assets mobile/ && mkdir -p mobile/data && cp data/walkers.yaml mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed all:assets
var assetsFS embed.FS

//go:embed data/walkers.yaml
var dataFS embed.FS
