package main

import (
	"fmt"
	"os"

	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/embedded"
	"github.com/decker502/globe/pkg/systems"
)

func main() {
	// 以当前目录（项目根目录）作为 data/ 的来源，校验与嵌入时相同的路径
	embedded.Init(os.DirFS("."))
	failed := 0

	globeConfig, err := config.LoadGlobeConfig(config.GlobeConfigPath)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", config.GlobeConfigPath, err)
		failed++
	} else {
		fmt.Printf("✅ %s: 过渡总时长 %.0fms, 重入策略 %s\n",
			config.GlobeConfigPath, globeConfig.Sequencer.TotalMillis(), globeConfig.Sequencer.Policy())
	}

	catalog, err := config.LoadDestinationCatalog(config.DestinationsPath)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", config.DestinationsPath, err)
		failed++
	} else {
		fmt.Printf("✅ %s: %d 个目的地\n", config.DestinationsPath, catalog.Len())
		for _, d := range catalog.Destinations {
			if d.Image == "" {
				continue
			}
			if !embedded.Exists(d.Image) {
				fmt.Printf("❌ 目的地 %s 的照片不存在: %s\n", d.ID, d.Image)
				failed++
			}
		}
	}

	scripts, err := embedded.Glob("data/tours/*.tengo")
	if err != nil {
		fmt.Printf("❌ 查找巡游脚本失败: %v\n", err)
		failed++
	}
	for _, path := range scripts {
		src, err := embedded.ReadFile(path)
		if err != nil {
			fmt.Printf("❌ 读取 %s 失败: %v\n", path, err)
			failed++
			continue
		}
		if _, err := systems.CompileTourScript(src); err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("✅ %s 编译通过\n", path)
	}

	if failed > 0 {
		fmt.Printf("❌ 共 %d 个错误\n", failed)
		os.Exit(1)
	}
}
