package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"countdown_dev_v1_202601/pkg/widget"
)

// 店面挂件模拟器：在终端里跑一个真实的倒计时挂件实例，
// 连接服务端公开接口，本地持久化常青起点，Ctrl+C 退出
func main() {
	apiURL := flag.String("api", "http://localhost:8080", "服务端地址")
	shop := flag.String("shop", "", "店铺标识 (必填)")
	productID := flag.String("product", "", "商品 ID (必填)")
	statePath := flag.String("state", "", "本地状态库路径 (默认用户配置目录)")
	flag.Parse()

	if *shop == "" || *productID == "" {
		flag.Usage()
		os.Exit(2)
	}

	path := *statePath
	if path == "" {
		var err error
		path, err = widget.DefaultStorePath()
		if err != nil {
			log.Fatalf("无法确定本地状态库路径: %v", err)
		}
	}

	store, err := widget.NewLocalStore(path)
	if err != nil {
		log.Fatalf("打开本地状态库失败: %v", err)
	}

	registry := widget.NewRegistry()
	w := widget.New(
		"cli:"+*shop+":"+*productID,
		*shop, *productID,
		widget.NewClient(*apiURL),
		store,
		&widget.TextRenderer{Out: os.Stdout},
	)

	if err := registry.Mount(context.Background(), w); err != nil {
		log.Fatalf("挂载挂件失败: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	registry.StopAll()
}
