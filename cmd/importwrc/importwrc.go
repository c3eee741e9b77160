package main

import (
	"flag"
	"fmt"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/scrape"
)

func main() {
	configPath := flag.String("config", "../../config/navernews.yaml", "설정 파일 경로")
	in := flag.String("in", "../../data/navernews.wrc.gz", "읽을 wrc.gz 파일")
	out := flag.String("out", "", "CSV 저장 경로 (비우면 data_path)")
	flag.Parse()

	n, err := scrape.NewNaver(*configPath)
	if err != nil {
		panic(err)
	}
	if *out == "" {
		*out = n.DataPath
	}

	w, err := corpus.OpenWriter(*out)
	if err != nil {
		panic(err)
	}
	defer w.Close()

	count, err := n.ImportWRC(*in, w)
	if err != nil {
		fmt.Printf("[중단] %d개 처리 후 오류: %v\n", count, err)
		return
	}
	fmt.Printf("[완료] %s -> %s: %d개 기사\n", *in, *out, count)
}
