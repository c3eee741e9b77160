package main

import (
	"flag"
	"time"

	"parkjunwoo.com/navernews/pkg/scrape"
)

func main() {
	configPath := flag.String("config", "../../config/navernews.yaml", "설정 파일 경로")
	date := flag.String("date", "20180516", "수집할 날짜(YYYYMMDD)")
	days := flag.Int("days", 1, "date부터 거슬러 올라가며 수집할 일 수")
	flag.Parse()

	n, err := scrape.NewNaver(*configPath)
	if err != nil {
		panic(err)
	}

	start, err := time.Parse("20060102", *date)
	if err != nil {
		panic(err)
	}

	for i := 0; i < *days; i++ {
		if err := n.GetNews(start.AddDate(0, 0, -i).Format("20060102")); err != nil {
			panic(err)
		}
	}
}
