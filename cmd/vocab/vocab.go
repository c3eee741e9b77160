package main

import (
	"flag"
	"fmt"

	"parkjunwoo.com/navernews/pkg/batch"
	"parkjunwoo.com/navernews/pkg/preprocess"
	"parkjunwoo.com/navernews/pkg/vocab"
)

func main() {
	configPath := flag.String("config", "../../config/navernews.yaml", "설정 파일 경로")
	morph := flag.Bool("morph", true, "형태소 분석 서버로 토큰화 (false면 공백 기준)")
	check := flag.Bool("check", false, "저장한 사전으로 첫 배치를 만들어 확인")
	flag.Parse()

	opts, err := preprocess.NewOptions(*configPath)
	if err != nil {
		panic(err)
	}

	b, err := vocab.NewBuilder(*configPath, vocab.DefaultMasks())
	if err != nil {
		panic(err)
	}

	var analyzer preprocess.Analyzer
	if *morph {
		server, err := preprocess.NewAnalyzerServer(*configPath)
		if err != nil {
			panic(err)
		}
		defer server.Close()

		a, err := server.Start()
		if err != nil {
			panic(err)
		}
		analyzer = a
	}

	p, err := opts.Pipeline(analyzer)
	if err != nil {
		panic(err)
	}

	res, err := b.BuildFiles(p.ConvertFunc())
	if err != nil {
		fmt.Printf("[단어장] 생성 실패: %v\n", err)
		return
	}
	fmt.Printf("[단어장] %s (%d개)\n", res.VocabularyPath, len(res.Vocabulary))

	if !*check {
		return
	}

	it, err := batch.NewSummaryBatchIter(batch.Config{
		DataPaths:    b.DataPaths,
		Epochs:       1,
		BatchSize:    16,
		Word2IdxPath: res.Word2IdxPath,
		Idx2WordPath: res.Idx2WordPath,
		Convert:      p.ConvertFunc(),
	})
	if err != nil {
		fmt.Printf("[배치] 반복자 생성 실패: %v\n", err)
		return
	}
	defer it.Close()

	first, err := it.Next()
	if err != nil {
		fmt.Printf("[배치] 첫 배치 실패: %v\n", err)
		return
	}
	fmt.Printf("[배치] epoch %d, %d개 문장, encoder 길이 %d\n", first.Epoch(), first.Len(), len(first.Encoder[0]))
}
