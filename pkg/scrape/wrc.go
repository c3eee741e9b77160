package scrape

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"parkjunwoo.com/navernews/pkg/corpus"
)

// 파일 핸들을 전달받아 wrc.gz 형식(url, 길이, 본문, 빈 줄)으로 데이터를 추가하는 함수
func writeWRC(gw *gzip.Writer, url string, content []byte) error {
	entry := fmt.Sprintf("%s\n%d\n%s\n\n", url, len(content), content)

	if _, err := gw.Write([]byte(entry)); err != nil {
		return fmt.Errorf("writeWRC 오류(URL: %s): %w", url, err)
	}

	return nil
}

// readWRC는 wrc 항목 하나를 읽습니다. 더 읽을 항목이 없으면 io.EOF를 반환합니다.
func readWRC(reader *bufio.Reader) (string, []byte, error) {
	url, err := reader.ReadString('\n')
	if err == io.EOF && strings.TrimSpace(url) == "" {
		return "", nil, io.EOF
	}
	if err != nil {
		return "", nil, fmt.Errorf("url read error: %w", err)
	}
	url = strings.TrimSpace(url)

	sizeLine, err := reader.ReadString('\n')
	if err != nil {
		return url, nil, fmt.Errorf("size read error (%s): %w", url, err)
	}
	size, err := strconv.Atoi(strings.TrimSpace(sizeLine))
	if err != nil {
		return url, nil, fmt.Errorf("invalid size (%s): %w", url, err)
	}

	content := make([]byte, size)
	if _, err := io.ReadFull(reader, content); err != nil {
		return url, nil, fmt.Errorf("content read error (%s): %w", url, err)
	}

	// 본문 뒤의 빈 줄 두 개
	reader.ReadString('\n')
	reader.ReadString('\n')

	return url, content, nil
}

// ImportWRC는 wrc.gz 보관 파일의 기사들을 다시 파싱해 w에 씁니다.
// 네이버 기사 형식이 아닌 페이지는 <title>과 본문 텍스트를 씁니다.
// 헤더가 깨진 항목을 만나면 그 뒤는 읽을 수 없으므로 중단하고 오류를 반환합니다.
func (n *Naver) ImportWRC(inputPath string, w *corpus.Writer) (int, error) {
	inFile, err := os.Open(inputPath)
	if err != nil {
		return 0, err
	}
	defer inFile.Close()

	gzReader, err := gzip.NewReader(inFile)
	if err != nil {
		return 0, fmt.Errorf("[워커] gzReader 오류: %w", err)
	}
	defer gzReader.Close()

	reader := bufio.NewReader(gzReader)

	count := 0
	for {
		url, content, err := readWRC(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		rec, err := n.ParseArticle(content)
		if err != nil {
			rec, err = parsePage(content)
		}
		if err != nil {
			fmt.Printf("[스킵] %s: %v\n", url, err)
			continue
		}

		if err := w.Write(rec); err != nil {
			return count, err
		}
		count++
		if count%1000 == 0 {
			fmt.Printf("[진행 상황] %d개 처리 완료\n", count)
			if err := w.Flush(); err != nil {
				return count, err
			}
		}
	}

	return count, w.Flush()
}

// parsePage는 일반 뉴스 페이지에서 <title>과 보이는 본문 텍스트를 뽑습니다.
func parsePage(rawHTML []byte) (corpus.Record, error) {
	doc, err := newDocument(rawHTML)
	if err != nil {
		return corpus.Record{}, err
	}

	title := cleanField(doc.Find("title").First().Text())
	doc.Find("head, script, style, noscript").Remove()
	text := cleanField(doc.Find("body").Text())

	if title == "" || text == "" {
		return corpus.Record{}, fmt.Errorf("title/body: %w", errArticleNotFound)
	}

	return corpus.Record{Title: title, Content: text}, nil
}
