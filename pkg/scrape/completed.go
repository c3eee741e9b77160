package scrape

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// logCompleted는 수집을 마친 기사 주소를 로그 파일에 기록합니다.
func logCompleted(logFilePath string, link string) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), os.ModePerm); err != nil {
		return err
	}

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(link + "\n")
	return err
}

// loadCompleted는 로그 파일에 기록된 주소 집합을 돌려줍니다. 파일이 없으면 빈 집합입니다.
func loadCompleted(logFilePath string) (map[string]struct{}, error) {
	completed := make(map[string]struct{})

	file, err := os.Open(logFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return completed, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			completed[line] = struct{}{}
		}
	}
	return completed, scanner.Err()
}
