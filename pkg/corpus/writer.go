package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Writer는 레코드를 CSV에 이어 씁니다.
type Writer struct {
	f *os.File
	w *csv.Writer
}

// OpenWriter는 path가 있으면 이어 쓰고, 없으면 새로 만들어 헤더부터 씁니다.
func OpenWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}

	writeHeader := false
	if fi, err := os.Stat(path); os.IsNotExist(err) || (err == nil && fi.Size() == 0) {
		writeHeader = true
	} else if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("파일 열기 오류(%s): %w", path, err)
	}

	w := &Writer{f: f, w: csv.NewWriter(f)}
	if writeHeader {
		if err := w.w.Write([]string{TitleField, ContentField}); err != nil {
			f.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Writer) Write(rec Record) error {
	return w.w.Write([]string{rec.Title, rec.Content})
}

func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer) Close() error {
	ferr := w.Flush()
	if err := w.f.Close(); err != nil {
		return err
	}
	return ferr
}
