package corpus

import (
	"fmt"
	"io"
)

// Files는 여러 CSV 파일을 순서대로 하나의 Source처럼 읽습니다.
// 현재 파일을 다 읽으면 닫고 다음 파일을 엽니다.
type Files struct {
	paths []string
	next  int
	cur   *Reader
}

func OpenFiles(paths ...string) *Files {
	return &Files{paths: paths}
}

func (fs *Files) Next() (Record, error) {
	for {
		if fs.cur == nil {
			if fs.next >= len(fs.paths) {
				return Record{}, io.EOF
			}
			r, err := Open(fs.paths[fs.next])
			if err != nil {
				return Record{}, err
			}
			fs.cur = r
			fs.next++
		}

		rec, err := fs.cur.Next()
		if err == io.EOF {
			if err := fs.cur.Close(); err != nil {
				return Record{}, fmt.Errorf("파일 닫기 오류: %w", err)
			}
			fs.cur = nil
			continue
		}
		return rec, err
	}
}

// Close는 열려 있는 파일을 닫습니다. 읽기 도중 오류로 멈춘 경우에도 호출해야 합니다.
func (fs *Files) Close() error {
	if fs.cur == nil {
		return nil
	}
	err := fs.cur.Close()
	fs.cur = nil
	return err
}

type sliceSource struct {
	records []Record
	pos     int
}

// FromRecords는 메모리의 레코드 목록을 Source로 감쌉니다.
func FromRecords(records ...Record) Source {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}
