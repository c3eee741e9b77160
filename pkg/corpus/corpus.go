package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSV 헤더 컬럼 이름
const (
	TitleField   = "title"
	ContentField = "content"
)

// ErrMalformedRecord는 필수 컬럼이 없거나 필드 수가 맞지 않는 행에서 반환됩니다.
var ErrMalformedRecord = errors.New("malformed corpus record")

// Record는 CSV 한 행에서 읽은 기사 하나입니다.
type Record struct {
	Title   string
	Content string
}

// Source는 레코드를 순서대로 돌려주며, 끝나면 io.EOF를 반환합니다.
type Source interface {
	Next() (Record, error)
}

// Reader는 title, content 헤더를 가진 CSV를 읽습니다.
type Reader struct {
	name       string
	closer     io.Closer
	r          *csv.Reader
	titleIdx   int
	contentIdx int
	row        int
}

// Open은 path의 CSV 파일을 열고 헤더를 검사합니다.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("파일 열기 오류(%s): %w", path, err)
	}

	r, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f

	return r, nil
}

// NewReader는 in에서 헤더 행을 읽어 title, content 컬럼 위치를 찾습니다.
// name은 오류 메시지에만 사용됩니다.
func NewReader(in io.Reader, name string) (*Reader, error) {
	cr := csv.NewReader(in)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: 헤더 없음: %w", name, ErrMalformedRecord)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: 헤더 읽기 오류: %w", name, err)
	}

	r := &Reader{name: name, r: cr, titleIdx: -1, contentIdx: -1}
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case TitleField:
			r.titleIdx = i
		case ContentField:
			r.contentIdx = i
		}
	}

	if r.titleIdx < 0 || r.contentIdx < 0 {
		return nil, fmt.Errorf("%s: 헤더에 %q, %q 컬럼이 필요함(%v): %w",
			name, TitleField, ContentField, header, ErrMalformedRecord)
	}

	return r, nil
}

// Next는 다음 레코드를 반환합니다. 필드가 빠진 행은 건너뛰지 않고 오류로 돌려줍니다.
func (r *Reader) Next() (Record, error) {
	fields, err := r.r.Read()
	if err == io.EOF {
		return Record{}, io.EOF
	}

	row := r.row
	r.row++

	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Record{}, fmt.Errorf("%s: %d번째 레코드: %v: %w", r.name, row, err, ErrMalformedRecord)
		}
		return Record{}, fmt.Errorf("%s: %d번째 레코드 읽기 오류: %w", r.name, row, err)
	}

	if r.titleIdx >= len(fields) || r.contentIdx >= len(fields) {
		return Record{}, fmt.Errorf("%s: %d번째 레코드 필드 부족: %w", r.name, row, ErrMalformedRecord)
	}

	return Record{Title: fields[r.titleIdx], Content: fields[r.contentIdx]}, nil
}

// Close는 Open으로 연 파일을 닫습니다.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// ReadAll은 path의 레코드를 모두 읽습니다.
func ReadAll(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
