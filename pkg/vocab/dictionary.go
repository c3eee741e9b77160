package vocab

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// ErrMissingArtifact는 불러올 사전 파일이 없을 때 반환됩니다.
var ErrMissingArtifact = errors.New("missing dictionary artifact")

func saveGob(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("파일 생성 오류(%s): %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("파일 닫기 오류(%s): %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("사전 저장 오류(%s): %w", path, err)
	}
	return w.Flush()
}

func loadGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("파일 열기 오류(%s): %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(v); err != nil {
		return fmt.Errorf("사전 불러오기 오류(%s): %w", path, err)
	}
	return nil
}

// LoadDictionary는 word2idx.dic, idx2word.dic를 불러옵니다.
// 둘 중 하나라도 없으면 읽기 전에 ErrMissingArtifact를 반환합니다.
func LoadDictionary(word2idxPath, idx2wordPath string) (map[string]int, map[int]string, error) {
	for _, path := range []string{word2idxPath, idx2wordPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("%s: %w", path, ErrMissingArtifact)
			}
			return nil, nil, err
		}
	}

	var word2idx map[string]int
	if err := loadGob(word2idxPath, &word2idx); err != nil {
		return nil, nil, err
	}

	var idx2word map[int]string
	if err := loadGob(idx2wordPath, &idx2word); err != nil {
		return nil, nil, err
	}

	return word2idx, idx2word, nil
}

// ReadVocabulary는 vocabulary.txt를 줄 순서대로 읽습니다.
func ReadVocabulary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingArtifact)
		}
		return nil, err
	}
	defer f.Close()

	var vocabulary []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		vocabulary = append(vocabulary, scanner.Text())
	}
	return vocabulary, scanner.Err()
}
