package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/preprocess"
)

// 저장 위치 아래의 파일 배치
const (
	VocabularyFile = "vocabulary.txt"
	DictDir        = "dict"
	Word2IdxFile   = "word2idx.dic"
	Idx2WordFile   = "idx2word.dic"
)

// Builder는 단어장과 word2idx, idx2word 사전을 만듭니다.
// 같은 SavePoint로 동시에 Build를 호출하면 안 됩니다.
type Builder struct {
	DataPaths    []string `yaml:"data_paths"`
	SavePoint    string   `yaml:"save_point"`
	WordMaxCount int      `yaml:"word_max_count"`

	Masks MaskInfo `yaml:"-"`
}

// Result는 저장된 파일 위치와 메모리에 만든 사전입니다.
type Result struct {
	VocabularyPath string
	Word2IdxPath   string
	Idx2WordPath   string

	Elapsed   time.Duration
	WordCount int // 예약 토큰을 뺀 뉴스 단어 수

	Vocabulary []string
	Word2Idx   map[string]int
	Idx2Word   map[int]string
}

func NewBuilder(path string, masks MaskInfo) (*Builder, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Builder
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// word_max_count: 0 은 모든 단어를 빼는 유효한 값이라 키가 없을 때만 기본값을 씁니다.
	var set struct {
		WordMaxCount *int `yaml:"word_max_count"`
	}
	if err := yaml.Unmarshal(file, &set); err != nil {
		return nil, err
	}

	if len(cfg.DataPaths) == 0 {
		cfg.DataPaths = []string{"./data/navernews_data.csv"}
	}
	if cfg.SavePoint == "" {
		cfg.SavePoint = "./data/words"
	}
	if set.WordMaxCount == nil {
		cfg.WordMaxCount = 20
	}
	cfg.Masks = masks

	return &cfg, nil
}

// MakeDictionary는 기본 예약 토큰으로 단어장을 만듭니다.
func MakeDictionary(src corpus.Source, savePoint string, convert preprocess.ConvertFunc, wordMaxCount int) (*Result, error) {
	b := &Builder{SavePoint: savePoint, WordMaxCount: wordMaxCount, Masks: DefaultMasks()}
	return b.Build(src, convert)
}

// BuildFiles는 DataPaths의 CSV 파일들로 단어장을 만듭니다.
func (b *Builder) BuildFiles(convert preprocess.ConvertFunc) (*Result, error) {
	files := corpus.OpenFiles(b.DataPaths...)
	defer files.Close()

	return b.Build(files, convert)
}

// Build는 src의 모든 레코드의 제목과 본문을 convert로 토큰화해 단어장을 만들고 저장합니다.
//
//  1. vocabulary.txt : 한 줄에 단어 하나, 줄 번호 = 단어 번호
//  2. dict/word2idx.dic : {단어: 번호}
//  3. dict/idx2word.dic : {번호: 단어}
//
// 레코드 하나라도 읽기/변환에 실패하면 그 자리에서 중단합니다.
func (b *Builder) Build(src corpus.Source, convert preprocess.ConvertFunc) (*Result, error) {
	startTime := time.Now()

	if b.Masks.Len() == 0 {
		return nil, fmt.Errorf("no reserved tokens: %w", ErrInvalidMasks)
	}

	// 결과물을 저장할 디렉토리 생성
	dictDir := filepath.Join(b.SavePoint, DictDir)
	if err := os.MkdirAll(dictDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("디렉토리 생성 오류(%s): %w", dictDir, err)
	}

	res := &Result{
		VocabularyPath: filepath.Join(b.SavePoint, VocabularyFile),
		Word2IdxPath:   filepath.Join(dictDir, Word2IdxFile),
		Idx2WordPath:   filepath.Join(dictDir, Idx2WordFile),
	}

	words, err := collectWords(src, convert, b.Masks)
	if err != nil {
		return nil, err
	}

	words = filterWords(words, b.WordMaxCount)
	fmt.Println("[단어장] 단어 리스트 완성...")

	res.Vocabulary = append(b.Masks.Tokens(), words...)
	res.WordCount = len(words)
	res.Word2Idx = make(map[string]int, len(res.Vocabulary))
	res.Idx2Word = make(map[int]string, len(res.Vocabulary))
	for i, word := range res.Vocabulary {
		res.Word2Idx[word] = i
		res.Idx2Word[i] = word
	}

	if err := writeVocabulary(res.VocabularyPath, res.Vocabulary); err != nil {
		return nil, err
	}
	if err := saveGob(res.Word2IdxPath, res.Word2Idx); err != nil {
		return nil, err
	}
	if err := saveGob(res.Idx2WordPath, res.Idx2Word); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(startTime)
	fmt.Printf("[단어장] 단어장/사전 저장 완료... 총 걸린 시간 : %.3f sec, 총 단어 갯수 : %d\n",
		res.Elapsed.Seconds(), res.WordCount)

	return res, nil
}

// collectWords는 제목과 본문의 토큰을 집합으로 모은 뒤 정렬해 돌려줍니다.
// 예약 토큰과 같은 단어, 빈 문자열, 줄바꿈이 들어간 단어는 넣지 않습니다.
// vocabulary.txt는 한 줄에 단어 하나이므로 줄바꿈이 있으면 줄 번호와 단어 번호가 어긋납니다.
func collectWords(src corpus.Source, convert preprocess.ConvertFunc, masks MaskInfo) ([]string, error) {
	set := make(map[string]struct{})
	for i := 0; ; i++ {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("코퍼스 읽기 오류(%d번째 레코드): %w", i, err)
		}

		for _, field := range []struct {
			name, text string
		}{
			{corpus.TitleField, rec.Title},
			{corpus.ContentField, rec.Content},
		} {
			tokens, err := convert(field.text)
			if err != nil {
				return nil, fmt.Errorf("%d번째 레코드 %s 변환 실패: %w", i, field.name, err)
			}
			for _, token := range tokens {
				if token == "" || strings.ContainsAny(token, "\r\n") || masks.Contains(token) {
					continue
				}
				set[token] = struct{}{}
			}
		}
	}

	words := make([]string, 0, len(set))
	for word := range set {
		words = append(words, word)
	}
	sort.Strings(words)

	return words, nil
}

// filterWords는 출현 횟수가 wordMaxCount 이상인 단어를 뺍니다.
// 횟수는 집합으로 모은 뒤의 목록에서 세므로 모든 단어가 1회입니다. 즉 wordMaxCount가
// 2 이상이면 전부 남고 1 이하면 전부 빠집니다.
func filterWords(words []string, wordMaxCount int) []string {
	counter := make(map[string]int, len(words))
	for _, word := range words {
		counter[word]++
	}

	kept := make([]string, 0, len(words))
	for _, word := range words {
		if counter[word] < wordMaxCount {
			kept = append(kept, word)
		}
	}
	return kept
}

func writeVocabulary(path string, vocabulary []string) (err error) {
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
	for _, word := range vocabulary {
		if _, err := w.WriteString(word + "\n"); err != nil {
			return fmt.Errorf("단어장 쓰기 오류(%s): %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("단어장 쓰기 오류(%s): %w", path, err)
	}
	return nil
}
