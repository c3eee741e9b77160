package vocab

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/preprocess"
)

var fields = preprocess.ConvertFunc(func(s string) ([]string, error) {
	return strings.Fields(s), nil
})

// spaces는 스페이스로만 나누므로 줄바꿈이 토큰 안에 남습니다.
var spaces = preprocess.ConvertFunc(func(s string) ([]string, error) {
	return strings.Split(s, " "), nil
})

func build(t *testing.T, dir string, maxCount int, records ...corpus.Record) *Result {
	t.Helper()
	res, err := MakeDictionary(corpus.FromRecords(records...), dir, fields, maxCount)
	if err != nil {
		t.Fatalf("MakeDictionary: %v", err)
	}
	return res
}

func TestMakeDictionaryScenarios(t *testing.T) {
	rec := corpus.Record{Title: "가 나", Content: "다 가"}
	testCases := []struct {
		name     string
		maxCount int
		convert  preprocess.ConvertFunc
		records  []corpus.Record
		expected []string
	}{
		{"threshold 2 keeps all", 2, fields, []corpus.Record{rec}, []string{UNK, PAD, GO, END, "가", "나", "다"}},
		{"threshold 1 drops all", 1, fields, []corpus.Record{rec}, []string{UNK, PAD, GO, END}},
		{"empty corpus", 20, fields, nil, []string{UNK, PAD, GO, END}},
		{"reserved token in corpus", 20, fields, []corpus.Record{{Title: "_PAD_ 라", Content: "_UNK_"}}, []string{UNK, PAD, GO, END, "라"}},
		{"line break in token", 20, spaces, []corpus.Record{{Title: "가\n나 라\r", Content: "다"}}, []string{UNK, PAD, GO, END, "다"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := MakeDictionary(corpus.FromRecords(tc.records...), t.TempDir(), tc.convert, tc.maxCount)
			if err != nil {
				t.Fatalf("MakeDictionary: %v", err)
			}
			if !reflect.DeepEqual(res.Vocabulary, tc.expected) {
				t.Errorf("Vocabulary = %q; expected %q", res.Vocabulary, tc.expected)
			}
			if res.WordCount != len(tc.expected)-DefaultMasks().Len() {
				t.Errorf("WordCount = %d", res.WordCount)
			}

			onDisk, err := ReadVocabulary(res.VocabularyPath)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(onDisk, tc.expected) {
				t.Errorf("vocabulary.txt = %q; expected %q", onDisk, tc.expected)
			}
		})
	}
}

func TestFilterWordsBoundary(t *testing.T) {
	words := []string{"가", "나", "나", "다", "다", "다"}
	got := filterWords(words, 3)
	want := []string{"가", "나", "나"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterWords = %q; expected %q", got, want)
	}
}

func TestVocabularyInvariants(t *testing.T) {
	res := build(t, t.TempDir(), 5,
		corpus.Record{Title: "하늘 바다 b a", Content: "바다 Z 강"},
		corpus.Record{Title: "강 산", Content: "abc ab 가"},
	)

	for i, mask := range DefaultMasks().Tokens() {
		if res.Vocabulary[i] != mask || res.Word2Idx[mask] != i {
			t.Errorf("reserved token %s not at %d", mask, i)
		}
	}

	corpusPart := res.Vocabulary[DefaultMasks().Len():]
	if !sort.StringsAreSorted(corpusPart) {
		t.Errorf("corpus tokens not sorted: %q", corpusPart)
	}

	if len(res.Word2Idx) != len(res.Vocabulary) || len(res.Idx2Word) != len(res.Vocabulary) {
		t.Fatalf("map sizes %d/%d; vocabulary %d", len(res.Word2Idx), len(res.Idx2Word), len(res.Vocabulary))
	}
	for word, id := range res.Word2Idx {
		if res.Idx2Word[id] != word {
			t.Errorf("idx2word[%d] = %q; expected %q", id, res.Idx2Word[id], word)
		}
	}
	for id, word := range res.Idx2Word {
		if res.Word2Idx[word] != id {
			t.Errorf("word2idx[%q] = %d; expected %d", word, res.Word2Idx[word], id)
		}
		if id < 0 || id >= len(res.Vocabulary) {
			t.Errorf("id %d out of range", id)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	records := []corpus.Record{
		{Title: "북 핵실험장 폭파", Content: "생중계 안할듯 북"},
		{Title: "청와대 의미", Content: "미래 핵개발"},
	}
	dir := t.TempDir()

	first := build(t, dir, 20, records...)
	a, err := os.ReadFile(first.VocabularyPath)
	if err != nil {
		t.Fatal(err)
	}

	second := build(t, dir, 20, records...)
	b, err := os.ReadFile(second.VocabularyPath)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a, b) {
		t.Errorf("vocabulary.txt differs between builds:\n%s\n---\n%s", a, b)
	}
}

func TestLoadDictionaryRoundTrip(t *testing.T) {
	res := build(t, t.TempDir(), 20, corpus.Record{Title: "가 나", Content: "다"})

	word2idx, idx2word, err := LoadDictionary(res.Word2IdxPath, res.Idx2WordPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(word2idx, res.Word2Idx) {
		t.Errorf("word2idx = %v; expected %v", word2idx, res.Word2Idx)
	}
	if !reflect.DeepEqual(idx2word, res.Idx2Word) {
		t.Errorf("idx2word = %v; expected %v", idx2word, res.Idx2Word)
	}
}

func TestLoadDictionaryMissing(t *testing.T) {
	res := build(t, t.TempDir(), 20, corpus.Record{Title: "가", Content: "나"})
	missing := filepath.Join(t.TempDir(), "none.dic")

	testCases := []struct {
		name     string
		w2i, i2w string
	}{
		{"neither exists", missing, missing + "2"},
		{"word2idx missing", missing, res.Idx2WordPath},
		{"idx2word missing", res.Word2IdxPath, missing},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w2i, i2w, err := LoadDictionary(tc.w2i, tc.i2w)
			if !errors.Is(err, ErrMissingArtifact) {
				t.Errorf("error = %v; expected ErrMissingArtifact", err)
			}
			if w2i != nil || i2w != nil {
				t.Error("maps returned alongside missing artifact")
			}
		})
	}
}

func TestBuildLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "words")
	res := build(t, dir, 20)

	expected := map[string]string{
		res.VocabularyPath: filepath.Join(dir, "vocabulary.txt"),
		res.Word2IdxPath:   filepath.Join(dir, "dict", "word2idx.dic"),
		res.Idx2WordPath:   filepath.Join(dir, "dict", "idx2word.dic"),
	}
	for got, want := range expected {
		if got != want {
			t.Errorf("path = %s; expected %s", got, want)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("%s not written: %v", got, err)
		}
	}
}

func TestBuildPropagatesErrors(t *testing.T) {
	boom := errors.New("tokenizer failed")
	failing := preprocess.ConvertFunc(func(s string) ([]string, error) {
		if s == "bad" {
			return nil, boom
		}
		return strings.Fields(s), nil
	})

	src := corpus.FromRecords(corpus.Record{Title: "ok", Content: "ok"}, corpus.Record{Title: "ok", Content: "bad"})
	_, err := MakeDictionary(src, t.TempDir(), failing, 20)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v; expected tokenizer error", err)
	}
	if !strings.Contains(err.Error(), "1번째 레코드 content") {
		t.Errorf("error %q lacks record index and field", err)
	}

	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	os.WriteFile(csvPath, []byte("title,content\n가,나\n다\n"), 0644)
	files := corpus.OpenFiles(csvPath)
	defer files.Close()
	if _, err := MakeDictionary(files, t.TempDir(), fields, 20); !errors.Is(err, corpus.ErrMalformedRecord) {
		t.Errorf("error = %v; expected ErrMalformedRecord", err)
	}
}

func TestBuildUnwritableSavePoint(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0644)

	if _, err := MakeDictionary(corpus.FromRecords(), filepath.Join(file, "words"), fields, 20); err == nil {
		t.Error("expected error when save point is under a regular file")
	}
}

func TestNewMaskInfo(t *testing.T) {
	if _, err := NewMaskInfo(Mask{"<unk>", 0}, Mask{"<pad>", 1}); err != nil {
		t.Errorf("valid masks rejected: %v", err)
	}

	bad := [][]Mask{
		{{"<unk>", 1}},
		{{"<unk>", 0}, {"<unk>", 1}},
		{{"", 0}},
	}
	for _, masks := range bad {
		if _, err := NewMaskInfo(masks...); !errors.Is(err, ErrInvalidMasks) {
			t.Errorf("NewMaskInfo(%v) error = %v; expected ErrInvalidMasks", masks, err)
		}
	}

	b := &Builder{SavePoint: t.TempDir(), WordMaxCount: 20}
	if _, err := b.Build(corpus.FromRecords(), fields); !errors.Is(err, ErrInvalidMasks) {
		t.Errorf("Build without masks error = %v; expected ErrInvalidMasks", err)
	}
}

func TestNewBuilder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navernews.yaml")
	os.WriteFile(path, []byte("save_point: ./out/words\nword_max_count: 7\n"), 0644)

	b, err := NewBuilder(path, DefaultMasks())
	if err != nil {
		t.Fatal(err)
	}
	if b.SavePoint != "./out/words" || b.WordMaxCount != 7 || b.Masks.Len() != 4 {
		t.Errorf("builder = %+v", b)
	}
	if len(b.DataPaths) != 1 || b.DataPaths[0] != "./data/navernews_data.csv" {
		t.Errorf("DataPaths = %v", b.DataPaths)
	}

	testCases := []struct {
		yaml     string
		expected int
	}{
		{"save_point: ./out/words\n", 20},
		{"word_max_count: 0\n", 0},
		{"word_max_count: 1\n", 1},
	}
	for _, tc := range testCases {
		os.WriteFile(path, []byte(tc.yaml), 0644)
		b, err := NewBuilder(path, DefaultMasks())
		if err != nil {
			t.Fatal(err)
		}
		if b.WordMaxCount != tc.expected {
			t.Errorf("%q: WordMaxCount = %d; expected %d", tc.yaml, b.WordMaxCount, tc.expected)
		}
	}

	os.WriteFile(path, []byte("word_max_count: 0\n"), 0644)
	b, err = NewBuilder(path, DefaultMasks())
	if err != nil {
		t.Fatal(err)
	}
	b.SavePoint = t.TempDir()
	res, err := b.Build(corpus.FromRecords(corpus.Record{Title: "가", Content: "나"}), fields)
	if err != nil {
		t.Fatal(err)
	}
	if res.WordCount != 0 {
		t.Errorf("word_max_count 0 kept %d words", res.WordCount)
	}
}

func TestBuildFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	c := filepath.Join(dir, "b.csv")
	os.WriteFile(a, []byte("title,content\n나 가,다\n"), 0644)
	os.WriteFile(c, []byte("title,content\n가,라\n"), 0644)

	b := &Builder{DataPaths: []string{a, c}, SavePoint: filepath.Join(dir, "words"), WordMaxCount: 20, Masks: DefaultMasks()}
	res, err := b.BuildFiles(fields)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{UNK, PAD, GO, END, "가", "나", "다", "라"}
	if !reflect.DeepEqual(res.Vocabulary, want) {
		t.Errorf("Vocabulary = %q; expected %q", res.Vocabulary, want)
	}
}
