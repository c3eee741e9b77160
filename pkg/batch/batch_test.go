package batch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/preprocess"
	"parkjunwoo.com/navernews/pkg/vocab"
)

var (
	_ BatchIter = (*Word2VecBatchIter)(nil)
	_ BatchIter = (*SummaryBatchIter)(nil)
)

var fields = preprocess.ConvertFunc(func(s string) ([]string, error) {
	return strings.Fields(s), nil
})

// setup은 "가 나", "다"로 사전을 만들고(가=4, 나=5, 다=6), data를 CSV로 씁니다.
func setup(t *testing.T, data string) Config {
	t.Helper()
	dir := t.TempDir()

	res, err := vocab.MakeDictionary(corpus.FromRecords(corpus.Record{Title: "가 나", Content: "다"}),
		filepath.Join(dir, "words"), fields, 20)
	if err != nil {
		t.Fatal(err)
	}

	dataPath := filepath.Join(dir, "navernews_data.csv")
	if err := os.WriteFile(dataPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	return Config{
		DataPaths:    []string{dataPath},
		Epochs:       1,
		BatchSize:    3,
		Word2IdxPath: res.Word2IdxPath,
		Idx2WordPath: res.Idx2WordPath,
		Convert:      fields,
	}
}

func TestMissingDictionary(t *testing.T) {
	cfg := setup(t, "title,content\n")
	cfg.Idx2WordPath = filepath.Join(t.TempDir(), "idx2word.dic")

	if _, err := NewWord2VecBatchIter(cfg, 2); !errors.Is(err, vocab.ErrMissingArtifact) {
		t.Errorf("Word2Vec error = %v; expected ErrMissingArtifact", err)
	}
	if _, err := NewSummaryBatchIter(cfg); !errors.Is(err, vocab.ErrMissingArtifact) {
		t.Errorf("Summary error = %v; expected ErrMissingArtifact", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := setup(t, "title,content\n")

	zeroBatch := cfg
	zeroBatch.BatchSize = 0
	if _, err := NewSummaryBatchIter(zeroBatch); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v; expected ErrInvalidConfig", err)
	}
	if _, err := NewWord2VecBatchIter(cfg, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v; expected ErrInvalidConfig", err)
	}
}

func TestWord2VecBatches(t *testing.T) {
	cfg := setup(t, "title,content\n가 나 마,다\n")
	cfg.Epochs = 2

	it, err := NewWord2VecBatchIter(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	// 제목 [4 5 0] -> (4,5) (5,4) (5,0) (0,5); 본문 [6]은 쌍이 없음
	type want struct {
		epoch              int
		centers, contexts []int
	}
	expected := []want{
		{0, []int{4, 5, 5}, []int{5, 4, 0}},
		{0, []int{0}, []int{5}},
		{1, []int{4, 5, 5}, []int{5, 4, 0}},
		{1, []int{0}, []int{5}},
	}

	for i, w := range expected {
		b, err := it.NextBatches()
		if err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
		wb := b.(*Word2VecBatch)
		if wb.Epoch() != w.epoch || !reflect.DeepEqual(wb.Centers, w.centers) || !reflect.DeepEqual(wb.Contexts, w.contexts) {
			t.Errorf("batch %d = %+v; expected %+v", i, wb, w)
		}
	}

	if _, err := it.NextBatches(); err != io.EOF {
		t.Errorf("after last batch error = %v; expected io.EOF", err)
	}
}

func TestSummaryBatches(t *testing.T) {
	cfg := setup(t, "title,content\n가 나,다 가 마\n다,나\n")

	it, err := NewSummaryBatchIter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	b, err := it.Next()
	if err != nil {
		t.Fatal(err)
	}

	pad, goID, end, unk := vocab.PadID, vocab.GoID, vocab.EndID, vocab.UnkID
	if want := [][]int{{6, 4, unk}, {5, pad, pad}}; !reflect.DeepEqual(b.Encoder, want) {
		t.Errorf("Encoder = %v; expected %v", b.Encoder, want)
	}
	if want := [][]int{{goID, 4, 5}, {goID, 6, pad}}; !reflect.DeepEqual(b.DecoderInput, want) {
		t.Errorf("DecoderInput = %v; expected %v", b.DecoderInput, want)
	}
	if want := [][]int{{4, 5, end}, {6, end, pad}}; !reflect.DeepEqual(b.Target, want) {
		t.Errorf("Target = %v; expected %v", b.Target, want)
	}

	if _, err := it.Next(); err != io.EOF {
		t.Errorf("error = %v; expected io.EOF", err)
	}
}

func TestBatchesStopOnMalformedRecord(t *testing.T) {
	cfg := setup(t, "title,content\n가,나\n다\n")

	it, err := NewSummaryBatchIter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if _, err := it.Next(); !errors.Is(err, corpus.ErrMalformedRecord) {
		t.Errorf("error = %v; expected ErrMalformedRecord", err)
	}
}

func TestDictionaryAccessors(t *testing.T) {
	it, err := NewSummaryBatchIter(setup(t, "title,content\n"))
	if err != nil {
		t.Fatal(err)
	}
	if it.Word2Idx()["다"] != 6 || it.Idx2Word()[vocab.GoID] != vocab.GO {
		t.Errorf("dictionaries not loaded: %v", it.Word2Idx())
	}
}
