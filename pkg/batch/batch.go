// Package batch는 저장된 사전을 이용해 뉴스 코퍼스를 학습용 배치로 바꿉니다.
package batch

import (
	"errors"
	"fmt"
	"io"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/preprocess"
	"parkjunwoo.com/navernews/pkg/vocab"
)

var (
	ErrInvalidConfig = errors.New("invalid batch config")

	errEndOfEpoch = errors.New("end of epoch")
)

// Config는 배치 반복자 공통 설정입니다.
type Config struct {
	DataPaths    []string
	Epochs       int
	BatchSize    int
	Word2IdxPath string
	Idx2WordPath string
	Convert      preprocess.ConvertFunc
}

// Batch는 반복자가 돌려주는 배치 한 개입니다.
type Batch interface {
	Len() int
	Epoch() int
}

// BatchIter는 코퍼스를 Epochs번 돌 때까지 배치를 돌려주고, 끝나면 io.EOF를 반환합니다.
type BatchIter interface {
	NextBatches() (Batch, error)
	Close() error
}

// parentBatchIter는 사전 로드, 에폭별 파일 재시작, 토큰 번호 변환을 맡습니다.
type parentBatchIter struct {
	cfg      Config
	word2idx map[string]int
	idx2word map[int]string

	epoch int
	files *corpus.Files
}

func newParentBatchIter(cfg Config) (*parentBatchIter, error) {
	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("epochs %d, batch size %d: %w", cfg.Epochs, cfg.BatchSize, ErrInvalidConfig)
	}
	if cfg.Convert == nil {
		return nil, fmt.Errorf("no convert func: %w", ErrInvalidConfig)
	}

	word2idx, idx2word, err := vocab.LoadDictionary(cfg.Word2IdxPath, cfg.Idx2WordPath)
	if err != nil {
		return nil, err
	}

	return &parentBatchIter{cfg: cfg, word2idx: word2idx, idx2word: idx2word}, nil
}

func (p *parentBatchIter) Word2Idx() map[string]int { return p.word2idx }
func (p *parentBatchIter) Idx2Word() map[int]string { return p.idx2word }

// nextRecord는 에폭이 끝날 때마다 errEndOfEpoch를, 모든 에폭이 끝나면 io.EOF를 반환합니다.
func (p *parentBatchIter) nextRecord() (corpus.Record, error) {
	if p.epoch >= p.cfg.Epochs {
		return corpus.Record{}, io.EOF
	}
	if p.files == nil {
		p.files = corpus.OpenFiles(p.cfg.DataPaths...)
	}

	rec, err := p.files.Next()
	if err == io.EOF {
		if err := p.files.Close(); err != nil {
			return corpus.Record{}, err
		}
		p.files = nil
		p.epoch++
		return corpus.Record{}, errEndOfEpoch
	}
	return rec, err
}

// ids는 문장을 토큰 번호 목록으로 바꿉니다. 사전에 없는 단어는 _UNK_ 번호가 됩니다.
func (p *parentBatchIter) ids(sentence string) ([]int, error) {
	tokens, err := p.cfg.Convert(sentence)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(tokens))
	for i, token := range tokens {
		id, ok := p.word2idx[token]
		if !ok {
			id = vocab.UnkID
		}
		ids[i] = id
	}
	return ids, nil
}

func (p *parentBatchIter) Close() error {
	if p.files == nil {
		return nil
	}
	err := p.files.Close()
	p.files = nil
	return err
}
