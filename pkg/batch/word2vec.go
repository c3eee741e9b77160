package batch

import "fmt"

// Word2VecBatch는 skip-gram (중심 단어, 주변 단어) 번호 쌍입니다.
type Word2VecBatch struct {
	EpochIndex int
	Centers    []int
	Contexts   []int
}

func (b *Word2VecBatch) Len() int   { return len(b.Centers) }
func (b *Word2VecBatch) Epoch() int { return b.EpochIndex }

type Word2VecBatchIter struct {
	*parentBatchIter
	windowSize int
	pending    [][2]int
}

func NewWord2VecBatchIter(cfg Config, windowSize int) (*Word2VecBatchIter, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size %d: %w", windowSize, ErrInvalidConfig)
	}

	parent, err := newParentBatchIter(cfg)
	if err != nil {
		return nil, err
	}

	return &Word2VecBatchIter{parentBatchIter: parent, windowSize: windowSize}, nil
}

// Next는 BatchSize개의 쌍을 모아 돌려줍니다. 에폭 마지막 배치는 더 작을 수 있습니다.
func (it *Word2VecBatchIter) Next() (*Word2VecBatch, error) {
	for len(it.pending) < it.cfg.BatchSize {
		epoch := it.epoch
		rec, err := it.nextRecord()
		if err == errEndOfEpoch {
			if len(it.pending) > 0 {
				return it.flush(epoch, len(it.pending)), nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		// 제목과 본문은 서로 다른 문장으로 봅니다.
		for _, sentence := range []string{rec.Title, rec.Content} {
			ids, err := it.ids(sentence)
			if err != nil {
				return nil, err
			}
			it.pending = append(it.pending, skipGramPairs(ids, it.windowSize)...)
		}
	}

	return it.flush(it.epoch, it.cfg.BatchSize), nil
}

func (it *Word2VecBatchIter) NextBatches() (Batch, error) {
	b, err := it.Next()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (it *Word2VecBatchIter) flush(epoch, n int) *Word2VecBatch {
	b := &Word2VecBatch{
		EpochIndex: epoch,
		Centers:    make([]int, n),
		Contexts:   make([]int, n),
	}
	for i, pair := range it.pending[:n] {
		b.Centers[i] = pair[0]
		b.Contexts[i] = pair[1]
	}
	it.pending = append(it.pending[:0], it.pending[n:]...)
	return b
}

func skipGramPairs(ids []int, window int) [][2]int {
	var pairs [][2]int
	for i, center := range ids {
		for j := max(0, i-window); j <= min(len(ids)-1, i+window); j++ {
			if j == i {
				continue
			}
			pairs = append(pairs, [2]int{center, ids[j]})
		}
	}
	return pairs
}
