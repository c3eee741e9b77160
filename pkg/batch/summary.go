package batch

import "parkjunwoo.com/navernews/pkg/vocab"

// SummaryBatch는 본문 -> 제목 요약 학습용 배치입니다.
// 각 행은 배치 안에서 가장 긴 행에 맞춰 _PAD_로 채워집니다.
type SummaryBatch struct {
	EpochIndex   int
	Encoder      [][]int // 본문
	DecoderInput [][]int // _GO_ + 제목
	Target       [][]int // 제목 + _END_
}

func (b *SummaryBatch) Len() int   { return len(b.Encoder) }
func (b *SummaryBatch) Epoch() int { return b.EpochIndex }

type SummaryBatchIter struct {
	*parentBatchIter
}

func NewSummaryBatchIter(cfg Config) (*SummaryBatchIter, error) {
	parent, err := newParentBatchIter(cfg)
	if err != nil {
		return nil, err
	}
	return &SummaryBatchIter{parentBatchIter: parent}, nil
}

func (it *SummaryBatchIter) Next() (*SummaryBatch, error) {
	b := &SummaryBatch{EpochIndex: it.epoch}

	for b.Len() < it.cfg.BatchSize {
		rec, err := it.nextRecord()
		if err == errEndOfEpoch {
			if b.Len() > 0 {
				break
			}
			b.EpochIndex = it.epoch
			continue
		}
		if err != nil {
			return nil, err
		}

		content, err := it.ids(rec.Content)
		if err != nil {
			return nil, err
		}
		title, err := it.ids(rec.Title)
		if err != nil {
			return nil, err
		}

		b.Encoder = append(b.Encoder, content)
		b.DecoderInput = append(b.DecoderInput, append([]int{vocab.GoID}, title...))
		b.Target = append(b.Target, append(append([]int(nil), title...), vocab.EndID))
	}

	pad(b.Encoder)
	pad(b.DecoderInput)
	pad(b.Target)

	return b, nil
}

func (it *SummaryBatchIter) NextBatches() (Batch, error) {
	b, err := it.Next()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func pad(rows [][]int) {
	longest := 0
	for _, row := range rows {
		longest = max(longest, len(row))
	}
	for i, row := range rows {
		for len(row) < longest {
			row = append(row, vocab.PadID)
		}
		rows[i] = row
	}
}
