package vocab

import (
	"errors"
	"fmt"
)

// 예약 토큰. 이 문자열과 번호는 학습된 모델이 그대로 의존하므로 바꾸면 안 됩니다.
const (
	UNK = "_UNK_" // 단어장에 없는 단어
	PAD = "_PAD_" // 길이를 맞추기 위한 mask
	GO  = "_GO_"  // 문장의 시작
	END = "_END_" // 문장의 끝

	UnkID = 0
	PadID = 1
	GoID  = 2
	EndID = 3
)

var ErrInvalidMasks = errors.New("invalid reserved tokens")

type Mask struct {
	Token string
	ID    int
}

// MaskInfo는 단어장 맨 앞에 고정으로 들어가는 예약 토큰 목록입니다. 만든 뒤에는 바뀌지 않습니다.
type MaskInfo struct {
	masks []Mask
}

func DefaultMasks() MaskInfo {
	return MaskInfo{masks: []Mask{
		{UNK, UnkID},
		{PAD, PadID},
		{GO, GoID},
		{END, EndID},
	}}
}

// NewMaskInfo는 번호가 0부터 순서대로 이어지고 토큰이 겹치지 않는지 확인합니다.
func NewMaskInfo(masks ...Mask) (MaskInfo, error) {
	seen := make(map[string]struct{}, len(masks))
	for i, m := range masks {
		if m.ID != i {
			return MaskInfo{}, fmt.Errorf("%s: id %d, expected %d: %w", m.Token, m.ID, i, ErrInvalidMasks)
		}
		if m.Token == "" {
			return MaskInfo{}, fmt.Errorf("empty token at id %d: %w", i, ErrInvalidMasks)
		}
		if _, dup := seen[m.Token]; dup {
			return MaskInfo{}, fmt.Errorf("duplicate token %s: %w", m.Token, ErrInvalidMasks)
		}
		seen[m.Token] = struct{}{}
	}
	return MaskInfo{masks: append([]Mask(nil), masks...)}, nil
}

func (m MaskInfo) Len() int {
	return len(m.masks)
}

// Tokens는 번호 순서의 예약 토큰 사본입니다.
func (m MaskInfo) Tokens() []string {
	tokens := make([]string, len(m.masks))
	for i, mask := range m.masks {
		tokens[i] = mask.Token
	}
	return tokens
}

func (m MaskInfo) ID(token string) (int, bool) {
	for _, mask := range m.masks {
		if mask.Token == token {
			return mask.ID, true
		}
	}
	return 0, false
}

func (m MaskInfo) Contains(token string) bool {
	_, ok := m.ID(token)
	return ok
}
