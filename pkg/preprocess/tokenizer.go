package preprocess

import (
	"fmt"
	"strings"
)

// WhitespaceTokenizer는 공백 기준으로만 나눕니다. 형태소 분석기 없이 돌릴 때 씁니다.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Tokenize(sentence string) ([]string, error) {
	return strings.Fields(sentence), nil
}

// Morpheme은 형태소 분석 결과 한 개입니다. (예: {"한국어", "Noun"})
type Morpheme struct {
	Surface string `json:"surface"`
	Tag     string `json:"tag"`
}

// Analyzer는 외부 형태소 분석기입니다.
// norm은 "입니닼ㅋㅋ -> 입니다 ㅋㅋ" 같은 정규화, stem은 "하는 -> 하다" 같은 어근화 여부입니다.
type Analyzer interface {
	Pos(sentence string, norm, stem bool) ([]Morpheme, error)
}

// SentenceToTokenizer는 형태소 분석 결과에서 제거할 품사를 걸러낸 뒤 표층형만 돌려줍니다.
type SentenceToTokenizer struct {
	analyzer   Analyzer
	removeTags []string
	norm       bool
	stem       bool
}

func NewSentenceToTokenizer(analyzer Analyzer, removeTags []string, norm, stem bool) *SentenceToTokenizer {
	return &SentenceToTokenizer{
		analyzer:   analyzer,
		removeTags: removeTags,
		norm:       norm,
		stem:       stem,
	}
}

func (t *SentenceToTokenizer) Tokenize(sentence string) ([]string, error) {
	morphs, err := t.analyzer.Pos(sentence, t.norm, t.stem)
	if err != nil {
		return nil, fmt.Errorf("형태소 분석 오류: %w", err)
	}

	morphs = RemoveUnnecessaryTags(morphs, t.removeTags)

	tokens := make([]string, len(morphs))
	for i, m := range morphs {
		tokens[i] = m.Surface
	}
	return tokens, nil
}

// RemoveUnnecessaryTags는 removeTags에 속한 품사의 형태소를 뺀 목록을 새로 만듭니다.
func RemoveUnnecessaryTags(morphs []Morpheme, removeTags []string) []Morpheme {
	if len(removeTags) == 0 {
		return morphs
	}

	removeSet := make(map[string]struct{}, len(removeTags))
	for _, tag := range removeTags {
		removeSet[tag] = struct{}{}
	}

	kept := make([]Morpheme, 0, len(morphs))
	for _, m := range morphs {
		if _, remove := removeSet[m.Tag]; remove {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// NormalizeWords는 단어 단위 표준화입니다. 지금은 분석기의 norm 옵션에 맡기고 있어 구현되어 있지 않습니다.
func NormalizeWords(words []string) ([]string, error) {
	return nil, fmt.Errorf("NormalizeWords: %w", ErrNotImplemented)
}
