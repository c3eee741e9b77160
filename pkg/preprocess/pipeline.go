// Package preprocess는 뉴스 문장을 정제하고 토큰으로 나누는 변환들을 조합합니다.
package preprocess

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidText는 변환할 수 없는 입력(잘못된 UTF-8 등)에서 반환됩니다.
	ErrInvalidText = errors.New("invalid text")
	// ErrNotImplemented는 아직 구현되지 않은 전처리 단계가 호출되면 반환됩니다.
	ErrNotImplemented = errors.New("not implemented")
)

// Transform은 문장 하나를 다른 문장으로 바꿉니다.
type Transform func(sentence string) (string, error)

// Tokenizer는 정제된 문장을 토큰 목록으로 나눕니다.
type Tokenizer interface {
	Tokenize(sentence string) ([]string, error)
}

type TokenizerFunc func(sentence string) ([]string, error)

func (f TokenizerFunc) Tokenize(sentence string) ([]string, error) {
	return f(sentence)
}

// ConvertFunc는 원문 문장을 토큰 목록으로 바꾸는 합성 함수입니다.
type ConvertFunc func(sentence string) ([]string, error)

// Chain은 등록된 순서대로 적용되는 변환 목록입니다.
type Chain []Transform

// Convert는 각 변환의 결과를 다음 변환의 입력으로 넘깁니다.
// 도중에 실패하면 나머지 변환은 적용하지 않고 오류를 반환합니다.
func (c Chain) Convert(sentence string) (string, error) {
	result := sentence
	for i, fn := range c {
		var err error
		result, err = fn(result)
		if err != nil {
			return "", fmt.Errorf("%d번째 변환 실패: %w", i, err)
		}
	}
	return result, nil
}

// NewSentencePreProcessing은 기본 정제 체인을 만듭니다.
// UTF-8 검사와 NFC 정규화가 항상 먼저 오고, 그 다음 한자 변환, 마지막으로 불필요한 구문 제거가 옵니다.
func NewSentencePreProcessing(convertHanja, cleanSentence bool, hanja *HanjaConverter) Chain {
	chain := Chain{ValidateUTF8, NormalizeNFC}
	if convertHanja {
		if hanja == nil {
			hanja = NewHanjaConverter(DefaultHanjaTable())
		}
		chain = append(chain, hanja.Convert)
	}
	if cleanSentence {
		chain = append(chain, CleanSentence)
	}
	return chain
}

// Pipeline은 정제 체인 뒤에 토크나이저를 붙인 것입니다.
type Pipeline struct {
	pre       Chain
	tokenizer Tokenizer
}

func NewPipeline(pre Chain, tokenizer Tokenizer) *Pipeline {
	return &Pipeline{pre: pre, tokenizer: tokenizer}
}

// Tokens는 sentence를 정제한 뒤 토큰으로 나눕니다.
func (p *Pipeline) Tokens(sentence string) ([]string, error) {
	cleaned, err := p.pre.Convert(sentence)
	if err != nil {
		return nil, err
	}
	tokens, err := p.tokenizer.Tokenize(cleaned)
	if err != nil {
		return nil, fmt.Errorf("토크나이저 실패: %w", err)
	}
	return tokens, nil
}

func (p *Pipeline) ConvertFunc() ConvertFunc {
	return p.Tokens
}
