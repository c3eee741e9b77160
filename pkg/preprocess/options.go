package preprocess

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Options는 전처리 파이프라인 설정입니다.
type Options struct {
	ConvertHanja  bool     `yaml:"convert_hanja"`
	CleanSentence bool     `yaml:"clean_sentence"`
	HanjaTable    string   `yaml:"hanja_table"`
	RemoveTags    []string `yaml:"remove_tags"`
	Norm          bool     `yaml:"norm"`
	Stem          bool     `yaml:"stem"`
}

func NewOptions(path string) (*Options, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Options
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Pipeline은 설정대로 정제 체인과 토크나이저를 묶습니다.
// analyzer가 nil이면 공백 토크나이저를 씁니다.
func (o *Options) Pipeline(analyzer Analyzer) (*Pipeline, error) {
	var hanja *HanjaConverter
	if o.ConvertHanja && o.HanjaTable != "" {
		table, err := LoadHanjaTable(o.HanjaTable)
		if err != nil {
			return nil, err
		}
		hanja = NewHanjaConverter(table)
	}

	pre := NewSentencePreProcessing(o.ConvertHanja, o.CleanSentence, hanja)

	var tokenizer Tokenizer = WhitespaceTokenizer{}
	if analyzer != nil {
		tokenizer = NewSentenceToTokenizer(analyzer, o.RemoveTags, o.Norm, o.Stem)
	}

	return NewPipeline(pre, tokenizer), nil
}
