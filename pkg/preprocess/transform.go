package preprocess

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

var (
	reLatin   = regexp.MustCompile(`[a-zA-Z]`)
	reSymbols = regexp.MustCompile(`[{}\[\]/?,;:|)*~` + "`" + `!^\-_+<>@#$%&\\=('"]`)
)

func ValidateUTF8(sentence string) (string, error) {
	if !utf8.ValidString(sentence) {
		return "", fmt.Errorf("%q: %w", sentence, ErrInvalidText)
	}
	return sentence, nil
}

// NormalizeNFC는 자모가 분리된 한글을 완성형 음절로 합칩니다.
func NormalizeNFC(sentence string) (string, error) {
	return norm.NFC.String(sentence), nil
}

// CleanSentence는 기사 앞의 기자/언론사 표기와 뒤의 저작권 문구를 잘라냅니다.
//
//	서울뉴스1 조소영 기자박승주 기자 청와대는 ... -> 청와대는 ...
//	... 호소하였다 ⓒ 무단전재 및 재배포금지 -> ... 호소하였다
func CleanSentence(sentence string) (string, error) {
	if i := strings.LastIndex(sentence, "기자"); i >= 0 {
		sentence = sentence[i+len("기자"):]
	}
	if i := strings.Index(sentence, "ⓒ"); i >= 0 {
		sentence = sentence[:i]
	}
	return strings.TrimSpace(sentence), nil
}

// CleanText는 수집한 제목/본문에서 영문자와 특수문자를 제거합니다.
func CleanText(text string) string {
	cleaned := reLatin.ReplaceAllString(text, "")
	return reSymbols.ReplaceAllString(cleaned, "")
}

// HanjaConverter는 문장 안의 한자를 한글 음으로 치환합니다.
type HanjaConverter struct {
	table map[rune]string
}

func NewHanjaConverter(table map[rune]string) *HanjaConverter {
	return &HanjaConverter{table: table}
}

// Convert는 표에 없는 한자는 그대로 둡니다.
//
//	北 이르면 열흘후 풍계리 핵실험장 폭파 -> 북 이르면 열흘후 풍계리 핵실험장 폭파
func (h *HanjaConverter) Convert(sentence string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(sentence))
	for _, r := range sentence {
		if hangul, ok := h.table[r]; ok {
			sb.WriteString(hangul)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// DefaultHanjaTable은 뉴스 제목에 자주 쓰이는 한 글자 약칭들입니다.
func DefaultHanjaTable() map[rune]string {
	return map[rune]string{
		'北': "북", '南': "남", '靑': "청", '美': "미", '中': "중", '日': "일",
		'韓': "한", '露': "러", '英': "영", '佛': "불", '獨': "독", '與': "여",
		'野': "야", '檢': "검", '軍': "군", '前': "전", '現': "현", '故': "고",
		'對': "대", '外': "외", '反': "반", '新': "신", '株': "주", '文': "문",
		'朴': "박", '李': "이", '金': "김", '尹': "윤", '安': "안", '黨': "당",
		'億': "억", '兆': "조", '萬': "만", '核': "핵", '亞': "아", '歐': "구",
	}
}

// LoadHanjaTable은 "漢: 한" 형식의 YAML 파일을 읽어 기본 표에 덮어씁니다.
// 키는 한 글자여야 합니다.
func LoadHanjaTable(path string) (map[rune]string, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(file, &raw); err != nil {
		return nil, fmt.Errorf("한자 사전 파싱 오류(%s): %w", path, err)
	}

	table := DefaultHanjaTable()
	for k, v := range raw {
		if utf8.RuneCountInString(k) != 1 {
			return nil, fmt.Errorf("한자 사전(%s): 키 %q는 한 글자가 아님: %w", path, k, ErrInvalidText)
		}
		r, _ := utf8.DecodeRuneInString(k)
		table[r] = v
	}

	return table, nil
}
