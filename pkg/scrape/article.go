package scrape

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"parkjunwoo.com/navernews/pkg/corpus"
	"parkjunwoo.com/navernews/pkg/preprocess"
)

var (
	reComments = regexp.MustCompile(`<!--[\s\S]*?-->`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// 기사 본문에 섞여 들어오는 문구
var bodyNoise = []string{"&apos;", "본문 내용TV플레이어", "본문 내용", "TV플레이어"}

func newDocument(rawHTML []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
}

// ParseArticle은 기사 HTML에서 제목과 본문을 뽑아 정제합니다.
// 본문은 본문 영역의 직계 텍스트 노드만 씁니다. 하위 태그(사진 설명, 스크립트 등)는 제외됩니다.
func (n *Naver) ParseArticle(rawHTML []byte) (corpus.Record, error) {
	doc, err := newDocument(rawHTML)
	if err != nil {
		return corpus.Record{}, err
	}

	titleSel := doc.Find(n.Selectors.Title).First()
	bodySel := doc.Find(n.Selectors.Body).First()
	if titleSel.Length() == 0 || bodySel.Length() == 0 {
		return corpus.Record{}, fmt.Errorf("%s, %s: %w", n.Selectors.Title, n.Selectors.Body, errArticleNotFound)
	}

	var parts []string
	bodySel.Contents().Each(func(i int, sel *goquery.Selection) {
		if sel.Nodes[0].Type != html.TextNode {
			return
		}
		stripped := strings.TrimSpace(sel.Text())
		if stripped == "" || stripped[0] == '/' {
			return
		}
		parts = append(parts, stripped)
	})

	content := strings.Join(parts, " ")
	for _, noise := range bodyNoise {
		content = strings.ReplaceAll(content, noise, "")
	}

	return corpus.Record{
		Title:   cleanField(titleSel.Text()),
		Content: cleanField(content),
	}, nil
}

func cleanField(text string) string {
	return cleanSpaces(preprocess.CleanText(text))
}

// CleanHTML은 불필요한 태그들을 제거한 HTML 본문을 반환합니다.
func (n *Naver) CleanHTML(rawHTML []byte) ([]byte, error) {
	// HTML 주석 제거
	htmlWithoutComments := reComments.ReplaceAll(rawHTML, []byte(""))

	doc, err := newDocument(htmlWithoutComments)
	if err != nil {
		return nil, err
	}

	removeClassSet := make(map[string]struct{})
	for _, class := range n.RemoveSelectors.Classes {
		removeClassSet[strings.ToLower(class)] = struct{}{}
	}

	removeTagSet := make(map[string]struct{})
	for _, tag := range n.RemoveSelectors.Tags {
		removeTagSet[strings.ToLower(tag)] = struct{}{}
	}

	// DOM 요소 한 번만 탐색하며 제거 작업 수행
	doc.Find("*").Each(func(i int, sel *goquery.Selection) {
		nodeName := goquery.NodeName(sel)

		if _, removeTag := removeTagSet[strings.ToLower(nodeName)]; removeTag {
			sel.Remove()
			return // 이미 삭제된 요소이므로 하위 처리 중단
		}

		if classAttr, exists := sel.Attr("class"); exists && nodeName != "body" {
			for _, className := range strings.Fields(classAttr) {
				lowerClass := strings.ToLower(className)
				if _, removeExactClass := removeClassSet[lowerClass]; removeExactClass ||
					containsAnyKeyword(lowerClass, n.RemoveSelectors.ClassKeywords) {
					sel.Remove()
					return
				}
			}
		}

		// 속성 제거 (data-, area-, on*, item* 및 설정된 속성들)
		attrs := append([]html.Attribute(nil), sel.Nodes[0].Attr...)
		for _, attr := range attrs {
			keyLower := strings.ToLower(attr.Key)
			remove := strings.HasPrefix(keyLower, "data-") ||
				strings.HasPrefix(keyLower, "area-") ||
				strings.HasPrefix(keyLower, "on") ||
				strings.HasPrefix(keyLower, "item")
			for _, removeAttr := range n.RemoveSelectors.Attributes {
				if keyLower == strings.ToLower(removeAttr) {
					remove = true
					break
				}
			}
			if remove {
				sel.RemoveAttr(attr.Key)
			}
		}
	})

	out, err := doc.Html()
	if err != nil {
		return nil, err
	}

	return []byte(cleanSpaces(out)), nil
}

// cleanSpaces는 모든 공백(스페이스, 탭, 개행)을 하나의 스페이스로 바꾸고 앞뒤를 자릅니다.
func cleanSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// containsAnyKeyword는 ^접두, 접미$, 부분 일치 키워드를 검사합니다.
func containsAnyKeyword(className string, keywords []string) bool {
	for _, keyword := range keywords {
		switch {
		case strings.HasPrefix(keyword, "^"):
			if strings.HasPrefix(className, strings.TrimPrefix(keyword, "^")) {
				return true
			}
		case strings.HasSuffix(keyword, "$"):
			if strings.HasSuffix(className, strings.TrimSuffix(keyword, "$")) {
				return true
			}
		default:
			if strings.Contains(className, keyword) {
				return true
			}
		}
	}
	return false
}
