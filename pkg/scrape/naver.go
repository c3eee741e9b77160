package scrape

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/net/html/charset"
	"gopkg.in/yaml.v3"

	"parkjunwoo.com/navernews/pkg/corpus"
)

var errArticleNotFound = errors.New("article not found")

// Naver는 네이버 뉴스 랭킹 기사 수집 설정입니다.
type Naver struct {
	Workers       int            `yaml:"workers"`
	BaseURL       string         `yaml:"base_url"`
	RankingPath   string         `yaml:"ranking_path"`
	Sections      map[string]int `yaml:"sections"`
	TopN          int            `yaml:"top_n"`
	Delay         time.Duration  `yaml:"delay"`
	DataPath      string         `yaml:"data_path"`
	ArchivePath   string         `yaml:"archive_path"`
	CompletedPath string         `yaml:"completed_path"`
	Selectors     struct {
		Headline string `yaml:"headline"`
		Title    string `yaml:"title"`
		Body     string `yaml:"body"`
	} `yaml:"selectors"`
	RemoveSelectors struct {
		Tags          []string `yaml:"tags"`
		Classes       []string `yaml:"classes"`
		ClassKeywords []string `yaml:"class_keywords"`
		Attributes    []string `yaml:"attributes"`
	} `yaml:"remove_selectors"`

	client *http.Client
}

func NewNaver(path string) (*Naver, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Naver
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if cfg.Workers == 0 {
		workerNums, err := cpu.Counts(false) // 물리적 코어 수 반환 (logical=false)
		if err != nil {
			return nil, err
		}
		cfg.Workers = workerNums
	}
	cfg.Workers = max(cfg.Workers, 1)
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://news.naver.com"
	}
	if cfg.RankingPath == "" {
		cfg.RankingPath = "/main/ranking/popularDay.nhn"
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = map[string]int{
			"정치": 100, "경제": 101, "사회": 102, "생활/문화": 103, "세계": 104, "IT/과학": 105,
		}
	}
	if cfg.TopN == 0 {
		cfg.TopN = 30
	}
	cfg.TopN = max(cfg.TopN, 1)
	if cfg.DataPath == "" {
		cfg.DataPath = "./data/navernews_data.csv"
	}
	if cfg.CompletedPath == "" {
		cfg.CompletedPath = cfg.DataPath + ".completed"
	}
	if cfg.Selectors.Headline == "" {
		cfg.Selectors.Headline = "li > div.ranking_text > div.ranking_headline > a"
	}
	if cfg.Selectors.Title == "" {
		cfg.Selectors.Title = "#articleTitle"
	}
	if cfg.Selectors.Body == "" {
		cfg.Selectors.Body = "#articleBodyContents"
	}

	cfg.client = &http.Client{Timeout: 30 * time.Second}

	return &cfg, nil
}

// GetNews는 date(예: 20180516)의 섹션별 많이 본 뉴스를 받아 CSV에 이어 씁니다.
// 이미 수집한 기사(completed 로그)는 건너뛰고, 기사 하나의 실패는 기록만 하고 계속합니다.
func (n *Naver) GetNews(date string) error {
	completed, err := loadCompleted(n.CompletedPath)
	if err != nil {
		return fmt.Errorf("로그 확인 오류: %w", err)
	}

	w, err := corpus.OpenWriter(n.DataPath)
	if err != nil {
		return err
	}
	defer w.Close()

	var archive *gzip.Writer
	if n.ArchivePath != "" {
		if err := os.MkdirAll(filepath.Dir(n.ArchivePath), os.ModePerm); err != nil {
			return err
		}
		f, err := os.OpenFile(n.ArchivePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()

		archive = gzip.NewWriter(f)
		defer func() {
			if err := archive.Close(); err != nil {
				fmt.Printf("gzip.Writer 닫기 오류: %v\n", err)
			}
		}()
	}

	jobChan := make(chan string, n.Workers*2)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var processedCount int64
	var writeErr error

	for i := 0; i < n.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for link := range jobChan {
				cleaned, err := n.fetchArticle(link)
				if err != nil {
					fmt.Printf("[워커 %d] 수집 실패(%s): %v\n", workerID, link, err)
					continue
				}

				rec, err := n.ParseArticle(cleaned)
				if err != nil {
					fmt.Printf("[워커 %d] 파싱 실패(%s): %v\n", workerID, link, err)
					continue
				}

				mu.Lock()
				if err := n.save(w, archive, link, cleaned, rec); err != nil && writeErr == nil {
					writeErr = err
				}
				atomic.AddInt64(&processedCount, 1)
				mu.Unlock()

				fmt.Printf("[워커 %d] 수집 완료: %s\n", workerID, rec.Title)
				time.Sleep(n.Delay)
			}
		}(i)
	}

	names := make([]string, 0, len(n.Sections))
	for name := range n.Sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		links, err := n.rankingLinks(n.Sections[name], date)
		if err != nil {
			fmt.Printf("[섹션 %s] 랭킹 페이지 오류: %v\n", name, err)
			continue
		}

		for _, link := range links[:min(n.TopN, len(links))] {
			if _, done := completed[link]; done {
				fmt.Printf("[스킵] 이미 수집한 기사: %s\n", link)
				continue
			}
			completed[link] = struct{}{}
			jobChan <- link
		}
	}

	close(jobChan)
	wg.Wait()

	fmt.Printf("[진행 상황] %s: %d개 기사 저장\n", date, processedCount)

	return writeErr
}

// save는 mu를 잡은 상태에서 호출됩니다.
func (n *Naver) save(w *corpus.Writer, archive *gzip.Writer, link string, cleaned []byte, rec corpus.Record) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if archive != nil {
		if err := writeWRC(archive, link, cleaned); err != nil {
			return err
		}
		if err := archive.Flush(); err != nil {
			return err
		}
	}
	return logCompleted(n.CompletedPath, link)
}

func (n *Naver) rankingURL(sectionID int, date string) string {
	q := url.Values{}
	q.Set("rankingType", "popular_day")
	q.Set("sectionId", fmt.Sprint(sectionID))
	q.Set("date", date)
	return strings.TrimRight(n.BaseURL, "/") + n.RankingPath + "?" + q.Encode()
}

// rankingLinks는 랭킹 페이지의 기사 링크를 절대 주소로 돌려줍니다.
func (n *Naver) rankingLinks(sectionID int, date string) ([]string, error) {
	pageURL := n.rankingURL(sectionID, date)
	body, err := n.fetch(pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := newDocument(body)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(n.Selectors.Headline).Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links, nil
}

// fetchArticle은 기사 페이지를 받아 불필요한 태그를 걷어낸 HTML을 돌려줍니다.
func (n *Naver) fetchArticle(link string) ([]byte, error) {
	body, err := n.fetch(link)
	if err != nil {
		return nil, err
	}
	return n.CleanHTML(body)
}

// fetch는 응답을 UTF-8로 바꿔 돌려줍니다. 네이버 기사 페이지는 EUC-KR인 경우가 있습니다.
func (n *Naver) fetch(link string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; navernews)")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("페이지 요청 실패: %s", resp.Status)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
