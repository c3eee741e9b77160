package preprocess

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type posRequest struct {
	Text string `json:"text"`
	Norm bool   `json:"norm"`
	Stem bool   `json:"stem"`
}

type posResponse struct {
	Morphs []Morpheme `json:"morphs"`
}

// HTTPAnalyzer는 파이썬 형태소 분석 서버(/pos)에 문장을 보내 분석합니다.
type HTTPAnalyzer struct {
	URL    string
	Client *http.Client
}

func NewHTTPAnalyzer(url string) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		URL:    strings.TrimRight(url, "/"),
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *HTTPAnalyzer) Pos(sentence string, norm, stem bool) ([]Morpheme, error) {
	body, err := json.Marshal(posRequest{Text: sentence, Norm: norm, Stem: stem})
	if err != nil {
		return nil, err
	}

	resp, err := a.Client.Post(a.URL+"/pos", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("분석 요청 실패: %s", resp.Status)
	}

	var res posResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("JSON Decode Error: %w", err)
	}

	return res.Morphs, nil
}

// AnalyzerServer는 형태소 분석 서버 프로세스 설정입니다.
type AnalyzerServer struct {
	PyPath         string        `yaml:"py_path"`
	URL            string        `yaml:"analyzer_url"`
	StartupTimeout time.Duration `yaml:"analyzer_timeout"`

	cmd *exec.Cmd
}

func NewAnalyzerServer(path string) (*AnalyzerServer, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AnalyzerServer
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if cfg.URL == "" {
		cfg.URL = "http://127.0.0.1:8000"
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 120 * time.Second
	}

	return &cfg, nil
}

// Start는 py_path가 설정되어 있으면 서버를 띄우고, 어느 경우든 /health가 응답할 때까지 기다립니다.
func (s *AnalyzerServer) Start() (*HTTPAnalyzer, error) {
	if s.PyPath != "" {
		s.cmd = exec.Command("python3", s.PyPath)
		if err := s.cmd.Start(); err != nil {
			return nil, fmt.Errorf("start python server error: %w", err)
		}
		fmt.Println("[분석기] python 서버 시작...")
	}

	if err := waitForServer(s.URL, s.StartupTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("python server not ready: %w", err)
	}

	return NewHTTPAnalyzer(s.URL), nil
}

// Close는 Start로 띄운 프로세스를 종료합니다.
func (s *AnalyzerServer) Close() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	if err != nil {
		fmt.Printf("[분석기] python 서버 종료 실패: %v\n", err)
	} else {
		s.cmd.Wait()
		fmt.Println("[분석기] python 서버 종료")
	}
	s.cmd = nil
	return err
}

// waitForServer는 서버의 /health가 200을 돌려줄 때까지 기다립니다.
func waitForServer(url string, timeout time.Duration) error {
	url = strings.TrimRight(url, "/")
	deadline := time.Now().Add(timeout)
	interval := 2 * time.Second
	if timeout < interval {
		interval = timeout / 4
	}
	for {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout: server not ready within %v", timeout)
		}
		time.Sleep(interval)
	}
}
