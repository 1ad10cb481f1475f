package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaModel = "llama3:instruct"

// OllamaGenerator streams from an Ollama server's /api/generate endpoint.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ Generator = (*OllamaGenerator)(nil)

func NewOllamaGenerator(baseURL, model string) *OllamaGenerator {
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		// no timeout: the stream lasts as long as the model keeps talking
		client: &http.Client{Timeout: 0},
	}
}

func (g *OllamaGenerator) Name() string { return "ollama:" + g.model }

type ollamaChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (g *OllamaGenerator) Stream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	payload := map[string]any{
		"model":  g.model,
		"stream": true,
		"prompt": prompt,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

		for sc.Scan() {
			line := sc.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var ch ollamaChunk
			if err := json.Unmarshal(line, &ch); err != nil {
				sendErr(ctx, out, fmt.Errorf("ollama: decode chunk: %w", err))
				return
			}
			if ch.Error != "" {
				sendErr(ctx, out, errors.New("ollama: "+ch.Error))
				return
			}
			if !sendText(ctx, out, ch.Response) {
				return
			}
			if ch.Done {
				return
			}
		}
		if err := sc.Err(); err != nil {
			sendErr(ctx, out, fmt.Errorf("ollama: read stream: %w", err))
			return
		}
		sendErr(ctx, out, io.ErrUnexpectedEOF)
	}()

	return out, nil
}
