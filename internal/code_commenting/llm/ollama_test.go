package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Chunk) ([]string, error) {
	t.Helper()
	var texts []string
	for c := range ch {
		if c.Err != nil {
			return texts, c.Err
		}
		texts = append(texts, c.Text)
	}
	return texts, nil
}

func TestOllamaGenerator_Stream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["prompt"] != "comment me" || body["stream"] != true {
			t.Errorf("unexpected body: %v", body)
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"response":"x := 1 ","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":false}`)
		fmt.Fprintln(w, `{"response":"// vibes","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
	}))
	defer server.Close()

	gen := NewOllamaGenerator(server.URL+"/", "")
	assert.Equal(t, "ollama:"+defaultOllamaModel, gen.Name())

	ch, err := gen.Stream(context.Background(), "comment me")
	require.NoError(t, err)

	texts, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"x := 1 ", "// vibes"}, texts)
}

func TestOllamaGenerator_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	ch, err := NewOllamaGenerator(server.URL, "missing").Stream(context.Background(), "p")
	assert.Nil(t, ch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaGenerator_MidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"a","done":false}`)
		fmt.Fprintln(w, `{"error":"out of memory"}`)
	}))
	defer server.Close()

	ch, err := NewOllamaGenerator(server.URL, "m").Stream(context.Background(), "p")
	require.NoError(t, err)

	texts, err := collect(t, ch)
	assert.Equal(t, []string{"a"}, texts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestOllamaGenerator_TruncatedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"a","done":false}`)
	}))
	defer server.Close()

	ch, err := NewOllamaGenerator(server.URL, "m").Stream(context.Background(), "p")
	require.NoError(t, err)

	texts, err := collect(t, ch)
	assert.Equal(t, []string{"a"}, texts)
	assert.Error(t, err)
}

func TestOllamaGenerator_EmptyPrompt(t *testing.T) {
	_, err := NewOllamaGenerator("http://127.0.0.1:1", "m").Stream(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestOllamaGenerator_StopsWhenCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"a","done":false}`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewOllamaGenerator(server.URL, "m").Stream(ctx, "p")
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "a", first.Text)

	cancel()
	for c := range ch {
		// a cancelled stream never reports an error of its own
		assert.NoError(t, c.Err)
	}
}
