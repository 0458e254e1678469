package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

func TestIndexChunksEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks := []domain.Chunk{
		{Index: 0, Page: 1, Text: "a"},
		{Index: 1, Page: 1, Text: "b"},
	}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first IndexChunks() error = %v", err)
	}
	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second IndexChunks() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexChunksUpsertsChunkAttribution(t *testing.T) {
	var captured struct {
		Points []struct {
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Fatalf("decode upsert body: %v", err)
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "report.pdf"}
	chunks := []domain.Chunk{{Index: 7, Page: 3, Text: "chunk body"}}

	if err := client.IndexChunks(context.Background(), doc, chunks, [][]float32{{0.5, 0.5}}); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}
	if len(captured.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(captured.Points))
	}
	payload := captured.Points[0].Payload
	if payload["doc_id"] != "doc-1" || payload["text"] != "chunk body" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if idx, _ := payload["chunk_index"].(float64); int(idx) != 7 {
		t.Fatalf("expected chunk_index 7, got %v", payload["chunk_index"])
	}
	if page, _ := payload["page"].(float64); int(page) != 3 {
		t.Fatalf("expected page 3, got %v", payload["page"])
	}
}

func TestSearchFiltersByDocumentAndMapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/docs/points/search" {
			http.NotFound(w, r)
			return
		}
		var reqBody map[string]any
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("decode search body: %v", err)
		}
		raw, _ := json.Marshal(reqBody["filter"])
		if !strings.Contains(string(raw), `"doc_id"`) || !strings.Contains(string(raw), `"doc-42"`) {
			t.Fatalf("expected doc_id filter, got %s", raw)
		}
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.91,"payload":{"doc_id":"doc-42","chunk_index":4,"page":2,"text":"hit one"}},
			{"score":0.88,"payload":{"doc_id":"doc-42","text":"hit two"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	hits, err := client.Search(context.Background(), "doc-42", []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkIndex != 4 || hits[0].Page != 2 || hits[0].Text != "hit one" {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Source != domain.SourceVector {
		t.Fatalf("expected vector source, got %q", hits[0].Source)
	}
	if hits[1].ChunkIndex != -1 {
		t.Fatalf("expected missing chunk_index to map to -1, got %d", hits[1].ChunkIndex)
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	err := client.IndexChunks(context.Background(), doc, []domain.Chunk{{Index: 0, Page: 1, Text: "a"}}, [][]float32{{0.1, 0.2}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got == "" || !strings.Contains(got, "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}
