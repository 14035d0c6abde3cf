package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListKnowledgeBases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/knowledge-bases" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(listResp{
			KnowledgeBaseSummaries: []KnowledgeBaseSummary{
				{KnowledgeBaseID: "kb-1", Name: "Docs", Tags: map[string]string{"public": "visible"}},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	kbs, err := c.ListKnowledgeBases(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(kbs) != 1 || kbs[0].KnowledgeBaseID != "kb-1" {
		t.Fatalf("unexpected summaries: %+v", kbs)
	}
	if kbs[0].Tags["public"] != "visible" {
		t.Fatalf("tags not decoded: %+v", kbs[0].Tags)
	}
}

func TestListKnowledgeBases_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.ListKnowledgeBases(context.Background()); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}
