package handler

import (
	"net/http"
	"testing"

	"github.com/GTM-04/newsblogbackend/internal/db"
)

func TestListTagsCountsPublishedArticlesOnly(t *testing.T) {
	api, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	launch := db.Tag{Name: "launch"}
	mars := db.Tag{Name: "mars"}
	unused := db.Tag{Name: "unused"}
	for _, tag := range []*db.Tag{&launch, &mars, &unused} {
		if err := db.DB.Create(tag).Error; err != nil {
			t.Fatalf("failed to seed tag %q: %v", tag.Name, err)
		}
	}

	seedHandlerArticle(t, db.Article{Title: "First launch", Tags: []db.Tag{launch}})
	seedHandlerArticle(t, db.Article{Title: "Second launch", Tags: []db.Tag{launch, mars}})
	// 草稿不计入标签统计。
	seedHandlerArticle(t, db.Article{Title: "Draft notes", Status: db.StatusDraft, Tags: []db.Tag{mars, unused}})

	r := newTestRouter(api, nil)
	status, body := doJSON(t, r, http.MethodGet, "/api/tags")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	tags, ok := body["tags"].([]interface{})
	if !ok {
		t.Fatalf("expected tags array, got %T", body["tags"])
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags with published articles, got %d", len(tags))
	}

	first := tags[0].(map[string]interface{})
	if first["name"] != "launch" || first["article_count"].(float64) != 2 {
		t.Fatalf("expected launch with 2 articles first, got %v", first)
	}
	second := tags[1].(map[string]interface{})
	if second["name"] != "mars" || second["article_count"].(float64) != 1 {
		t.Fatalf("expected mars with 1 article second, got %v", second)
	}
}

func TestListTagsEmpty(t *testing.T) {
	api, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	r := newTestRouter(api, nil)
	status, body := doJSON(t, r, http.MethodGet, "/api/tags")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if tags, ok := body["tags"].([]interface{}); !ok || len(tags) != 0 {
		t.Fatalf("expected empty tags array, got %v", body["tags"])
	}
}
