package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"navhub/cache"
	"navhub/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardRouter(db database.Querier) *gin.Engine {
	h := NewCardHandler(db, nil)
	r := gin.New()
	r.GET("/api/cards/:menuId", cache.JSON(nil, CacheCards, 0, h.List))
	r.POST("/api/cards", h.Create)
	r.PUT("/api/cards/:id", h.Update)
	r.DELETE("/api/cards/:id", h.Delete)
	r.POST("/api/cards/batch-delete", h.BatchDelete)
	r.POST("/api/cards/batch-move", h.BatchMove)
	r.POST("/api/cards/batch-import-json", h.ImportJSON)
	r.POST("/api/cards/batch-import-txt", h.ImportText)
	r.POST("/api/cards/batch-import-html", h.ImportHTML)
	return r
}

func TestDisplayLogo(t *testing.T) {
	tests := []struct {
		name string
		card database.Row
		want string
	}{
		{"custom logo", database.Row{"custom_logo_path": "a.png", "logo_url": "https://x/l.png", "url": "https://x"}, "/uploads/a.png"},
		{"logo url", database.Row{"custom_logo_path": nil, "logo_url": "https://x/l.png", "url": "https://x"}, "https://x/l.png"},
		{"favicon", database.Row{"custom_logo_path": "", "logo_url": nil, "url": "https://example.com/"}, "https://example.com/favicon.ico"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayLogo(tt.card))
		})
	}
}

func TestCardHandler_List(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	ctx := context.Background()
	r := cardRouter(db)

	_, err := db.Run(ctx, "INSERT INTO sub_menus (parent_id, name) VALUES (1, 'sub')")
	require.NoError(t, err)
	w := doJSON(r, http.MethodPost, "/api/cards", map[string]any{"menu_id": 1, "title": "Google", "url": "https://google.com", "desc": "搜索", "order": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(r, http.MethodPost, "/api/cards", map[string]any{"menu_id": 1, "title": "Bing", "url": "https://bing.com", "logo_url": "https://bing.com/b.png", "order": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/api/cards", map[string]any{"menu_id": 1, "sub_menu_id": 1, "title": "Sub", "url": "https://sub.com"})
	require.Equal(t, http.StatusOK, w.Code)

	// 主菜单直接列表不包含子菜单下的卡片
	w = doJSON(r, http.MethodGet, "/api/cards/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cards := decodeBody[[]map[string]any](t, w)
	require.Len(t, cards, 2)
	assert.Equal(t, "Bing", cards[0]["title"])
	assert.Equal(t, "https://bing.com/b.png", cards[0]["display_logo"])
	assert.Equal(t, "Google", cards[1]["title"])
	assert.Equal(t, "搜索", cards[1]["description"])
	assert.Equal(t, "https://google.com/favicon.ico", cards[1]["display_logo"])

	w = doJSON(r, http.MethodGet, "/api/cards/1?subMenuId=1", nil)
	cards = decodeBody[[]map[string]any](t, w)
	require.Len(t, cards, 1)
	assert.Equal(t, "Sub", cards[0]["title"])

	// 子菜单 ID 为 0 视为未设置
	w = doJSON(r, http.MethodPost, "/api/cards", map[string]any{"menu_id": 2, "sub_menu_id": 0, "title": "Zero", "url": "https://zero.com"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/cards/2", nil)
	assert.Len(t, decodeBody[[]map[string]any](t, w), 1)
}

func TestCardHandler_Create_MissingURL(t *testing.T) {
	db := setupTestDB(t, testConfig(t))

	w := doJSON(cardRouter(db), http.MethodPost, "/api/cards", map[string]any{"menu_id": 1, "title": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler_UpdateDelete(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := cardRouter(db)

	w := doJSON(r, http.MethodPost, "/api/cards", map[string]any{"menu_id": 1, "title": "A", "url": "https://a.com"})
	id := decodeBody[IDResponse](t, w).ID

	w = doJSON(r, http.MethodPut, "/api/cards/1", map[string]any{"menu_id": 2, "title": "A2", "url": "https://a2.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decodeBody[ChangedResponse](t, w).Changed)

	row, err := db.Get(context.Background(), "SELECT * FROM cards WHERE id = ?", id)
	require.NoError(t, err)
	assert.Equal(t, "A2", row["title"])
	assert.Equal(t, int64(2), database.Int64(row["menu_id"]))

	w = doJSON(r, http.MethodDelete, "/api/cards/1", nil)
	assert.Equal(t, int64(1), decodeBody[DeletedResponse](t, w).Deleted)
	w = doJSON(r, http.MethodDelete, "/api/cards/1", nil)
	assert.Equal(t, int64(0), decodeBody[DeletedResponse](t, w).Deleted)
}

func TestCardHandler_BatchDeleteAndMove(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	ctx := context.Background()
	r := cardRouter(db)

	for _, title := range []string{"a", "b", "c"} {
		_, err := db.Run(ctx, "INSERT INTO cards (menu_id, title, url) VALUES (1, ?, ?)", title, "https://"+title+".com")
		require.NoError(t, err)
	}
	_, err := db.Run(ctx, "INSERT INTO sub_menus (parent_id, name) VALUES (2, 'sub')")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/cards/batch-move", map[string]any{"ids": []int64{1, 2}, "targetMenuId": 2, "targetSubMenuId": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decodeBody[map[string]any](t, w)["updated"])

	moved, err := db.All(ctx, "SELECT id FROM cards WHERE menu_id = 2 AND sub_menu_id = 1")
	require.NoError(t, err)
	assert.Len(t, moved, 2)

	w = doJSON(r, http.MethodPost, "/api/cards/batch-move", map[string]any{"ids": []int64{3}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/cards/batch-delete", map[string]any{"ids": []int64{1, 3}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decodeBody[DeletedResponse](t, w).Deleted)

	w = doJSON(r, http.MethodPost, "/api/cards/batch-delete", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseTextCards(t *testing.T) {
	cards, total := parseTextCards("Google|https://google.com|搜索\n\n  bad line  \nBing | https://bing.com \n")

	assert.Equal(t, 3, total)
	require.Len(t, cards, 2)
	assert.Equal(t, importedCard{title: "Google", url: "https://google.com", desc: "搜索", order: 0}, cards[0])
	assert.Equal(t, importedCard{title: "Bing", url: "https://bing.com", order: 2}, cards[1])
}

func TestParseHTMLCards(t *testing.T) {
	content := `<DL><p>
		<DT><A HREF="https://go.dev" ADD_DATE="1">Go</A>
		<DT><a href="https://github.com"><b>Git</b>Hub</a>
		<DT><a name="anchor">no href</a>
	</DL>`

	cards, err := parseHTMLCards(content)

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Go", cards[0].title)
	assert.Equal(t, "https://go.dev", cards[0].url)
	assert.Equal(t, "GitHub", cards[1].title)
	assert.Equal(t, 1, cards[1].order)
}

func TestCardHandler_ImportText(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := cardRouter(db)

	w := doJSON(r, http.MethodPost, "/api/cards/batch-import-txt", map[string]any{
		"content": "A|https://a.com|first\nno-url\nB|https://b.com",
		"menuId":  1,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ImportResult{Imported: 2, Total: 3}, decodeBody[ImportResult](t, w))
	rows, err := db.All(context.Background(), "SELECT title, description FROM cards ORDER BY sort_order")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0]["description"])

	w = doJSON(r, http.MethodPost, "/api/cards/batch-import-txt", map[string]any{"content": "A|https://a.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "请提供菜单ID")
}

func TestCardHandler_ImportHTML(t *testing.T) {
	db := setupTestDB(t, testConfig(t))

	w := doJSON(cardRouter(db), http.MethodPost, "/api/cards/batch-import-html", map[string]any{
		"content":   `<a href="https://a.com">A</a><a href="">empty</a><a href="https://b.com"><span>B</span></a>`,
		"menuId":    1,
		"subMenuId": nil,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ImportResult{Imported: 2, Total: 3}, decodeBody[ImportResult](t, w))
}

func TestCardHandler_ImportJSON(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := cardRouter(db)

	w := doJSON(r, http.MethodPost, "/api/cards/batch-import-json", map[string]any{
		"cards": []map[string]any{
			{"title": "A", "url": "https://a.com", "logo_url": "https://a.com/a.png", "description": "d", "order": 3},
			{"title": "", "url": "https://skip.com"},
		},
		"menuId": 2,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ImportResult{Imported: 1, Total: 2}, decodeBody[ImportResult](t, w))
	row, err := db.Get(context.Background(), "SELECT * FROM cards WHERE title = 'A'")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(2), database.Int64(row["menu_id"]))
	assert.Nil(t, row["sub_menu_id"])
	assert.Equal(t, "https://a.com/a.png", row["logo_url"])

	w = doJSON(r, http.MethodPost, "/api/cards/batch-import-json", map[string]any{"cards": []any{}, "menuId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler_ImportFailureStillInvalidatesCache(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	ctx := context.Background()
	_, err := db.Run(ctx, `CREATE TRIGGER reject_bad_card BEFORE INSERT ON cards WHEN NEW.title = 'bad'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	cm := cache.NewMemoryManager(time.Minute, 100, 10)
	h := NewCardHandler(db, cm)
	r := gin.New()
	r.GET("/api/cards/:menuId", cache.JSON(cm, CacheCards, time.Minute, h.List))
	r.POST("/api/cards/batch-import-txt", h.ImportText)

	w := doJSON(r, http.MethodGet, "/api/cards/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	require.Eventually(t, func() bool {
		_, ok := cm.GetBytes(ctx, "cards:/api/cards/1")
		return ok
	}, time.Second, 10*time.Millisecond)

	// 第二条被拒绝，第一条已写入
	w = doJSON(r, http.MethodPost, "/api/cards/batch-import-txt", map[string]any{
		"content": "A|https://a.com\nbad|https://bad.com\nC|https://c.com",
		"menuId":  1,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(r, http.MethodGet, "/api/cards/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cards := decodeBody[[]map[string]any](t, w)
	require.Len(t, cards, 1)
	assert.Equal(t, "https://a.com", cards[0]["url"])
}
