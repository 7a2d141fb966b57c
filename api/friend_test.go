package api

import (
	"net/http"
	"testing"

	"navhub/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linksRouter(db database.Querier) *gin.Engine {
	friends := NewFriendHandler(db, nil)
	ads := NewAdHandler(db, nil)
	r := gin.New()
	r.GET("/api/friends", func(c *gin.Context) {
		code, data := friends.List(c)
		c.JSON(code, data)
	})
	r.POST("/api/friends", friends.Create)
	r.PUT("/api/friends/:id", friends.Update)
	r.DELETE("/api/friends/:id", friends.Delete)
	r.GET("/api/ads", func(c *gin.Context) {
		code, data := ads.List(c)
		c.JSON(code, data)
	})
	r.POST("/api/ads", ads.Create)
	r.PUT("/api/ads/:id", ads.Update)
	r.DELETE("/api/ads/:id", ads.Delete)
	return r
}

func TestFriendHandler_CRUD(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := linksRouter(db)

	w := doJSON(r, http.MethodPost, "/api/friends", map[string]string{"title": "Go", "url": "https://go.dev"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(3), decodeBody[IDResponse](t, w).ID)

	w = doJSON(r, http.MethodPost, "/api/friends", map[string]string{"title": "no url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/friends/3", map[string]string{"title": "Golang", "url": "https://go.dev", "logo": "l.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decodeBody[ChangedResponse](t, w).Changed)

	w = doJSON(r, http.MethodGet, "/api/friends?page=2&pageSize=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(3), page["total"])
	data := page["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Golang", data[0].(map[string]any)["title"])

	w = doJSON(r, http.MethodDelete, "/api/friends/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decodeBody[DeletedResponse](t, w).Deleted)

	w = doJSON(r, http.MethodGet, "/api/friends", nil)
	assert.Len(t, decodeBody[[]map[string]any](t, w), 2)
}

func TestAdHandler_CRUD(t *testing.T) {
	db := setupTestDB(t, testConfig(t))
	r := linksRouter(db)

	w := doJSON(r, http.MethodGet, "/api/ads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/ads", map[string]string{"position": "left", "img": "a.png", "url": "https://a.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decodeBody[IDResponse](t, w).ID
	assert.Equal(t, int64(1), id)

	w = doJSON(r, http.MethodPost, "/api/ads", map[string]string{"position": "left"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/ads/1", map[string]string{"img": "b.png", "url": "https://b.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/ads", nil)
	ads := decodeBody[[]map[string]any](t, w)
	require.Len(t, ads, 1)
	assert.Equal(t, "b.png", ads[0]["img"])
	assert.Equal(t, "left", ads[0]["position"])

	w = doJSON(r, http.MethodDelete, "/api/ads/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodDelete, "/api/ads/1", nil)
	assert.Equal(t, int64(1), decodeBody[DeletedResponse](t, w).Deleted)
}
