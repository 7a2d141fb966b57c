package api

import (
	"net/http"
	"strconv"
	"strings"

	"navhub/cache"
	"navhub/database"
	"navhub/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CardHandler 卡片（导航链接）
type CardHandler struct {
	base
}

func NewCardHandler(db database.Querier, cm *cache.Manager) *CardHandler {
	return &CardHandler{base{db: db, cache: cm}}
}

// displayLogo 自定义图标优先，其次 logo_url，最后取站点 favicon
func displayLogo(card database.Row) string {
	if custom := database.String(card["custom_logo_path"]); custom != "" {
		return "/uploads/" + custom
	}
	if logo := database.String(card["logo_url"]); logo != "" {
		return logo
	}
	return strings.TrimRight(database.String(card["url"]), "/") + "/favicon.ico"
}

// List 获取指定菜单的卡片
// @Summary 卡片列表
// @Description 指定 subMenuId 时返回该子菜单的卡片，否则返回主菜单下不属于任何子菜单的卡片
// @Tags 卡片
// @Produce json
// @Param menuId path int true "菜单ID"
// @Param subMenuId query int false "子菜单ID"
// @Success 200 {array} object "卡片列表，含 display_logo"
// @Router /api/cards/{menuId} [get]
func (h *CardHandler) List(c *gin.Context) (int, any) {
	ctx := c.Request.Context()
	var (
		rows []database.Row
		err  error
	)
	if sub := c.Query("subMenuId"); sub != "" {
		rows, err = h.db.All(ctx, "SELECT * FROM cards WHERE sub_menu_id = ? ORDER BY sort_order", sub)
	} else {
		rows, err = h.db.All(ctx, "SELECT * FROM cards WHERE menu_id = ? AND sub_menu_id IS NULL ORDER BY sort_order", c.Param("menuId"))
	}
	if err != nil {
		return failed(c, err, "获取卡片失败")
	}
	for _, card := range rows {
		card["display_logo"] = displayLogo(card)
	}
	return http.StatusOK, rows
}

// Create 新增卡片
// @Summary 新增卡片
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CardRequest true "卡片"
// @Success 200 {object} IDResponse
// @Router /api/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req models.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(),
		"INSERT INTO cards (menu_id, sub_menu_id, title, url, logo_url, custom_logo_path, description, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		req.MenuID, nullableID(req.SubMenuID), req.Title, req.URL, req.LogoURL, req.CustomLogoPath, req.Desc, req.Order)
	if err != nil {
		InternalError(c, err, "新增卡片失败")
		return
	}
	h.invalidate(c, CacheCards)
	c.JSON(http.StatusOK, IDResponse{ID: res.LastInsertID})
}

// Update 修改卡片
// @Summary 修改卡片
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "卡片ID"
// @Param body body models.CardRequest true "卡片"
// @Success 200 {object} ChangedResponse
// @Router /api/cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	res, err := h.db.Run(c.Request.Context(),
		"UPDATE cards SET menu_id = ?, sub_menu_id = ?, title = ?, url = ?, logo_url = ?, custom_logo_path = ?, description = ?, sort_order = ? WHERE id = ?",
		req.MenuID, nullableID(req.SubMenuID), req.Title, req.URL, req.LogoURL, req.CustomLogoPath, req.Desc, req.Order, id)
	if err != nil {
		InternalError(c, err, "修改卡片失败")
		return
	}
	h.invalidate(c, CacheCards)
	c.JSON(http.StatusOK, ChangedResponse{Changed: res.RowsAffected})
}

// Delete 删除卡片
// @Summary 删除卡片
// @Tags 卡片
// @Produce json
// @Security BearerAuth
// @Param id path int true "卡片ID"
// @Success 200 {object} DeletedResponse
// @Router /api/cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		InternalError(c, err, "删除卡片失败")
		return
	}
	h.invalidate(c, CacheCards)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}

// BatchDelete 批量删除卡片
// @Summary 批量删除卡片
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.IDsRequest true "卡片ID"
// @Success 200 {object} DeletedResponse
// @Router /api/cards/batch-delete [post]
func (h *CardHandler) BatchDelete(c *gin.Context) {
	var req models.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		BadRequest(c, "请提供要删除的卡片ID数组")
		return
	}
	in, args := inClause(req.IDs)
	res, err := h.db.Run(c.Request.Context(), "DELETE FROM cards WHERE id IN ("+in+")", args...)
	if err != nil {
		InternalError(c, err, "批量删除卡片失败")
		return
	}
	h.invalidate(c, CacheCards)
	c.JSON(http.StatusOK, DeletedResponse{Deleted: res.RowsAffected})
}

// BatchMove 批量移动卡片到另一个菜单或子菜单
// @Summary 批量移动卡片
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.BatchMoveRequest true "卡片ID和目标菜单"
// @Success 200 {object} object "updated"
// @Router /api/cards/batch-move [post]
func (h *CardHandler) BatchMove(c *gin.Context) {
	var req models.BatchMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		BadRequest(c, "请提供要移动的卡片ID数组")
		return
	}
	if req.TargetMenuID <= 0 {
		BadRequest(c, "请提供目标菜单ID")
		return
	}
	in, args := inClause(req.IDs)
	params := append([]any{req.TargetMenuID, nullableID(req.TargetSubMenuID)}, args...)
	res, err := h.db.Run(c.Request.Context(), "UPDATE cards SET menu_id = ?, sub_menu_id = ? WHERE id IN ("+in+")", params...)
	if err != nil {
		InternalError(c, err, "批量移动卡片失败")
		return
	}
	h.invalidate(c, CacheCards)
	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}

// ImportResult 批量导入结果
type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

type importedCard struct {
	title, url, logo, desc string
	order                  int
}

// insertCards 逐条写入，中途失败时已写入的卡片保留，缓存照常失效
func (h *CardHandler) insertCards(c *gin.Context, menuID int64, subMenuID *int64, cards []importedCard) (imported int, err error) {
	defer func() {
		if imported > 0 {
			h.invalidate(c, CacheCards)
		}
	}()
	for _, card := range cards {
		if card.title == "" || card.url == "" {
			continue
		}
		if _, err := h.db.Run(c.Request.Context(),
			"INSERT INTO cards (menu_id, sub_menu_id, title, url, logo_url, description, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)",
			menuID, nullableID(subMenuID), card.title, card.url, card.logo, card.desc, card.order); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ImportJSON 批量导入卡片 - JSON 格式
// @Summary JSON 批量导入
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ImportJSONRequest true "卡片数组"
// @Success 200 {object} ImportResult
// @Router /api/cards/batch-import-json [post]
func (h *CardHandler) ImportJSON(c *gin.Context) {
	var req models.ImportJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cards) == 0 {
		BadRequest(c, "请提供有效的卡片数据数组")
		return
	}
	if req.MenuID <= 0 {
		BadRequest(c, "请提供菜单ID")
		return
	}
	cards := make([]importedCard, 0, len(req.Cards))
	for _, card := range req.Cards {
		cards = append(cards, importedCard{
			title: card.Title,
			url:   card.URL,
			logo:  card.LogoURL,
			desc:  card.Description,
			order: card.Order,
		})
	}
	imported, err := h.insertCards(c, req.MenuID, req.SubMenuID, cards)
	if err != nil {
		InternalError(c, err, "导入失败")
		return
	}
	c.JSON(http.StatusOK, ImportResult{Imported: imported, Total: len(req.Cards)})
}

// parseTextCards 每行：标题|URL|描述，空行忽略
func parseTextCards(content string) ([]importedCard, int) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	var cards []importedCard
	for i, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		card := importedCard{
			title: strings.TrimSpace(parts[0]),
			url:   strings.TrimSpace(parts[1]),
			order: i,
		}
		if len(parts) > 2 {
			card.desc = strings.TrimSpace(parts[2])
		}
		cards = append(cards, card)
	}
	return cards, len(lines)
}

// ImportText 批量导入卡片 - TXT 格式
// @Summary TXT 批量导入
// @Description 每行一个卡片：标题|URL|描述
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ImportTextRequest true "文本内容"
// @Success 200 {object} ImportResult
// @Router /api/cards/batch-import-txt [post]
func (h *CardHandler) ImportText(c *gin.Context) {
	var req models.ImportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		BadRequest(c, "请提供有效的文本内容")
		return
	}
	if req.MenuID <= 0 {
		BadRequest(c, "请提供菜单ID")
		return
	}
	cards, total := parseTextCards(req.Content)
	imported, err := h.insertCards(c, req.MenuID, req.SubMenuID, cards)
	if err != nil {
		InternalError(c, err, "导入失败")
		return
	}
	c.JSON(http.StatusOK, ImportResult{Imported: imported, Total: total})
}

// parseHTMLCards 提取所有带 href 的 <a> 标签，书签导出文件也适用
func parseHTMLCards(content string) ([]importedCard, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	var cards []importedCard
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					cards = append(cards, importedCard{
						title: strings.TrimSpace(textOf(n)),
						url:   strings.TrimSpace(attr.Val),
						order: len(cards),
					})
					break
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return cards, nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textOf(child))
	}
	return sb.String()
}

// ImportHTML 批量导入卡片 - HTML 格式
// @Summary HTML 批量导入
// @Description 解析 HTML 中的 <a> 标签，支持浏览器导出的书签文件
// @Tags 卡片
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.ImportTextRequest true "HTML 内容"
// @Success 200 {object} ImportResult
// @Router /api/cards/batch-import-html [post]
func (h *CardHandler) ImportHTML(c *gin.Context) {
	var req models.ImportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		BadRequest(c, "请提供有效的HTML内容")
		return
	}
	if req.MenuID <= 0 {
		BadRequest(c, "请提供菜单ID")
		return
	}
	cards, err := parseHTMLCards(req.Content)
	if err != nil {
		BadRequest(c, "HTML 解析失败")
		return
	}
	imported, err := h.insertCards(c, req.MenuID, req.SubMenuID, cards)
	if err != nil {
		InternalError(c, err, "导入失败")
		return
	}
	c.JSON(http.StatusOK, ImportResult{Imported: imported, Total: len(cards)})
}

// nullableID 0 或未提供时写入 NULL
func nullableID(id *int64) any {
	if id == nil || *id <= 0 {
		return nil
	}
	return *id
}

// cardID 解析路径中的卡片 ID
func cardID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("cardId"), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "无效的卡片ID")
		return 0, false
	}
	return id, true
}
