package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"navhub/database"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 数据导出
type ExportHandler struct {
	base
	now func() time.Time
}

// NewExportHandler 创建导出处理器
func NewExportHandler(db database.Querier) *ExportHandler {
	return &ExportHandler{base: base{db: db}, now: time.Now}
}

// ExportData 全量导出的数据部分
type ExportData struct {
	Menus    []database.Row `json:"menus"`
	SubMenus []database.Row `json:"subMenus"`
	Cards    []database.Row `json:"cards"`
	Ads      []database.Row `json:"ads"`
	Friends  []database.Row `json:"friends"`
	Settings []database.Row `json:"settings"`
}

// ExportFile 全量导出文件
type ExportFile struct {
	Version    string     `json:"version"`
	ExportDate string     `json:"exportDate"`
	Data       ExportData `json:"data"`
}

const cardsExportQuery = `
	SELECT c.id, c.title, c.url, c.logo_url, c.description, c.sort_order,
		m.name AS menu_name, sm.name AS sub_menu_name
	FROM cards c
	LEFT JOIN menus m ON c.menu_id = m.id
	LEFT JOIN sub_menus sm ON c.sub_menu_id = sm.id
	ORDER BY c.menu_id, c.sub_menu_id, c.sort_order`

// ExportJSON 导出所有数据为 JSON
// @Summary 导出全部数据
// @Description 菜单、子菜单、卡片、广告、友链和网站设置
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ExportFile
// @Failure 401 {object} Response "未授权"
// @Router /api/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	ctx := c.Request.Context()
	var data ExportData
	queries := []struct {
		dest  *[]database.Row
		query string
	}{
		{&data.Menus, "SELECT * FROM menus ORDER BY sort_order"},
		{&data.SubMenus, "SELECT * FROM sub_menus ORDER BY sort_order"},
		{&data.Cards, "SELECT * FROM cards ORDER BY menu_id, sub_menu_id, sort_order"},
		{&data.Ads, "SELECT * FROM ads ORDER BY id"},
		{&data.Friends, "SELECT * FROM friends ORDER BY id"},
		{&data.Settings, "SELECT * FROM site_settings ORDER BY id"},
	}
	for _, q := range queries {
		rows, err := h.db.All(ctx, q.query)
		if err != nil {
			InternalError(c, err, "导出失败")
			return
		}
		*q.dest = rows
	}

	now := h.now()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=nav-export-%d.json", now.UnixMilli()))
	c.JSON(http.StatusOK, ExportFile{
		Version:    "1.0",
		ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Data:       data,
	})
}

// writeCSV 生成带 BOM 的 CSV，Excel 打开中文不乱码
func (h *ExportHandler) writeCSV(c *gin.Context, name string, headers []string, rows []database.Row, columns []string) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(headers); err != nil {
		InternalError(c, err, "生成 CSV 失败")
		return
	}
	for _, r := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = database.String(r[col])
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, err, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, err, "生成 CSV 失败")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-export-%d.csv", name, h.now().UnixMilli()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportCardsCSV 导出卡片为 CSV
// @Summary 导出卡片 CSV
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Router /api/export/csv/cards [get]
func (h *ExportHandler) ExportCardsCSV(c *gin.Context) {
	rows, err := h.db.All(c.Request.Context(), cardsExportQuery)
	if err != nil {
		InternalError(c, err, "导出失败")
		return
	}
	h.writeCSV(c, "cards",
		[]string{"ID", "标题", "网址", "Logo链接", "描述", "排序", "所属菜单", "所属子菜单"},
		rows,
		[]string{"id", "title", "url", "logo_url", "description", "sort_order", "menu_name", "sub_menu_name"})
}

// ExportMenusCSV 导出菜单为 CSV
// @Summary 导出菜单 CSV
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Router /api/export/csv/menus [get]
func (h *ExportHandler) ExportMenusCSV(c *gin.Context) {
	rows, err := h.db.All(c.Request.Context(), "SELECT id, name, sort_order FROM menus ORDER BY sort_order")
	if err != nil {
		InternalError(c, err, "导出失败")
		return
	}
	h.writeCSV(c, "menus", []string{"ID", "名称", "排序"}, rows, []string{"id", "name", "sort_order"})
}

// ExportFriendsCSV 导出友链为 CSV
// @Summary 导出友链 CSV
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Router /api/export/csv/friends [get]
func (h *ExportHandler) ExportFriendsCSV(c *gin.Context) {
	rows, err := h.db.All(c.Request.Context(), "SELECT id, title, url, logo FROM friends ORDER BY id")
	if err != nil {
		InternalError(c, err, "导出失败")
		return
	}
	h.writeCSV(c, "friends", []string{"ID", "名称", "网址", "Logo"}, rows, []string{"id", "title", "url", "logo"})
}

// ExportCardsExcel 导出卡片为 Excel
// @Summary 导出卡片 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Router /api/export/excel/cards [get]
func (h *ExportHandler) ExportCardsExcel(c *gin.Context) {
	rows, err := h.db.All(c.Request.Context(), cardsExportQuery)
	if err != nil {
		InternalError(c, err, "导出失败")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "卡片"
	f.SetSheetName("Sheet1", sheetName)

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 8)
	f.SetColWidth(sheetName, "G", "H", 15)

	headers := []string{"ID", "标题", "网址", "Logo链接", "描述", "排序", "所属菜单", "所属子菜单"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), database.Int64(r["id"]))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), database.String(r["title"]))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), database.String(r["url"]))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), database.String(r["logo_url"]))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), database.String(r["description"]))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), database.Int64(r["sort_order"]))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), database.String(r["menu_name"]))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), database.String(r["sub_menu_name"]))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
	}

	filename := fmt.Sprintf("cards-export-%d.xlsx", h.now().UnixMilli())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, err, "生成 Excel 失败")
		return
	}
}
