package models

// CardRequest 新增/修改卡片，字段名与前端保持一致
type CardRequest struct {
	MenuID         *int64 `json:"menu_id"`
	SubMenuID      *int64 `json:"sub_menu_id"`
	Title          string `json:"title" binding:"required"`
	URL            string `json:"url" binding:"required"`
	LogoURL        string `json:"logo_url"`
	CustomLogoPath string `json:"custom_logo_path"`
	Desc           string `json:"desc"`
	Order          int    `json:"order"`
}

// IDsRequest 批量删除
type IDsRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchMoveRequest 批量移动卡片
type BatchMoveRequest struct {
	IDs             []int64 `json:"ids"`
	TargetMenuID    int64   `json:"targetMenuId"`
	TargetSubMenuID *int64  `json:"targetSubMenuId"`
}

// ImportCard JSON 导入的单条卡片
type ImportCard struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	LogoURL     string `json:"logo_url"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// ImportJSONRequest JSON 批量导入
type ImportJSONRequest struct {
	Cards     []ImportCard `json:"cards"`
	MenuID    int64        `json:"menuId"`
	SubMenuID *int64       `json:"subMenuId"`
}

// ImportTextRequest TXT/HTML 批量导入
type ImportTextRequest struct {
	Content   string `json:"content"`
	MenuID    int64  `json:"menuId"`
	SubMenuID *int64 `json:"subMenuId"`
}
