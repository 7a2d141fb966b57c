package models

// MenuRequest 新增/修改菜单与子菜单
type MenuRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Order int    `json:"order"`
}

// SeedMenu 默认菜单
type SeedMenu struct {
	Name      string
	SortOrder int
}

// DefaultMenus 首次初始化时写入的菜单，顺序固定
func DefaultMenus() []SeedMenu {
	return []SeedMenu{
		{"Home", 1},
		{"Ai Stuff", 2},
		{"Cloud", 3},
		{"Software", 4},
		{"Tools", 5},
		{"Other", 6},
	}
}

// SubMenuMoveRequest 批量移动子菜单到另一个主菜单
type SubMenuMoveRequest struct {
	IDs            []int64 `json:"ids"`
	TargetParentID int64   `json:"targetParentId"`
}
