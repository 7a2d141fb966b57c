package models

// AdRequest 新增/修改广告
type AdRequest struct {
	Position string `json:"position"`
	Img      string `json:"img" binding:"required"`
	URL      string `json:"url" binding:"required"`
}
