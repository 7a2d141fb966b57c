package models

// Friend 友情链接
type Friend struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	URL   string `json:"url" db:"url"`
	Logo  string `json:"logo" db:"logo"`
}

// FriendRequest 新增/修改友链
type FriendRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
	Logo  string `json:"logo"`
}

// DefaultFriends 首次初始化时写入的友链
func DefaultFriends() []Friend {
	return []Friend{
		{Title: "Nodeseek图床", URL: "https://www.nodeimage.com", Logo: "https://www.nodeseek.com/static/image/favicon/favicon-32x32.png"},
		{Title: "Font Awesome", URL: "https://fontawesome.com", Logo: "https://fontawesome.com/favicon.ico"},
	}
}
