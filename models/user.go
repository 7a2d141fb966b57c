package models

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ResetAdminPasswordRequest 使用 JWT 密钥重置管理员密码
type ResetAdminPasswordRequest struct {
	SecretKey string `json:"secret_key"`
}
