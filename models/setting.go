package models

// SettingRequest 更新单个设置
type SettingRequest struct {
	Value       *string `json:"value"`
	Description *string `json:"description"`
}
