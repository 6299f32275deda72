package entity

import "time"

// User roles. Admins manage orders and inventory; superadmins may
// additionally edit order lines and manage other users.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

type User struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	Email       string    `json:"email" gorm:"size:200;index"`
	DisplayName string    `json:"display_name" gorm:"size:128"`
	Role        string    `json:"role" gorm:"size:16;not null;default:admin"`
	VKID        int64     `json:"vk_id" gorm:"index"`
	AvatarURL   string    `json:"avatar_url" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
