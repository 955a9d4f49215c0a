package model

import (
	"time"

	"github.com/google/uuid"
)

// UUIDBase 所有表的公共字段。
// ID 必须在构造时显式赋值（调用 GenerateUUID），不依赖 gorm 钩子。
// swagger:model
type UUIDBase struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func GenerateUUID() string {
	return uuid.New().String()
}
