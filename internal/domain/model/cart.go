package model

import "github.com/google/uuid"

// 1ユーザーにつきカートは1つ。初回追加時に遅延作成する。
type Cart struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
}
