package models

import "time"

type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"conteudo" gorm:"not null;type:text"`
	ComicID   int64     `json:"gibiId" gorm:"column:comic_id;not null;index"`
	UserID    int64     `json:"usuarioId" gorm:"column:user_id;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"usuario,omitempty" gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}
