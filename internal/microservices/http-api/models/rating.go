package models

import "time"

type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ComicID   int64     `json:"gibiId" gorm:"column:comic_id;not null;index"`
	UserID    int64     `json:"usuarioId" gorm:"column:user_id;not null;index"`
	Score     int       `json:"avaliacao" gorm:"not null;check:score >= 1 AND score <= 5"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Rating) TableName() string {
	return "ratings"
}
