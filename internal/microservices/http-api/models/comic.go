package models

import "time"

// Comic is a reviewable title ("gibi"). Comics are never removed from the
// table; Deleted hides them from every read path.
type Comic struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"titulo" gorm:"not null"`
	Year         int       `json:"ano" gorm:"not null"`
	Synopsis     *string   `json:"sinopse"`
	CoverURL     *string   `json:"capaUrl" gorm:"column:cover_url"`
	Author       *string   `json:"autor"`
	TitleSearch  string    `json:"-" gorm:"column:title_search;not null"`
	AuthorSearch string    `json:"-" gorm:"column:author_search;not null"`
	OwnerID      int64     `json:"usuarioId" gorm:"column:owner_id;not null;index"`
	Deleted      bool      `json:"excluido" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// association
	Owner *User `json:"usuario,omitempty" gorm:"foreignKey:OwnerID"`
}

func (Comic) TableName() string {
	return "comics"
}
