package models

import "time"

// postPreviewLen is the number of characters String() shows.
const postPreviewLen = 15

// Post is a text entry by an author, optionally tagged with a group and an image.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	// Image is a path relative to the media root, empty when no image was uploaded.
	Image    string    `gorm:"size:255" json:"image,omitempty"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		r = r[:postPreviewLen]
	}
	return string(r)
}
