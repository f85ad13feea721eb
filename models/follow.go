package models

// Follow records that User subscribes to Author's posts.
// The (user_id, author_id) pair is unique at the storage layer.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:unique_following,priority:1" json:"user_id"`
	AuthorID uint `gorm:"not null;index;uniqueIndex:unique_following,priority:2" json:"author_id"`
	User     User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
