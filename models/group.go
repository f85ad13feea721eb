package models

// Group is a community that posts can be tagged with. Groups are created out of band.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName avoids the reserved word "groups" in MySQL 8.
func (Group) TableName() string {
	return "post_groups"
}

func (g Group) String() string {
	return g.Title
}
