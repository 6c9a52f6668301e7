package domain

// Feedback Model
type Feedback struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"` // System-assigned id
	Title    string `gorm:"size:100;not null"`        // Title, at most 100 characters
	Content  string `gorm:"type:text;not null"`       // Free text body
	Username string `gorm:"size:20;not null;index"`   // Owning user
}

// TableName keeps the singular table name
func (Feedback) TableName() string { return "feedback" }
