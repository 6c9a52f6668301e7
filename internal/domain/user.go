package domain

// User Model
type User struct {
	Username  string     `gorm:"primaryKey;size:20"`                                                   // Primary key, 2-20 characters
	Email     string     `gorm:"size:50;uniqueIndex;not null"`                                         // Unique email
	Password  string     `gorm:"not null" json:"-"`                                                    // Bcrypt hash, never the plaintext
	FirstName string     `gorm:"size:30;not null"`                                                     // First name
	LastName  string     `gorm:"size:30;not null"`                                                     // Last name
	Feedback  []Feedback `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE;"` // Owned feedback, removed with the user
}

// TableName pins the table name used by migrations and queries
func (User) TableName() string { return "users" }
