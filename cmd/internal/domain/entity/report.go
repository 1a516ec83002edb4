package entity

// Report is an uploaded medical document. (UserID, Filename) is unique;
// the duplicate check and insert run inside one transaction.
type Report struct {
	ID         int    `gorm:"primaryKey"`
	UserID     int    `gorm:"not null;uniqueIndex:idx_report_owner_name"`
	Filename   string `gorm:"not null;uniqueIndex:idx_report_owner_name"`
	Filepath   string `gorm:"not null"`
	UploadedAt int64  `gorm:"not null"`

	// Relations
	Owner User `gorm:"foreignKey:UserID;references:ID"`
}
