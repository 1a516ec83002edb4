package entity

const (
	AppointmentScheduled = "Scheduled"
	AppointmentPriority  = "Priority"
	AppointmentResolved  = "Resolved"
)

type Appointment struct {
	ID        int    `gorm:"primaryKey"`
	UserID    int    `gorm:"not null;index"` // References: users(id)
	DoctorID  int    `gorm:"not null;index"` // References: users(id)
	Date      string `gorm:"not null"`       // "2006-01-02"
	Time      string `gorm:"not null"`       // "15:04"
	Status    string `gorm:"not null;default:Scheduled"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`

	// Relations
	Patient User `gorm:"foreignKey:UserID;references:ID"`
	Doctor  User `gorm:"foreignKey:DoctorID;references:ID"`
}
