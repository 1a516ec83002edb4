package entity

const (
	EmergencyPending  = "Pending"
	EmergencyResolved = "Resolved"
)

// Emergency is a patient-raised alert. It transitions exactly once,
// Pending to Resolved, stamping the resolving doctor and notes.
type Emergency struct {
	ID         int    `gorm:"primaryKey"`
	UserID     int    `gorm:"not null;index"`
	Timestamp  int64  `gorm:"not null"`
	Status     string `gorm:"not null;default:Pending;index"`
	ResolvedBy *int   // References: users(id), nil until resolved
	Notes      string

	// Relations
	Patient  User  `gorm:"foreignKey:UserID;references:ID"`
	Resolver *User `gorm:"foreignKey:ResolvedBy;references:ID"`
}
