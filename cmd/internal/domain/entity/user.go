package entity

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

type User struct {
	ID           int     `gorm:"primaryKey"`
	Username     string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `gorm:"not null"`
	Role         string  `gorm:"not null;index"`
	Age          int     `gorm:"not null;default:30"`
	BMI          float64 `gorm:"not null;default:25.0"`
	RiskScore    float64 `gorm:"not null;default:0"`
	Cluster      int     `gorm:"not null;default:0"`
	DoctorID     *int    // References: users(id), patients only
	LastChecked  *int64
	CreatedAt    int64 `gorm:"not null"`
	UpdatedAt    int64 `gorm:"not null"`

	// Relations
	Doctor *User `gorm:"foreignKey:DoctorID;references:ID"`
}
