package entity

// VitalSample is one persisted vitals snapshot. Rows are append-only;
// the newest row per user is authoritative for the current state.
type VitalSample struct {
	ID        int     `gorm:"primaryKey"`
	UserID    int     `gorm:"not null;index"`
	HeartRate float64 `gorm:"not null"`
	Systolic  float64 `gorm:"not null"`
	Diastolic float64 `gorm:"not null"`
	Glucose   float64 `gorm:"not null"`
	BMI       float64 `gorm:"not null"`
	Timestamp int64   `gorm:"not null;index"`
	IsAnomaly bool    `gorm:"not null"`
	RiskScore float64 `gorm:"not null"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (VitalSample) TableName() string {
	return "health_data"
}
