package goals

import "time"

// Status es el estado del objetivo.
// @Enum active, achieved, abandoned
type Status string

const (
	StatusActive    Status = "active"
	StatusAchieved  Status = "achieved"
	StatusAbandoned Status = "abandoned"
)

// Goal es un objetivo de peso del usuario. A lo sumo uno activo por
// usuario: crear uno nuevo abandona el anterior.
type Goal struct {
	ID     string
	UserID string

	StartWeightKg  float64
	TargetWeightKg float64
	TargetDate     *time.Time // opcional

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
