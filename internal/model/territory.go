package model

// TerritoryLevel is the administrative level of a catalog entry
type TerritoryLevel string

const (
	LevelRegion   TerritoryLevel = "region"
	LevelComuna   TerritoryLevel = "comuna"
	LevelLocality TerritoryLevel = "locality"
)

// Territory represents one entry of the geographic catalog.
// The hierarchy is a forest: every territory has at most one parent,
// assigned at catalog build time and never mutated by this core.
type Territory struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Level     TerritoryLevel `json:"level"`
	ParentID  *int64         `json:"parent_id,omitempty"` // nil for top-level entries
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Aliases   []string       `json:"aliases,omitempty"` // case/diacritic-insensitive
	Enabled   bool           `json:"enabled"`
}

// LevelScore returns the territorial-level signal: broader mentions are
// less ambiguous, so regions outrank comunas which outrank localities.
func (l TerritoryLevel) LevelScore() float64 {
	switch l {
	case LevelRegion:
		return 1.0
	case LevelComuna:
		return 0.8
	case LevelLocality:
		return 0.6
	default:
		return 0.5
	}
}
