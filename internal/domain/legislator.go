package domain

import "time"

// Legislator represents one member of Congress in the store.
// BioguideID is the stable external identifier and the sole conflict key for
// reconciliation: re-importing the same member overwrites the prior row,
// never duplicates it.
type Legislator struct {
	BioguideID    string    `gorm:"type:text;primaryKey;column:bioguide_id" json:"bioguide_id"`
	FullName      string    `gorm:"type:text" json:"full_name"`
	FirstName     string    `gorm:"type:text" json:"first_name"`
	LastName      string    `gorm:"type:text" json:"last_name"`
	Party         string    `gorm:"type:text" json:"party"`
	State         string    `gorm:"type:text;index:idx_legislators_state" json:"state"`
	Chamber       string    `gorm:"type:text" json:"chamber"`
	TermStartDate string    `gorm:"type:text" json:"term_start_date,omitempty"`
	TermEndDate   string    `gorm:"type:text" json:"term_end_date,omitempty"`
	ProfileURL    string    `gorm:"type:text" json:"profile_url,omitempty"`
	ImageURL      string    `gorm:"type:text" json:"image_url,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Legislator.
func (Legislator) TableName() string {
	return "legislators"
}
