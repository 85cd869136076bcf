// internal/domain/models/maintenance.go
package models

import "time"

// DateLayout is the calendar-date format used for maintenance dates.
// Dates carry no time component; lexicographic order equals chronological
// order, which the report filters and the pending evaluator rely on.
const DateLayout = "2006-01-02"

// MaxPhotos caps the number of inline photos per maintenance record.
const MaxPhotos = 10

// Maintenance is a service visit performed on an organ.
type Maintenance struct {
	ID      string `bson:"_id" json:"id"`
	OrganID string `bson:"organ_id" json:"organId"`

	// Date is the visit date in DateLayout form (no time component).
	Date string `bson:"date" json:"date"`

	// Technicians holds 1 or 2 names; empty strings are filtered out
	// before persistence.
	Technicians []string `bson:"technicians" json:"technicians"`

	Occurrence      string `bson:"occurrence" json:"occurrence"`
	HasPartExchange bool   `bson:"has_part_exchange" json:"hasPartExchange"`

	PartExchangeDetails *PartExchange `bson:"part_exchange_details,omitempty" json:"partExchangeDetails,omitempty"`

	// Photos are inline image payloads (data URLs), at most MaxPhotos.
	Photos []string `bson:"photos,omitempty" json:"photos,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// PartExchange describes a part replaced during a maintenance visit.
type PartExchange struct {
	Description string `bson:"description" json:"description"`
	Reason      string `bson:"reason,omitempty" json:"reason,omitempty"`
	Observation string `bson:"observation,omitempty" json:"observation,omitempty"`
}
