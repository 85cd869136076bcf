// internal/domain/models/organ.go
package models

import "time"

// Organ represents a physical pipe organ tracked by the registry.
//
// Identifiers are caller-generated UUID strings (the client creates the ID at
// registration time and it is stable thereafter), so documents use a string
// _id rather than an ObjectID.
type Organ struct {
	ID              string `bson:"_id" json:"id"`
	Model           string `bson:"model" json:"model"`
	SerialNumber    string `bson:"serial_number" json:"serialNumber"`
	PatrimonyNumber string `bson:"patrimony_number" json:"patrimonyNumber"`

	// ChurchLocation is a free-text sub-location label within the site
	// (e.g. "main hall balcony"), distinct from the Location reference.
	ChurchLocation string `bson:"church_location,omitempty" json:"churchLocation,omitempty"`

	LocationID string `bson:"location_id" json:"locationId"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
