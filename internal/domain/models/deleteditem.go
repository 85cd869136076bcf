// internal/domain/models/deleteditem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Deleted item types.
const (
	DeletedTypeOrgan       = "organ"
	DeletedTypeMaintenance = "maintenance"
)

// DeletedItem is the audit record written when an organ or maintenance is
// removed. It is immutable once created: the deleted store exposes no update
// path, and nothing else writes to the collection.
type DeletedItem struct {
	ID   string `bson:"_id" json:"id"`
	Type string `bson:"type" json:"type"` // DeletedTypeOrgan or DeletedTypeMaintenance

	// Data is a verbatim snapshot of the deleted document.
	Data bson.Raw `bson:"data" json:"data"`

	Reason    string    `bson:"reason" json:"reason"`
	DeletedAt time.Time `bson:"deleted_at" json:"deletedAt"`

	// Metadata denormalizes the location name and region so the history
	// remains filterable after the source organ (and its location link)
	// is gone.
	Metadata DeletedMetadata `bson:"metadata" json:"metadata"`
}

// DeletedMetadata carries the denormalized location context of a deletion.
type DeletedMetadata struct {
	LocationName string         `bson:"location_name,omitempty" json:"locationName,omitempty"`
	Adm          Administration `bson:"adm,omitempty" json:"adm,omitempty"`
}
