// internal/app/features/maintenances/types.go
package maintenances

import "github.com/psalmeida/organregistry/internal/domain/models"

// maintenanceRequest is the create/update payload.
type maintenanceRequest struct {
	ID                  string               `json:"id,omitempty"`
	OrganID             string               `json:"organId"`
	Date                string               `json:"date"`
	Technicians         []string             `json:"technicians"`
	Occurrence          string               `json:"occurrence"`
	HasPartExchange     bool                 `json:"hasPartExchange"`
	PartExchangeDetails *models.PartExchange `json:"partExchangeDetails,omitempty"`
	Photos              []string             `json:"photos,omitempty"`

	// Token and Code answer the edit challenge; required on update only.
	Token string `json:"token,omitempty"`
	Code  string `json:"code,omitempty"`
}

// saveResponse is the write result. PhotosTruncated warns the client that
// the photo list was cut at the limit.
type saveResponse struct {
	models.Maintenance
	PhotosTruncated bool `json:"photos_truncated,omitempty"`
}

// deleteRequest is the gated delete payload.
type deleteRequest struct {
	Token  string `json:"token"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
