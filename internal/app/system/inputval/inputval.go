// Package inputval validates registration and maintenance form input before
// any write is attempted. A validation failure never reaches storage.
package inputval

import (
	"strings"
	"time"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

// FieldError reports the first invalid field of a submission.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Organ checks a submitted organ record. The location must name a seeded
// site; locationExists is supplied by the caller from reference data.
func Organ(o models.Organ, locationExists func(id string) bool) *FieldError {
	if strings.TrimSpace(o.ID) == "" {
		return &FieldError{Field: "id", Message: "identifier is required"}
	}
	if strings.TrimSpace(o.Model) == "" {
		return &FieldError{Field: "model", Message: "model is required"}
	}
	if strings.TrimSpace(o.SerialNumber) == "" {
		return &FieldError{Field: "serialNumber", Message: "serial number is required"}
	}
	if strings.TrimSpace(o.PatrimonyNumber) == "" {
		return &FieldError{Field: "patrimonyNumber", Message: "patrimony number is required"}
	}
	if strings.TrimSpace(o.LocationID) == "" {
		return &FieldError{Field: "locationId", Message: "location is required"}
	}
	if locationExists != nil && !locationExists(o.LocationID) {
		return &FieldError{Field: "locationId", Message: "unknown location"}
	}
	return nil
}

// Maintenance checks a submitted maintenance record. organExists is supplied
// by the caller; the organ reference is enforced here at creation time, not
// by storage.
func Maintenance(m models.Maintenance, organExists func(id string) bool) *FieldError {
	if strings.TrimSpace(m.ID) == "" {
		return &FieldError{Field: "id", Message: "identifier is required"}
	}
	if strings.TrimSpace(m.OrganID) == "" {
		return &FieldError{Field: "organId", Message: "an organ must be selected"}
	}
	if organExists != nil && !organExists(m.OrganID) {
		return &FieldError{Field: "organId", Message: "unknown organ"}
	}
	if _, err := time.Parse(models.DateLayout, m.Date); err != nil {
		return &FieldError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	techs := Technicians(m.Technicians)
	if len(techs) == 0 {
		return &FieldError{Field: "technicians", Message: "at least one technician is required"}
	}
	if len(techs) > 2 {
		return &FieldError{Field: "technicians", Message: "at most two technicians"}
	}
	if strings.TrimSpace(m.Occurrence) == "" {
		return &FieldError{Field: "occurrence", Message: "occurrence is required"}
	}
	if m.HasPartExchange && (m.PartExchangeDetails == nil || strings.TrimSpace(m.PartExchangeDetails.Description) == "") {
		return &FieldError{Field: "partExchangeDetails", Message: "describe the exchanged part"}
	}
	return nil
}

// Technicians filters empty entries out of the submitted technician names.
// The result is what gets persisted; validation of the 1–2 bound happens on
// the filtered slice.
func Technicians(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ClampPhotos truncates the photo list to models.MaxPhotos. The second
// return value reports whether anything was dropped, so the handler can
// attach a user-facing warning.
func ClampPhotos(photos []string) ([]string, bool) {
	if len(photos) <= models.MaxPhotos {
		return photos, false
	}
	return photos[:models.MaxPhotos], true
}

// Reason checks the free-text justification required for deletions.
func Reason(reason string) *FieldError {
	if strings.TrimSpace(reason) == "" {
		return &FieldError{Field: "reason", Message: "a reason for the deletion is required"}
	}
	return nil
}
