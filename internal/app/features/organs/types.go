// internal/app/features/organs/types.go
package organs

// organRequest is the create/update payload. Identifiers are generated by
// the client; a missing ID on create gets one server-side.
type organRequest struct {
	ID              string `json:"id,omitempty"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serialNumber"`
	PatrimonyNumber string `json:"patrimonyNumber"`
	ChurchLocation  string `json:"churchLocation,omitempty"`
	LocationID      string `json:"locationId"`

	// Token and Code answer the edit challenge; required on update only.
	Token string `json:"token,omitempty"`
	Code  string `json:"code,omitempty"`
}

// deleteRequest is the gated delete payload. The reason becomes part of the
// permanent audit record.
type deleteRequest struct {
	Token  string `json:"token"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
