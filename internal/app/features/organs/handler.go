// Package organs serves organ registration, edit and the gated cascading
// delete.
package organs

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	gatefeature "github.com/psalmeida/organregistry/internal/app/features/gate"
	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	sysgate "github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/htmlsanitize"
	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/inputval"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/app/system/timeouts"
	"github.com/psalmeida/organregistry/internal/app/system/txn"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Handler holds the organ write-path dependencies.
type Handler struct {
	DB           *mongo.Database
	Organs       *organstore.Store
	Maintenances *maintenancestore.Store
	Deleted      *deletedstore.Store
	Snapshot     *snapshot.Cache
	Gate         *sysgate.Gate
	Log          *zap.Logger
	errs         *httpjson.ErrorLogger
}

// NewHandler constructs an organs Handler.
func NewHandler(db *mongo.Database, snap *snapshot.Cache, g *sysgate.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Organs:       organstore.New(db),
		Maintenances: maintenancestore.New(db),
		Deleted:      deletedstore.New(db),
		Snapshot:     snap,
		Gate:         g,
		Log:          logger,
		errs:         httpjson.NewErrorLogger(logger),
	}
}

func (h *Handler) organFromRequest(req organRequest) models.Organ {
	return models.Organ{
		ID:              req.ID,
		Model:           htmlsanitize.Sanitize(req.Model),
		SerialNumber:    htmlsanitize.Sanitize(req.SerialNumber),
		PatrimonyNumber: htmlsanitize.Sanitize(req.PatrimonyNumber),
		ChurchLocation:  htmlsanitize.Sanitize(req.ChurchLocation),
		LocationID:      req.LocationID,
	}
}

// ServeHistory handles GET /organs/{id}/maintenances: the per-organ
// history modal, most recent visit first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.Snapshot.OrganExists(id) {
		httpjson.NotFound(w, "unknown organ")
		return
	}

	out := []models.Maintenance{}
	for _, m := range h.Snapshot.Maintenances() {
		if m.OrganID == id {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	httpjson.OK(w, out)
}

// ServeCreate handles POST /organs.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req organRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	o := h.organFromRequest(req)
	if verr := inputval.Organ(o, h.Snapshot.LocationExists); verr != nil {
		httpjson.ValidationError(w, verr.Field, verr.Message)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Organs.Save(ctx, o)
	if err != nil {
		h.errs.LogServerError(w, r, "save organ failed", err, "Could not save the organ. Nothing was changed.")
		return
	}
	h.Snapshot.Refresh(ctx)

	httpjson.Write(w, http.StatusCreated, saved)
}

// ServeUpdate handles PUT /organs/{id}. Editing is gated: the payload must
// answer an edit challenge.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req organRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	req.ID = id

	if !gatefeature.VerifyRequest(w, h.Gate, sysgate.ActionEditOrgan, req.Token, req.Code) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Organs.GetByID(ctx, id); err != nil {
		if err == organstore.ErrNotFound {
			httpjson.NotFound(w, "unknown organ")
			return
		}
		h.errs.LogServerError(w, r, "load organ failed", err, "Could not load the organ.")
		return
	}

	o := h.organFromRequest(req)
	if verr := inputval.Organ(o, h.Snapshot.LocationExists); verr != nil {
		httpjson.ValidationError(w, verr.Field, verr.Message)
		return
	}

	saved, err := h.Organs.Save(ctx, o)
	if err != nil {
		h.errs.LogServerError(w, r, "save organ failed", err, "Could not save the organ. Nothing was changed.")
		return
	}
	h.Snapshot.Refresh(ctx)

	httpjson.OK(w, saved)
}

// ServeDelete handles DELETE /organs/{id}. The organ, its entire
// maintenance history and the audit record move in one transaction; on any
// failure nothing is changed and the client gets the alert payload, with no
// automatic retry.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req deleteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	if !gatefeature.VerifyRequest(w, h.Gate, sysgate.ActionDeleteOrgan, req.Token, req.Code) {
		return
	}

	reason := htmlsanitize.Sanitize(req.Reason)
	if verr := inputval.Reason(reason); verr != nil {
		httpjson.ValidationError(w, verr.Field, verr.Message)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete organ")
	defer cancel()

	organ, err := h.Organs.GetByID(ctx, id)
	if err != nil {
		if err == organstore.ErrNotFound {
			httpjson.NotFound(w, "unknown organ")
			return
		}
		h.errs.LogServerError(w, r, "load organ failed", err, "Could not load the organ.")
		return
	}

	snapData, err := bson.Marshal(organ)
	if err != nil {
		h.errs.LogServerError(w, r, "snapshot organ failed", err, "Could not delete the organ. Nothing was changed.")
		return
	}

	item := models.DeletedItem{
		ID:     uuid.NewString(),
		Type:   models.DeletedTypeOrgan,
		Data:   snapData,
		Reason: reason,
	}
	if loc, ok := h.Snapshot.Location(organ.LocationID); ok {
		item.Metadata = models.DeletedMetadata{LocationName: loc.Name, Adm: loc.Adm}
	}

	var removedVisits int64
	err = txn.Run(ctx, h.DB, h.Log, func(sc context.Context) error {
		if _, err := h.Deleted.Insert(sc, item); err != nil {
			return err
		}
		if _, err := h.Organs.Delete(sc, id); err != nil {
			return err
		}
		n, err := h.Maintenances.DeleteByOrgan(sc, id)
		removedVisits = n
		return err
	})
	if err != nil {
		h.errs.LogServerError(w, r, "delete organ transaction failed", err, "Could not delete the organ. Nothing was changed.")
		return
	}
	h.Snapshot.Refresh(ctx)

	h.Log.Info("organ deleted",
		zap.String("organ_id", id),
		zap.Int64("maintenances_removed", removedVisits))

	httpjson.OK(w, map[string]any{
		"deleted":              true,
		"maintenances_removed": removedVisits,
	})
}
