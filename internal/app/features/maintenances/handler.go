// Package maintenances serves maintenance record creation, edit and the
// gated single-record delete.
package maintenances

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	gatefeature "github.com/psalmeida/organregistry/internal/app/features/gate"
	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	sysgate "github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/htmlsanitize"
	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/inputval"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/app/system/timeouts"
	"github.com/psalmeida/organregistry/internal/app/system/txn"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Handler holds the maintenance write-path dependencies.
type Handler struct {
	DB           *mongo.Database
	Maintenances *maintenancestore.Store
	Deleted      *deletedstore.Store
	Snapshot     *snapshot.Cache
	Gate         *sysgate.Gate
	Log          *zap.Logger
	errs         *httpjson.ErrorLogger
}

// NewHandler constructs a maintenances Handler.
func NewHandler(db *mongo.Database, snap *snapshot.Cache, g *sysgate.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Maintenances: maintenancestore.New(db),
		Deleted:      deletedstore.New(db),
		Snapshot:     snap,
		Gate:         g,
		Log:          logger,
		errs:         httpjson.NewErrorLogger(logger),
	}
}

func maintenanceFromRequest(req maintenanceRequest) (models.Maintenance, bool) {
	photos, truncated := inputval.ClampPhotos(req.Photos)

	m := models.Maintenance{
		ID:              req.ID,
		OrganID:         req.OrganID,
		Date:            req.Date,
		Technicians:     htmlsanitize.SanitizeAll(inputval.Technicians(req.Technicians)),
		Occurrence:      htmlsanitize.Sanitize(req.Occurrence),
		HasPartExchange: req.HasPartExchange,
		Photos:          photos,
	}
	if req.HasPartExchange && req.PartExchangeDetails != nil {
		m.PartExchangeDetails = &models.PartExchange{
			Description: htmlsanitize.Sanitize(req.PartExchangeDetails.Description),
			Reason:      htmlsanitize.Sanitize(req.PartExchangeDetails.Reason),
			Observation: htmlsanitize.Sanitize(req.PartExchangeDetails.Observation),
		}
	}
	return m, truncated
}

// save is the shared create/update path: validate against the snapshot,
// persist, refresh.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, req maintenanceRequest, created bool) {
	m, truncated := maintenanceFromRequest(req)
	if truncated {
		h.Log.Warn("photo list truncated",
			zap.String("maintenance_id", m.ID),
			zap.Int("limit", models.MaxPhotos))
	}

	if verr := inputval.Maintenance(m, h.Snapshot.OrganExists); verr != nil {
		httpjson.ValidationError(w, verr.Field, verr.Message)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Maintenances.Save(ctx, m)
	if err != nil {
		h.errs.LogServerError(w, r, "save maintenance failed", err, "Could not save the maintenance record. Nothing was changed.")
		return
	}
	h.Snapshot.Refresh(ctx)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpjson.Write(w, status, saveResponse{Maintenance: saved, PhotosTruncated: truncated})
}

// ServeCreate handles POST /maintenances. The referenced organ must exist
// at creation time; nothing at the storage level enforces it afterwards.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	h.save(w, r, req, true)
}

// ServeUpdate handles PUT /maintenances/{id}. Editing is gated: the payload
// must answer an edit challenge.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req maintenanceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	req.ID = id

	if !gatefeature.VerifyRequest(w, h.Gate, sysgate.ActionEditMaintenance, req.Token, req.Code) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if _, err := h.Maintenances.GetByID(ctx, id); err != nil {
		if err == maintenancestore.ErrNotFound {
			httpjson.NotFound(w, "unknown maintenance record")
			return
		}
		h.errs.LogServerError(w, r, "load maintenance failed", err, "Could not load the maintenance record.")
		return
	}

	h.save(w, r, req, false)
}

// ServeDelete handles DELETE /maintenances/{id}. The audit insert and the
// delete happen in one transaction; the scope is this single record, the
// organ and its other visits are untouched.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req deleteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	if !gatefeature.VerifyRequest(w, h.Gate, sysgate.ActionDeleteMaintenance, req.Token, req.Code) {
		return
	}

	reason := htmlsanitize.Sanitize(req.Reason)
	if verr := inputval.Reason(reason); verr != nil {
		httpjson.ValidationError(w, verr.Field, verr.Message)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete maintenance")
	defer cancel()

	m, err := h.Maintenances.GetByID(ctx, id)
	if err != nil {
		if err == maintenancestore.ErrNotFound {
			httpjson.NotFound(w, "unknown maintenance record")
			return
		}
		h.errs.LogServerError(w, r, "load maintenance failed", err, "Could not load the maintenance record.")
		return
	}

	snapData, err := bson.Marshal(m)
	if err != nil {
		h.errs.LogServerError(w, r, "snapshot maintenance failed", err, "Could not delete the record. Nothing was changed.")
		return
	}

	item := models.DeletedItem{
		ID:     uuid.NewString(),
		Type:   models.DeletedTypeMaintenance,
		Data:   snapData,
		Reason: reason,
	}
	if organ, ok := h.Snapshot.Organ(m.OrganID); ok {
		if loc, ok := h.Snapshot.Location(organ.LocationID); ok {
			item.Metadata = models.DeletedMetadata{LocationName: loc.Name, Adm: loc.Adm}
		}
	}

	err = txn.Run(ctx, h.DB, h.Log, func(sc context.Context) error {
		if _, err := h.Deleted.Insert(sc, item); err != nil {
			return err
		}
		_, err := h.Maintenances.Delete(sc, id)
		return err
	})
	if err != nil {
		h.errs.LogServerError(w, r, "delete maintenance transaction failed", err, "Could not delete the record. Nothing was changed.")
		return
	}
	h.Snapshot.Refresh(ctx)

	h.Log.Info("maintenance deleted", zap.String("maintenance_id", id))

	httpjson.OK(w, map[string]bool{"deleted": true})
}
