package health

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   *mongo.Client
	Snapshot *snapshot.Cache
	Log      *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, snap *snapshot.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		Snapshot: snap,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Snapshot string `json:"snapshot"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "snapshot":"ready" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
//
// A loading snapshot also reports 503, so load balancers hold traffic until
// the initial data load completes.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Snapshot: "ready",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Snapshot != nil && !h.Snapshot.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Snapshot = "loading"
		resp.Message = "Initial data load in progress"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
