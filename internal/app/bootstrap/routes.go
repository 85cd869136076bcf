// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	gatefeature "github.com/psalmeida/organregistry/internal/app/features/gate"
	healthfeature "github.com/psalmeida/organregistry/internal/app/features/health"
	locationsfeature "github.com/psalmeida/organregistry/internal/app/features/locations"
	maintenancesfeature "github.com/psalmeida/organregistry/internal/app/features/maintenances"
	organsfeature "github.com/psalmeida/organregistry/internal/app/features/organs"
	regionsfeature "github.com/psalmeida/organregistry/internal/app/features/regions"
	reportsfeature "github.com/psalmeida/organregistry/internal/app/features/reports"
	"github.com/psalmeida/organregistry/internal/app/system/session"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the snapshot cache and challenge gate
// in deps are ready to serve.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := session.Init(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Every request carries an anonymous visitor session. The session also
	// holds the deletion-history authorization flag once the visitor passes
	// the code challenge.
	r.Use(session.EnsureVisitor)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Snapshot, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Code challenges for destructive actions and history access
	gateHandler := gatefeature.NewHandler(deps.Gate, logger)
	r.Mount("/gate", gatefeature.Routes(gateHandler))

	// Read side: region cards, location detail, organ history
	regionsHandler := regionsfeature.NewHandler(deps.Snapshot, logger)
	r.Mount("/regions", regionsfeature.Routes(regionsHandler))

	locationsHandler := locationsfeature.NewHandler(deps.Snapshot, logger)
	r.Mount("/locations", locationsfeature.Routes(locationsHandler))

	// Write side: organ and maintenance records
	organsHandler := organsfeature.NewHandler(deps.MongoDatabase, deps.Snapshot, deps.Gate, logger)
	r.Mount("/organs", organsfeature.Routes(organsHandler))

	maintenancesHandler := maintenancesfeature.NewHandler(deps.MongoDatabase, deps.Snapshot, deps.Gate, logger)
	r.Mount("/maintenances", maintenancesfeature.Routes(maintenancesHandler))

	// Consolidated reports, JSON and CSV
	reportsHandler := reportsfeature.NewHandler(deps.Snapshot, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	return r, nil
}
