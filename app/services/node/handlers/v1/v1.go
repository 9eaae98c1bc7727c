// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/mycoin/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/mycoin/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/mycoin/foundation/blockchain/state"
	"github.com/ardanlabs/mycoin/foundation/events"
	"github.com/ardanlabs/mycoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/block/:index", pbl.QueryBlock)
	app.Handle(http.MethodGet, version, "/valid", pbl.Valid)
	app.Handle(http.MethodPost, version, "/tx/add", pbl.AddTransaction)
	app.Handle(http.MethodGet, version, "/tx/pending", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/node/connect", pbl.ConnectNodes)
	app.Handle(http.MethodGet, version, "/reconcile", pbl.Reconcile)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/chain", prv.Chain)
}
