// Package healthhttp exposes the /health and /ready side-channel
// endpoints required by spec.md 6, on the same port as the WebSocket
// transport. Grounded on Seednode-partybox's httprouter-based
// serveHealthCheck (html.go), generalized from a static liveness-only
// check to a readiness probe that also reports whether the room
// registry and connection hub are up.
package healthhttp

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Checker reports whether a dependency the readiness probe cares about
// is currently serving. Both the room registry and the hub satisfy
// this trivially (they have no failure mode short of process exit),
// but the indirection keeps the probe from hard-coding a concrete type.
type Checker interface {
	Ready() bool
}

// Register adds /health and /ready to mux.
func Register(mux *httprouter.Router, checks ...Checker) {
	mux.GET("/health", serveLive)
	mux.GET("/ready", serveReady(checks))
}

func serveLive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func serveReady(checks []Checker) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		for _, c := range checks {
			if !c.Ready() {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("not ready\n"))
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ready\n"))
	}
}
