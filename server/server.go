// Package server wires the auxiliary HTTP surface around the gateway.
package server

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Gateway http.Handler
	Version string
}

type infoResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	WebSocket string `json:"websocket"`
}

// RegisterRoutes mounts the info, health and WebSocket endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, d Dependencies) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := sonic.Marshal(infoResponse{
			Service:   "voicerelay",
			Version:   d.Version,
			WebSocket: "/ws",
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	if d.Gateway != nil {
		mux.Handle("/ws", d.Gateway)
	}
}
