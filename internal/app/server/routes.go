package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/admission"
	"gatekeeper/internal/auth"
	"gatekeeper/internal/denylist"
	"gatekeeper/internal/detector"
)

type Deps struct {
	Pipeline *admission.Pipeline
	Denylist *denylist.Manager
	Detector *detector.Detector
}

var deps Deps

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func OpenRoutes(port int, d Deps) error {
	deps = d

	router := http.NewServeMux()
	router.HandleFunc("POST /register", registerUser)
	router.HandleFunc("POST /login", loginUser)
	router.HandleFunc("GET /public", publicIndex)

	router.Handle("GET /admin/suspicious", auth.IsAdmin(http.HandlerFunc(getSuspiciousIPs)))
	router.Handle("GET /admin/requests", auth.IsAdmin(http.HandlerFunc(getRecentRequests)))
	router.Handle("POST /admin/block", auth.IsAdmin(http.HandlerFunc(blockIP)))
	router.Handle("POST /admin/detect", auth.IsAdmin(http.HandlerFunc(runDetection)))

	// Every route passes the admission pipeline before its handler runs.
	handler := enableCORS(admission.Middleware(deps.Pipeline)(router))

	addr := fmt.Sprintf(":%d", port)
	log.Infof("Starting server on port %s", addr)
	return http.ListenAndServe(addr, handler)
}
