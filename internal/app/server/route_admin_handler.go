package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/api/dto"
	"gatekeeper/internal/database"
	"gatekeeper/internal/denylist"
)

const recentRequestsLimit = 500

func getSuspiciousIPs(w http.ResponseWriter, r *http.Request) {
	records, err := database.ListSuspiciousIPs()
	if err != nil {
		writeError(w, "Failed to query suspicious IPs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func getRecentRequests(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	entries, err := database.RecentRequestLogs(since, recentRequestsLimit)
	if err != nil {
		writeError(w, "Failed to query request log", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func blockIP(w http.ResponseWriter, r *http.Request) {
	var request dto.BlockIPRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	created, err := deps.Denylist.Block(request.IPAddress)
	if errors.Is(err, denylist.ErrInvalidIP) {
		writeError(w, "Invalid IP address", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, "Failed to block IP", http.StatusInternalServerError)
		return
	}

	log.Info("IP added to denylist", "ip", request.IPAddress, "created", created)
	writeJSON(w, http.StatusOK, dto.BlockIPResponse{
		IPAddress: request.IPAddress,
		Created:   created,
	})
}

func runDetection(w http.ResponseWriter, r *http.Request) {
	summary, err := deps.Detector.Run(time.Now())
	if err != nil {
		log.Error("Manual detection run failed", "error", err)
		writeError(w, "Detection run failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
