package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/freightdesk/internal/core"
)

// handleUploadBookings ingests a bookings spreadsheet in one transaction.
func (s *Server) handleUploadBookings(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.service.UploadBookings(r.Context(), fileName, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, messageResponse{
		Message:  fmt.Sprintf("Successfully uploaded %d bookings", result.Inserted),
		UploadID: result.UploadID.String(),
		Inserted: &result.Inserted,
		Skipped:  &result.Skipped,
	})
}

// handleUploadClients ingests a clients spreadsheet; codes already on
// file are skipped.
func (s *Server) handleUploadClients(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.service.UploadClients(r.Context(), fileName, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, messageResponse{
		Message:  "Clients uploaded successfully",
		UploadID: result.UploadID.String(),
		Inserted: &result.Inserted,
		Skipped:  &result.Skipped,
	})
}

// handleListUploads returns upload history, newest first.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultUploadHistoryLimit)

	uploads, err := s.service.ListUploads(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if uploads == nil {
		uploads = []core.UploadRecord{}
	}
	writeJSON(w, r, http.StatusOK, uploads)
}
