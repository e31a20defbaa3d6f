package web

import (
	"net/http"

	"github.com/JonMunkholm/freightdesk/internal/core"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.service.ListBookings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []core.Booking{}
	}
	writeJSON(w, r, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bookingID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.service.GetBooking(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, booking)
}

// handleConfirmBooking confirms a booking. The notice to the client, if
// any, is sent in the background and never affects the response.
func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bookingID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.service.ConfirmBooking(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Booking confirmed and email sent if applicable"})
}
