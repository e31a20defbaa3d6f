package web

import (
	"net/http"

	"github.com/JonMunkholm/freightdesk/internal/core"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.service.ListClients(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if clients == nil {
		clients = []core.Client{}
	}
	writeJSON(w, r, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "clientID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	client, err := s.service.GetClient(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, client)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	client, err := s.service.CreateClient(r.Context(), fields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, client)
}

// handleUpdateClient overwrites the fields present in the body.
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "clientID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := decodeFields(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	client, err := s.service.UpdateClient(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "clientID")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.service.DeleteClient(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}
