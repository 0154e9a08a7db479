package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leaddesk/leaddesk/internal/crm"
	"github.com/leaddesk/leaddesk/internal/store"
)

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ResearchRequest is the body of POST /api/research.
type ResearchRequest struct {
	CompanyDomain string `json:"company_domain"`
}

// DeleteResponse is the body of a successful DELETE /api/leads/{id}.
type DeleteResponse struct {
	Status string `json:"status"`
	LeadID int64  `json:"lead_id"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// pagination reads skip/limit query parameters with sane bounds.
func pagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return skip, limit
}

// leadID parses the {id} URL parameter.
func leadID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleResearch runs the research workflow for a company domain.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyDomain == "" {
		writeError(w, http.StatusBadRequest, "company_domain is required")
		return
	}

	outcome, err := s.agent.Run(r.Context(), req.CompanyDomain)
	if err != nil {
		s.logger.Error("research workflow failed", "domain", req.CompanyDomain, "error", err)
		writeError(w, http.StatusInternalServerError, "Research failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// handleListLeads returns leads, newest first.
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	leads, err := s.store.ListLeads(skip, limit)
	if err != nil {
		s.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve leads")
		return
	}
	if leads == nil {
		leads = []crm.Lead{}
	}

	writeJSON(w, http.StatusOK, leads)
}

// handleGetLead returns a single lead by ID.
func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID must be a number")
		return
	}

	lead, err := s.store.GetLead(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		s.logger.Error("failed to get lead", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// handleDeleteLead deletes a lead and its emails.
func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID must be a number")
		return
	}

	if err := s.store.DeleteLead(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		s.logger.Error("failed to delete lead", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete lead")
		return
	}

	s.logger.Info("lead deleted", "id", id)
	writeJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", LeadID: id})
}

// handleListLeadEmails returns the emails recorded for one lead.
func (s *Server) handleListLeadEmails(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID must be a number")
		return
	}

	emails, err := s.store.ListLeadEmails(id)
	if err != nil {
		s.logger.Error("failed to list lead emails", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve emails")
		return
	}
	if emails == nil {
		emails = []crm.Email{}
	}

	writeJSON(w, http.StatusOK, emails)
}

// handleListEmails returns all emails, newest first.
func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	emails, err := s.store.ListEmails(skip, limit)
	if err != nil {
		s.logger.Error("failed to list emails", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve emails")
		return
	}
	if emails == nil {
		emails = []crm.Email{}
	}

	writeJSON(w, http.StatusOK, emails)
}
