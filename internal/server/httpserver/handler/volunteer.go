package handler

import "net/http"

// handleRequestWork handles POST /api/request-work. The candidate list
// is already filtered, sorted, and capped by the service.
func (h *Handler) handleRequestWork(w http.ResponseWriter, r *http.Request) {
	var req AuthorizedRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	candidates, err := h.requestSvc.ListCandidates(req.Authorization)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, candidates)
}

// handleGetRequest handles POST /api/get-request.
func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	var req RequestIDRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	detail, err := h.requestSvc.GetRequestDetail(req.Authorization, req.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, RequestDetailResponse{
		User: RequestOwnerInfo{
			Username: detail.Owner.Username,
			Name:     detail.Owner.DisplayName,
		},
		Picture: detail.Request.PictureRef,
		Notes:   detail.Request.Notes,
		Dist:    detail.DistanceMeters,
		Address: detail.Owner.Address,
	})
}

// handleAcceptRequest handles POST /api/accept-request.
func (h *Handler) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	var req RequestIDRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.requestSvc.AcceptRequest(req.Authorization, req.ID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleAcceptedRequests handles POST /api/accepted-requests.
func (h *Handler) handleAcceptedRequests(w http.ResponseWriter, r *http.Request) {
	var req AuthorizedRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ids, err := h.requestSvc.ListAccepted(req.Authorization)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ids)
}

// handleMarkCompleted handles POST /api/mark-request-completed.
func (h *Handler) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	var req RequestIDRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.requestSvc.MarkCompleted(req.Authorization, req.ID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, nil)
}
