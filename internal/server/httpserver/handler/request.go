package handler

import "net/http"

// handleRequestHelp handles POST /api/request-help.
func (h *Handler) handleRequestHelp(w http.ResponseWriter, r *http.Request) {
	var req RequestHelpRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	id, err := h.requestSvc.RequestHelp(req.Authorization, req.Picture, req.Notes)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, RequestHelpResponse{ID: id})
}

// handleOwnRequest handles POST /api/help-requests. It returns the
// calling senior's active request.
func (h *Handler) handleOwnRequest(w http.ResponseWriter, r *http.Request) {
	var req AuthorizedRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	_, request, err := h.requestSvc.GetOwnRequest(req.Authorization)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, OwnRequestResponse{
		Picture:      request.PictureRef,
		Notes:        request.Notes,
		CreationTime: request.CreatedAt,
		State:        request.State,
	})
}

// handleDeleteRequest handles POST /api/delete-help-request. Deleting
// with no active request is not an error; the response tells the
// caller whether anything was removed.
func (h *Handler) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	var req AuthorizedRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	deleted, err := h.requestSvc.DeleteOwnRequest(req.Authorization)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, DeleteRequestResponse{Deleted: deleted})
}
