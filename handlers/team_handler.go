package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"assetverse/events"
	"assetverse/models"
	"assetverse/repository"
	"assetverse/utils"
)

// ListEmployees handles GET /hr/employees/{email}. HR accounts see their own
// roster; employees see everyone in the companies they belong to.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err.Error(), err)
		return
	}

	var own []models.EmployeeAffiliation
	if user.Role != models.RoleHR {
		own, err = h.Affiliations.ActiveForEmployee(ctx, email)
		if err != nil {
			h.serverError(w, r, err.Error(), err)
			return
		}
	}

	scope := models.ScopeFor(user.Role, email, own)
	members := []models.TeamMember{}
	if scope.Empty() {
		utils.RespondWithJSON(w, http.StatusOK, members)
		return
	}

	affiliations, err := h.Affiliations.InScope(ctx, scope)
	if err != nil {
		h.serverError(w, r, err.Error(), err)
		return
	}

	// one profile and one count lookup per member
	for i := range affiliations {
		a := &affiliations[i]

		profile, err := h.Users.FindByEmail(ctx, a.EmployeeEmail)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.serverError(w, r, err.Error(), err)
			return
		}

		count, err := h.AssignedAssets.CountByEmployee(ctx, a.EmployeeEmail)
		if err != nil {
			h.serverError(w, r, err.Error(), err)
			return
		}

		members = append(members, models.NewTeamMember(a, profile, count))
	}

	utils.RespondWithJSON(w, http.StatusOK, members)
}

// RemoveEmployee handles PATCH /hr/remove-employee/{employeeId}. The
// affiliation is marked removed, not deleted.
func (h *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeId", "employee")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.Affiliations.Remove(ctx, id, h.now())
	if err != nil {
		h.serverError(w, r, "Failed to remove employee", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Employee not found")
		return
	}

	if a, err := h.Affiliations.FindByID(ctx, id); err == nil {
		h.publish(ctx, events.EmployeeRemoved, a, a.EmployeeEmail, a.HREmail)
	} else {
		h.log.Warn("removed affiliation not readable", zap.String("id", id.Hex()), zap.Error(err))
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Employee removed successfully"})
}
