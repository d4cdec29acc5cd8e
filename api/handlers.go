/*
handlers.go - HTTP API handlers for the statutory payroll record engine

PURPOSE:
  Exposes the record engine via REST. Handles HTTP request/response,
  JSON serialization and input validation, and delegates to the
  lifecycle services.

ENDPOINTS:
  Bonus:
    POST   /api/bonus/runs            Submit facts for (employee, FY)
    POST   /api/bonus/{id}/approve    PENDING -> APPROVED
    POST   /api/bonus/{id}/pay        APPROVED -> PAID
    POST   /api/bonus/{id}/supersede  Demote to SUPERSEDED
    GET    /api/employees/{id}/bonus  Audit trail (history included)

  Gratuity:
    POST   /api/gratuity/runs            Submit/recompute facts
    POST   /api/gratuity/{id}/pay        ELIGIBLE -> PAID
    POST   /api/gratuity/{id}/supersede  Demote to SUPERSEDED
    GET    /api/employees/{id}/gratuity  Audit trail

  Admin:
    GET    /api/admin/constraints     Uniqueness constraint status

ERROR MAPPING:
  400: validation failures (rate band, months range, date order, DTO)
  404: record not found
  409: invalid transition, unresolved constraint race
  500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Bonus    *bonus.Service
	Gratuity *gratuity.Service
	Store    *sqlite.Store

	validate *validator.Validate
}

func NewHandler(store *sqlite.Store, bonusSvc *bonus.Service, gratuitySvc *gratuity.Service) *Handler {
	return &Handler{
		Bonus:    bonusSvc,
		Gratuity: gratuitySvc,
		Store:    store,
		validate: validator.New(),
	}
}

// =============================================================================
// BONUS HANDLERS
// =============================================================================

func (h *Handler) SubmitBonus(w http.ResponseWriter, r *http.Request) {
	var req SubmitBonusRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !statutory.FinancialYear(req.FinancialYear).IsValid() {
		writeError(w, http.StatusBadRequest, "malformed financialYear", nil)
		return
	}

	rate := bonus.DefaultRate
	if req.BonusRate != "" {
		var err error
		if rate, err = decimal.NewFromString(req.BonusRate); err != nil {
			writeError(w, http.StatusBadRequest, "malformed bonusRate", err)
			return
		}
	}
	salary, err := decimal.NewFromString(req.BasicSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed basicSalary", err)
		return
	}
	months := bonus.DefaultMonths
	if req.MonthsWorked != nil {
		months = *req.MonthsWorked
	}

	rec, err := h.Bonus.Submit(r.Context(), bonus.Facts{
		EmployeeID:    statutory.EmployeeID(req.EmployeeID),
		BranchID:      statutory.BranchID(req.BranchID),
		FinancialYear: statutory.FinancialYear(req.FinancialYear),
		BasicSalary:   statutory.Rupees(salary),
		BonusRate:     rate,
		MonthsWorked:  months,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBonusDTO(rec))
}

func (h *Handler) ApproveBonus(w http.ResponseWriter, r *http.Request) {
	id := statutory.RecordID(chi.URLParam(r, "id"))
	rec, err := h.Bonus.Approve(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBonusDTO(rec))
}

func (h *Handler) PayBonus(w http.ResponseWriter, r *http.Request) {
	id := statutory.RecordID(chi.URLParam(r, "id"))
	paidOn, ok := h.paidOn(w, r)
	if !ok {
		return
	}
	rec, err := h.Bonus.MarkPaid(r.Context(), id, paidOn)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBonusDTO(rec))
}

func (h *Handler) SupersedeBonus(w http.ResponseWriter, r *http.Request) {
	id := statutory.RecordID(chi.URLParam(r, "id"))
	rec, err := h.Bonus.Supersede(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBonusDTO(rec))
}

func (h *Handler) ListBonus(w http.ResponseWriter, r *http.Request) {
	employeeID := statutory.EmployeeID(chi.URLParam(r, "id"))
	records, err := h.Bonus.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]BonusRecordDTO, len(records))
	for i := range records {
		dtos[i] = toBonusDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// GRATUITY HANDLERS
// =============================================================================

func (h *Handler) SubmitGratuity(w http.ResponseWriter, r *http.Request) {
	var req SubmitGratuityRequest
	if !h.decode(w, r, &req) {
		return
	}

	joining, err := time.Parse("2006-01-02", req.DateOfJoining)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed dateOfJoining", err)
		return
	}
	var exit *time.Time
	if req.DateOfExit != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfExit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed dateOfExit", err)
			return
		}
		exit = &t
	}
	lastDrawn, err := decimal.NewFromString(req.LastDrawnBasicPlusDa)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed lastDrawnBasicPlusDa", err)
		return
	}

	rec, err := h.Gratuity.Submit(r.Context(), gratuity.Facts{
		EmployeeID:           statutory.EmployeeID(req.EmployeeID),
		DateOfJoining:        joining,
		DateOfExit:           exit,
		LastDrawnBasicPlusDa: statutory.Rupees(lastDrawn),
		Remarks:              req.Remarks,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGratuityDTO(rec))
}

func (h *Handler) PayGratuity(w http.ResponseWriter, r *http.Request) {
	id := statutory.RecordID(chi.URLParam(r, "id"))
	paidOn, ok := h.paidOn(w, r)
	if !ok {
		return
	}
	rec, err := h.Gratuity.MarkPaid(r.Context(), id, paidOn)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGratuityDTO(rec))
}

func (h *Handler) SupersedeGratuity(w http.ResponseWriter, r *http.Request) {
	id := statutory.RecordID(chi.URLParam(r, "id"))
	rec, err := h.Gratuity.Supersede(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGratuityDTO(rec))
}

func (h *Handler) ListGratuity(w http.ResponseWriter, r *http.Request) {
	employeeID := statutory.EmployeeID(chi.URLParam(r, "id"))
	records, err := h.Gratuity.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]GratuityRecordDTO, len(records))
	for i := range records {
		dtos[i] = toGratuityDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

func (h *Handler) ListConstraints(w http.ResponseWriter, r *http.Request) {
	constraints := h.Store.Constraints()
	dtos := make([]ConstraintDTO, 0, len(constraints))

	active, err := h.Store.Bonus().ConstraintActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "constraint inspection failed", err)
		return
	}
	dtos = append(dtos, toConstraintDTO(constraints[0], active))

	active, err = h.Store.Gratuity().ConstraintActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "constraint inspection failed", err)
		return
	}
	dtos = append(dtos, toConstraintDTO(constraints[1], active))

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err)
		return false
	}
	return true
}

func (h *Handler) paidOn(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	var req MarkPaidRequest
	if r.ContentLength > 0 {
		if !h.decode(w, r, &req) {
			return time.Time{}, false
		}
	}
	if req.PaidOn == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse("2006-01-02", req.PaidOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed paidOn", err)
		return time.Time{}, false
	}
	return t, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case statutory.IsNotFound(err):
		writeError(w, http.StatusNotFound, "record not found", err)
	case errors.Is(err, statutory.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "transition refused", err)
	case errors.Is(err, statutory.ErrConstraintViolation):
		writeError(w, http.StatusConflict, "concurrent submit, retry", err)
	case statutory.IsClientError(err):
		writeError(w, http.StatusBadRequest, "invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
