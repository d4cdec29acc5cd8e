package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := api.NewHandler(store,
		bonus.NewService(store.Bonus()),
		gratuity.NewService(store.Gratuity()),
	)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, server *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(server.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func submitBonus(t *testing.T, server *httptest.Server, employeeID, fy, salary string) api.BonusRecordDTO {
	t.Helper()
	resp := postJSON(t, server, "/api/bonus/runs", map[string]any{
		"employeeId":    employeeID,
		"financialYear": fy,
		"basicSalary":   salary,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto api.BonusRecordDTO
	decodeInto(t, resp, &dto)
	return dto
}

// =============================================================================
// BONUS ENDPOINTS
// =============================================================================

func TestSubmitBonus_CreatesPendingRecord(t *testing.T) {
	server := newTestServer(t)

	dto := submitBonus(t, server, "emp-1", "2023-24", "15000")

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "PENDING", dto.Status)
	assert.True(t, dto.IsEligible)
	assert.Equal(t, "583.1", dto.BonusAmount)
	assert.Equal(t, "7000", dto.CalculationBase)
	assert.Equal(t, 12, dto.MonthsWorked)
}

func TestSubmitBonus_ValidationFailures(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing employee", map[string]any{"financialYear": "2023-24", "basicSalary": "15000"}},
		{"malformed financial year", map[string]any{"employeeId": "emp-1", "financialYear": "2023-2024", "basicSalary": "15000"}},
		{"non-consecutive financial year", map[string]any{"employeeId": "emp-1", "financialYear": "2023-25", "basicSalary": "15000"}},
		{"rate below band", map[string]any{"employeeId": "emp-1", "financialYear": "2023-24", "basicSalary": "15000", "bonusRate": "5.0"}},
		{"rate above band", map[string]any{"employeeId": "emp-1", "financialYear": "2023-24", "basicSalary": "15000", "bonusRate": "25.0"}},
		{"months out of range", map[string]any{"employeeId": "emp-1", "financialYear": "2023-24", "basicSalary": "15000", "monthsWorked": 13}},
		{"unparsable salary", map[string]any{"employeeId": "emp-1", "financialYear": "2023-24", "basicSalary": "lots"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, server, "/api/bonus/runs", tc.body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestBonusLifecycle_OverHTTP(t *testing.T) {
	server := newTestServer(t)
	dto := submitBonus(t, server, "emp-1", "2023-24", "15000")

	resp := postJSON(t, server, fmt.Sprintf("/api/bonus/%s/approve", dto.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &dto)
	assert.Equal(t, "APPROVED", dto.Status)

	// paidOn must not precede the record's creation; pay dated tomorrow.
	payday := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	resp = postJSON(t, server, fmt.Sprintf("/api/bonus/%s/pay", dto.ID), map[string]any{"paidOn": payday})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &dto)
	assert.Equal(t, "PAID", dto.Status)
	assert.NotEmpty(t, dto.PaidOn)
}

func TestBonus_SkipApproval_Conflict(t *testing.T) {
	server := newTestServer(t)
	dto := submitBonus(t, server, "emp-1", "2023-24", "15000")

	resp := postJSON(t, server, fmt.Sprintf("/api/bonus/%s/pay", dto.ID), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBonus_UnknownRecord_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/bonus/no-such-id/approve", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListBonus_ReturnsHistory(t *testing.T) {
	server := newTestServer(t)
	dto := submitBonus(t, server, "emp-1", "2023-24", "15000")

	resp := postJSON(t, server, fmt.Sprintf("/api/bonus/%s/supersede", dto.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	submitBonus(t, server, "emp-1", "2023-24", "16000")

	resp, err := http.Get(server.URL + "/api/employees/emp-1/bonus")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []api.BonusRecordDTO
	decodeInto(t, resp, &records)
	assert.Len(t, records, 2)
}

// =============================================================================
// GRATUITY ENDPOINTS
// =============================================================================

func TestSubmitGratuity_ExitSettlement(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/gratuity/runs", map[string]any{
		"employeeId":           "emp-1",
		"dateOfJoining":        "2018-01-01",
		"dateOfExit":           "2024-01-01",
		"lastDrawnBasicPlusDa": "30000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto api.GratuityRecordDTO
	decodeInto(t, resp, &dto)
	assert.Equal(t, "ELIGIBLE", dto.Status)
	assert.Equal(t, "6", dto.YearsOfService)
	assert.Equal(t, "103846.15", dto.GratuityAmount)

	resp = postJSON(t, server, fmt.Sprintf("/api/gratuity/%s/pay", dto.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &dto)
	assert.Equal(t, "PAID", dto.Status)
}

func TestSubmitGratuity_BadDate(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/gratuity/runs", map[string]any{
		"employeeId":           "emp-1",
		"dateOfJoining":        "01/01/2018",
		"lastDrawnBasicPlusDa": "30000",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPayGratuity_WhileAccruing_Conflict(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server, "/api/gratuity/runs", map[string]any{
		"employeeId":           "emp-1",
		"dateOfJoining":        "2024-01-01",
		"lastDrawnBasicPlusDa": "30000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto api.GratuityRecordDTO
	decodeInto(t, resp, &dto)
	require.Equal(t, "ACCRUING", dto.Status)

	resp = postJSON(t, server, fmt.Sprintf("/api/gratuity/%s/pay", dto.ID), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

func TestListConstraints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/admin/constraints")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var constraints []api.ConstraintDTO
	decodeInto(t, resp, &constraints)
	require.Len(t, constraints, 2)

	assert.Equal(t, "bonus_records", constraints[0].Table)
	assert.Equal(t, []string{"employee_id", "financial_year"}, constraints[0].Columns)
	assert.True(t, constraints[0].Active)

	assert.Equal(t, "gratuity_records", constraints[1].Table)
	assert.True(t, constraints[1].Active)
}
