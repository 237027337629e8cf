package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibook/medibook/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo, *mockUserDir) {
	svc, _, users := newTestService()
	return NewHandler(svc), echo.New(), users
}

// authedContext builds an echo context carrying an authenticated identity,
// the way the auth middleware would.
func authedContext(e *echo.Echo, method, body string, userID uuid.UUID, role string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	ctx = context.WithValue(ctx, auth.RoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestHandler_Book(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","appointmentDate":"2026-09-15","slot":"10:00 AM","patientName":"Asha Rao"}`
	c, rec := authedContext(e, http.MethodPost, body, patientID, "patient")

	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Errorf("expected success=true, got %v", env["message"])
	}
	if _, ok := env["appointment"]; !ok {
		t.Error("expected appointment in response")
	}
}

func TestHandler_Book_SlotTaken(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	first := users.addPatient()
	second := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, _ := authedContext(e, http.MethodPost, body, first, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	c, rec := authedContext(e, http.MethodPost, body, second, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	// Business failures ride a 200 envelope.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != false {
		t.Errorf("expected success=false, got %v", env["success"])
	}
	if env["message"] != ErrSlotTaken.Error() {
		t.Errorf("unexpected message: %v", env["message"])
	}
}

func TestHandler_Book_BadDoctorID(t *testing.T) {
	h, e, users := newTestHandler()
	patientID := users.addPatient()

	body := `{"doctorId":"not-a-uuid","date":"2026-09-15","slot":"10:00 AM"}`
	c, rec := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != false {
		t.Errorf("expected success=false, got %v", env["success"])
	}
}

func TestHandler_MyAppointments(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, _ := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	c, rec := authedContext(e, http.MethodGet, "", patientID, "patient")
	if err := h.MyAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	appts, ok := env["appointments"].([]interface{})
	if !ok || len(appts) != 1 {
		t.Errorf("expected 1 appointment, got %v", env["appointments"])
	}
	if env["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", env["total"])
	}
}

func TestHandler_DoctorAppointments(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, _ := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	c, rec := authedContext(e, http.MethodGet, "", doctorID, "doctor")
	if err := h.DoctorAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	appts, ok := env["appointments"].([]interface{})
	if !ok || len(appts) != 1 {
		t.Errorf("expected 1 appointment, got %v", env["appointments"])
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, rec := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	env := decodeEnvelope(t, rec)
	apptID := env["appointment"].(map[string]interface{})["id"].(string)

	body = `{"appointmentId":"` + apptID + `","status":"confirmed"}`
	c, rec = authedContext(e, http.MethodPatch, body, doctorID, "doctor")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env = decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Errorf("expected success=true, got %v", env["message"])
	}
	status := env["appointment"].(map[string]interface{})["status"]
	if status != "confirmed" {
		t.Errorf("expected confirmed, got %v", status)
	}
}

func TestHandler_Cancel(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, rec := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	env := decodeEnvelope(t, rec)
	apptID := env["appointment"].(map[string]interface{})["id"].(string)

	body = `{"appointmentId":"` + apptID + `"}`
	c, rec = authedContext(e, http.MethodPatch, body, patientID, "patient")
	if err := h.Cancel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env = decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Errorf("expected success=true, got %v", env["message"])
	}
	status := env["appointment"].(map[string]interface{})["status"]
	if status != "cancelled" {
		t.Errorf("expected cancelled, got %v", status)
	}
}

func TestHandler_AddPrescription(t *testing.T) {
	h, e, users := newTestHandler()
	doctorID := users.addDoctor(500)
	patientID := users.addPatient()

	body := `{"doctorId":"` + doctorID.String() + `","date":"2026-09-15","slot":"10:00 AM"}`
	c, rec := authedContext(e, http.MethodPost, body, patientID, "patient")
	if err := h.Book(c); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	env := decodeEnvelope(t, rec)
	apptID := env["appointment"].(map[string]interface{})["id"].(string)

	body = `{"appointmentId":"` + apptID + `","notes":"rest","prescription":[{"medicine":"Paracetamol","dosage":"500mg","duration":"5 days"}]}`
	c, rec = authedContext(e, http.MethodPatch, body, doctorID, "doctor")
	if err := h.AddPrescription(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env = decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Errorf("expected success=true, got %v", env["message"])
	}
	status := env["appointment"].(map[string]interface{})["status"]
	if status != "completed" {
		t.Errorf("expected completed after prescription, got %v", status)
	}
}

func TestHandler_Cancel_BadAppointmentID(t *testing.T) {
	h, e, users := newTestHandler()
	patientID := users.addPatient()

	c, rec := authedContext(e, http.MethodPatch, `{"appointmentId":"nope"}`, patientID, "patient")
	if err := h.Cancel(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != false {
		t.Errorf("expected success=false, got %v", env["success"])
	}
}
