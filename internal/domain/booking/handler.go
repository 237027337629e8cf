package booking

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibook/medibook/internal/domain/directory"
	"github.com/medibook/medibook/internal/platform/auth"
	"github.com/medibook/medibook/pkg/envelope"
	"github.com/medibook/medibook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	g := authed.Group("/appointments")
	g.POST("/book", h.Book, auth.RequireRole(directory.RolePatient))
	g.GET("/my-appointments", h.MyAppointments, auth.RequireRole(directory.RolePatient))
	g.GET("/doctor-appointments", h.DoctorAppointments, auth.RequireRole(directory.RoleDoctor))
	g.PATCH("/update-status", h.UpdateStatus, auth.RequireRole(directory.RoleDoctor))
	g.PATCH("/add-prescription", h.AddPrescription, auth.RequireRole(directory.RoleDoctor))
	g.PATCH("/cancel", h.Cancel)
}

func actorID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}

func (h *Handler) Book(c echo.Context) error {
	patientID, err := actorID(c)
	if err != nil {
		return err
	}
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	appt, err := h.svc.Book(c.Request().Context(), patientID, in)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Appointment booked successfully", envelope.M{"appointment": appt})
}

func (h *Handler) MyAppointments(c echo.Context) error {
	patientID, err := actorID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListForPatient(c.Request().Context(), patientID, pg)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	data := envelope.M{"appointments": appts, "total": total}
	if len(appts) == pg.Limit && pg.Limit > 0 {
		last := appts[len(appts)-1]
		data["next_cursor"] = pagination.EncodeCursor(last.AppointmentDate, last.ID)
	}
	return envelope.OK(c, "", data)
}

func (h *Handler) DoctorAppointments(c echo.Context) error {
	doctorID, err := actorID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListForDoctor(c.Request().Context(), doctorID, pg)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	data := envelope.M{"appointments": appts, "total": total}
	if len(appts) == pg.Limit && pg.Limit > 0 {
		last := appts[len(appts)-1]
		data["next_cursor"] = pagination.EncodeCursor(last.AppointmentDate, last.ID)
	}
	return envelope.OK(c, "", data)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	doctorID, err := actorID(c)
	if err != nil {
		return err
	}
	var in struct {
		AppointmentID string `json:"appointmentId"`
		Status        string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	apptID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return envelope.Fail(c, "invalid appointment id")
	}
	appt, err := h.svc.UpdateStatus(c.Request().Context(), doctorID, apptID, in.Status)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Appointment status updated", envelope.M{"appointment": appt})
}

func (h *Handler) AddPrescription(c echo.Context) error {
	doctorID, err := actorID(c)
	if err != nil {
		return err
	}
	var in struct {
		AppointmentID string `json:"appointmentId"`
		PrescriptionInput
	}
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	apptID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return envelope.Fail(c, "invalid appointment id")
	}
	appt, err := h.svc.AddPrescription(c.Request().Context(), doctorID, apptID, in.PrescriptionInput)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Prescription added successfully", envelope.M{"appointment": appt})
}

func (h *Handler) Cancel(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var in struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	apptID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return envelope.Fail(c, "invalid appointment id")
	}
	appt, err := h.svc.Cancel(c.Request().Context(), actor, apptID)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Appointment cancelled successfully", envelope.M{"appointment": appt})
}
