package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medibook/medibook/internal/domain/directory"
	"github.com/medibook/medibook/pkg/pagination"
)

// UserDirectory is the slice of the user store the booking service needs:
// doctor lookups plus maintenance of the doctor's advertised slot list.
// Satisfied by directory.Repository.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.User, error)
	RemoveSlot(ctx context.Context, doctorID uuid.UUID, slot string) error
	RestoreSlot(ctx context.Context, doctorID uuid.UUID, slot string) error
}

// Service owns the appointment lifecycle. All slot-ledger decisions are
// delegated to the repository's conditional insert; the service layers
// validation, authorization and status-machine rules on top.
type Service struct {
	appts Repository
	users UserDirectory
	loc   *time.Location
	log   zerolog.Logger
}

func NewService(appts Repository, users UserDirectory, loc *time.Location, log zerolog.Logger) *Service {
	return &Service{appts: appts, users: users, loc: loc, log: log}
}

// BookInput carries everything a patient submits when booking. The date is
// accepted as appointmentDate, with date as an alias.
type BookInput struct {
	DoctorID        string   `json:"doctorId"`
	AppointmentDate string   `json:"appointmentDate"`
	Date            string   `json:"date"`
	Slot            string   `json:"slot"`
	Mode            string   `json:"mode"`
	Reason          string   `json:"reason"`
	Symptoms        []string `json:"symptoms"`
	PatientName     string   `json:"patientName"`
	BookingKey      string   `json:"bookingKey"`
}

func (in BookInput) date() string {
	if strings.TrimSpace(in.AppointmentDate) != "" {
		return in.AppointmentDate
	}
	return in.Date
}

// parseDay accepts a bare calendar day or a full timestamp and collapses it
// to midnight of that day in the service's booking timezone.
func (s *Service) parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation("2006-01-02", raw, s.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc), nil
}

// Book creates an appointment if the doctor's slot is free on that day.
// A repeated request with the same booking key returns the original
// appointment instead of an error.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookInput) (*Appointment, error) {
	rawDate := in.date()
	if strings.TrimSpace(in.DoctorID) == "" || strings.TrimSpace(rawDate) == "" || strings.TrimSpace(in.Slot) == "" {
		return nil, ErrValidation
	}
	doctorID, err := uuid.Parse(in.DoctorID)
	if err != nil {
		return nil, ErrInvalidDoctor
	}
	day, err := s.parseDay(rawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, rawDate)
	}

	mode := in.Mode
	if mode == "" {
		mode = ModeInPerson
	}
	if !validModes[mode] {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrValidation, in.Mode)
	}

	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, ErrInvalidDoctor
		}
		return nil, err
	}
	if !doctor.IsDoctor() {
		return nil, ErrInvalidDoctor
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var fee float64
	if doctor.ConsultationFee != nil {
		fee = *doctor.ConsultationFee
	}

	patientName := strings.TrimSpace(in.PatientName)
	if patientName == "" {
		patientName = patient.Name
	}

	a := &Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		PatientName:     &patientName,
		AppointmentDate: day,
		Slot:            strings.TrimSpace(in.Slot),
		Mode:            mode,
		Status:          StatusPending,
		PaymentStatus:   "pending",
		ConsultationFee: fee,
		Symptoms:        in.Symptoms,
		CreatedBy:       &patientID,
	}
	if a.Symptoms == nil {
		a.Symptoms = []string{}
	}
	if r := strings.TrimSpace(in.Reason); r != "" {
		a.Reason = &r
	}
	if k := strings.TrimSpace(in.BookingKey); k != "" {
		a.BookingKey = &k
	}

	err = s.appts.CreateIfSlotFree(ctx, a)
	switch {
	case err == nil:
	case errors.Is(err, errDuplicateBookingKey):
		// Replay of an earlier successful booking. The key only resolves
		// for its own patient; a foreign key reads as a plain conflict.
		orig, getErr := s.appts.GetByBookingKey(ctx, *a.BookingKey)
		if getErr != nil {
			return nil, getErr
		}
		if orig.PatientID != patientID {
			return nil, ErrSlotTaken
		}
		return orig, nil
	default:
		return nil, err
	}

	// The appointment is the source of truth; the advertised slot list is
	// display-only, so a failure here is logged and not surfaced.
	if err := s.users.RemoveSlot(ctx, doctorID, a.Slot); err != nil {
		s.log.Warn().Err(err).
			Str("doctor_id", doctorID.String()).
			Str("slot", a.Slot).
			Msg("failed to remove booked slot from doctor profile")
	}
	return a, nil
}

// Cancel cancels an appointment and frees its slot. Patients may cancel
// their own appointments, doctors the ones addressed to them. Cancelling an
// already-cancelled appointment succeeds without side effects.
func (s *Service) Cancel(ctx context.Context, actorID uuid.UUID, apptID uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.PatientID != actorID && a.DoctorID != actorID {
		return nil, ErrUnauthorized
	}
	if a.Status == StatusCancelled {
		return a, nil
	}
	if a.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: completed appointments cannot be cancelled", ErrInvalidStatus)
	}

	a, err = s.appts.UpdateStatus(ctx, apptID, StatusCancelled, actorID)
	if err != nil {
		return nil, err
	}
	s.restoreSlot(ctx, a)
	return a, nil
}

// UpdateStatus moves an appointment between states on behalf of its doctor.
// Moving to cancelled frees the slot, same as Cancel.
func (s *Service) UpdateStatus(ctx context.Context, doctorID uuid.UUID, apptID uuid.UUID, status string) (*Appointment, error) {
	if !validTargetStatuses[status] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	a, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != doctorID {
		return nil, ErrUnauthorized
	}
	if a.Status == status {
		return a, nil
	}
	if IsTerminal(a.Status) {
		return nil, fmt.Errorf("%w: appointment is already %s", ErrInvalidStatus, a.Status)
	}

	a, err = s.appts.UpdateStatus(ctx, apptID, status, doctorID)
	if err != nil {
		return nil, err
	}
	if status == StatusCancelled {
		s.restoreSlot(ctx, a)
	}
	return a, nil
}

// PrescriptionInput is the doctor's closing note for a consultation.
type PrescriptionInput struct {
	Notes        string             `json:"notes"`
	Prescription []PrescriptionItem `json:"prescription"`
}

// AddPrescription records the doctor's notes and prescription, then marks
// the appointment completed. The appointment must still be open.
func (s *Service) AddPrescription(ctx context.Context, doctorID uuid.UUID, apptID uuid.UUID, in PrescriptionInput) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != doctorID {
		return nil, ErrUnauthorized
	}
	if IsTerminal(a.Status) {
		return nil, fmt.Errorf("%w: appointment is already %s", ErrInvalidStatus, a.Status)
	}

	if _, err := s.appts.AttachPrescription(ctx, apptID, strings.TrimSpace(in.Notes), in.Prescription, doctorID); err != nil {
		return nil, err
	}
	return s.appts.UpdateStatus(ctx, apptID, StatusCompleted, doctorID)
}

// ListForPatient returns the patient's appointments, most recent day first.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, pg pagination.Params) ([]*PatientView, int, error) {
	return s.appts.ListForPatient(ctx, patientID, pg)
}

// ListForDoctor returns the doctor's appointments, soonest day first.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, pg pagination.Params) ([]*DoctorView, int, error) {
	return s.appts.ListForDoctor(ctx, doctorID, pg)
}

// restoreSlot puts a freed slot back on the doctor's advertised list.
// Best effort, idempotent at the repository level.
func (s *Service) restoreSlot(ctx context.Context, a *Appointment) {
	if err := s.users.RestoreSlot(ctx, a.DoctorID, a.Slot); err != nil {
		s.log.Warn().Err(err).
			Str("doctor_id", a.DoctorID.String()).
			Str("slot", a.Slot).
			Msg("failed to restore slot to doctor profile")
	}
}
