package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Completed and cancelled are terminal: the status
// never changes again once either is reached.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Consultation modes.
const (
	ModeInPerson = "in-person"
	ModeVideo    = "video"
)

var validModes = map[string]bool{
	ModeInPerson: true,
	ModeVideo:    true,
}

// validTargetStatuses are the states a doctor may move an appointment to.
var validTargetStatuses = map[string]bool{
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

// IsTerminal reports whether a status accepts no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// IsActive reports whether an appointment in this status still occupies its
// (doctor, day, slot) triple.
func IsActive(status string) bool {
	return !IsTerminal(status)
}

// PrescriptionItem is one line of a prescription.
type PrescriptionItem struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

// Appointment maps to the appointments table. AppointmentDate is a calendar
// day (DATE column), normalized to the configured booking timezone before it
// reaches the store; the slot label is opaque.
type Appointment struct {
	ID              uuid.UUID          `db:"id" json:"id"`
	PatientID       uuid.UUID          `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	PatientName     *string            `db:"patient_name" json:"patient_name,omitempty"`
	AppointmentDate time.Time          `db:"appointment_date" json:"appointment_date"`
	Slot            string             `db:"slot" json:"slot"`
	Mode            string             `db:"mode" json:"mode"`
	Reason          *string            `db:"reason" json:"reason,omitempty"`
	Symptoms        []string           `db:"symptoms" json:"symptoms"`
	Status          string             `db:"status" json:"status"`
	PaymentStatus   string             `db:"payment_status" json:"payment_status"`
	ConsultationFee float64            `db:"consultation_fee" json:"consultation_fee"`
	TransactionID   *string            `db:"transaction_id" json:"transaction_id,omitempty"`
	Notes           *string            `db:"notes" json:"notes,omitempty"`
	Prescription    []PrescriptionItem `db:"prescription" json:"prescription"`
	FollowUpDate    *time.Time         `db:"follow_up_date" json:"follow_up_date,omitempty"`
	BookingKey      *string            `db:"booking_key" json:"booking_key,omitempty"`
	CreatedBy       *uuid.UUID         `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy       *uuid.UUID         `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// DoctorSummary is the doctor projection joined onto a patient's
// appointment list.
type DoctorSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Specialization  *string   `json:"specialization,omitempty"`
	ConsultationFee *float64  `json:"consultation_fee,omitempty"`
}

// PatientSummary is the patient projection joined onto a doctor's
// appointment list. The doctor's own sensitive fields are never included.
type PatientSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Age    *int      `json:"age,omitempty"`
	Gender *string   `json:"gender,omitempty"`
	Phone  string    `json:"phone"`
}

// PatientView is an appointment as seen by its patient.
type PatientView struct {
	Appointment
	Doctor DoctorSummary `json:"doctor"`
}

// DoctorView is an appointment as seen by its doctor.
type DoctorView struct {
	Appointment
	Patient PatientSummary `json:"patient"`
}
