package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/pkg/pagination"
)

type Repository interface {
	// CreateIfSlotFree inserts the appointment only when no active
	// appointment occupies the same (doctor, day, slot) triple. The check
	// and the insert are one conditional statement; a partial unique index
	// backstops the race between concurrent bookings. Returns ErrSlotTaken
	// when the triple is occupied and errDuplicateBookingKey when the
	// idempotency key was already used.
	CreateIfSlotFree(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetByBookingKey(ctx context.Context, key string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, updatedBy uuid.UUID) (*Appointment, error)
	AttachPrescription(ctx context.Context, id uuid.UUID, notes string, items []PrescriptionItem, updatedBy uuid.UUID) (*Appointment, error)

	// ListForPatient returns newest-first appointments with the doctor's
	// public fields joined; ListForDoctor returns soonest-first
	// appointments with the patient's public fields joined.
	ListForPatient(ctx context.Context, patientID uuid.UUID, pg pagination.Params) ([]*PatientView, int, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, pg pagination.Params) ([]*DoctorView, int, error)
}
