package directory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ApplyPatientUpdate(ctx context.Context, id uuid.UUID, upd *PatientProfileUpdate) (*User, error)
	ApplyDoctorUpdate(ctx context.Context, id uuid.UUID, upd *DoctorProfileUpdate) (*User, error)
	ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error

	// Slot-set maintenance used by the booking ledger. RestoreSlot is
	// idempotent: re-adding a label already in the set is a no-op.
	RemoveSlot(ctx context.Context, doctorID uuid.UUID, slot string) error
	RestoreSlot(ctx context.Context, doctorID uuid.UUID, slot string) error
}
