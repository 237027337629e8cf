package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, patient_name, appointment_date, slot, mode,
	reason, symptoms, status, payment_status, consultation_fee, transaction_id,
	notes, prescription, follow_up_date, booking_key, created_by, updated_by,
	created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PatientName, &a.AppointmentDate, &a.Slot, &a.Mode,
		&a.Reason, &a.Symptoms, &a.Status, &a.PaymentStatus, &a.ConsultationFee, &a.TransactionID,
		&a.Notes, &a.Prescription, &a.FollowUpDate, &a.BookingKey, &a.CreatedBy, &a.UpdatedBy,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// bookingKeyIdx backs the idempotency key; a 23505 on it means a replay.
// Any other unique violation on appointments is the active-slot index.
const bookingKeyIdx = "appointments_booking_key_idx"

func (r *repoPG) CreateIfSlotFree(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	got, err := scanAppt(r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, patient_name,
			appointment_date, slot, mode, reason, symptoms, status,
			consultation_fee, booking_key, created_by)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $3 AND appointment_date = $5 AND slot = $6
			  AND status NOT IN ('cancelled', 'completed'))
		RETURNING `+apptCols,
		a.ID, a.PatientID, a.DoctorID, a.PatientName,
		a.AppointmentDate, a.Slot, a.Mode, a.Reason, a.Symptoms, a.Status,
		a.ConsultationFee, a.BookingKey, a.CreatedBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == bookingKeyIdx {
				return errDuplicateBookingKey
			}
			return ErrSlotTaken
		}
		if errors.Is(err, ErrNotFound) {
			// The guard suppressed the insert. When the active occupant is
			// this client's own earlier booking, a replayed key must win
			// over the slot conflict.
			if a.BookingKey != nil {
				if _, kerr := r.GetByBookingKey(ctx, *a.BookingKey); kerr == nil {
					return errDuplicateBookingKey
				}
			}
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	*a = *got
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) GetByBookingKey(ctx context.Context, key string) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE booking_key = $1`, key))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string, updatedBy uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `
		UPDATE appointments SET status = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, status, updatedBy))
}

func (r *repoPG) AttachPrescription(ctx context.Context, id uuid.UUID, notes string, items []PrescriptionItem, updatedBy uuid.UUID) (*Appointment, error) {
	if items == nil {
		items = []PrescriptionItem{}
	}
	return scanAppt(r.pool.QueryRow(ctx, `
		UPDATE appointments SET notes = $2, prescription = $3, updated_by = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, notes, items, updatedBy))
}

const patientViewCols = `a.id, a.patient_id, a.doctor_id, a.patient_name, a.appointment_date, a.slot, a.mode,
	a.reason, a.symptoms, a.status, a.payment_status, a.consultation_fee, a.transaction_id,
	a.notes, a.prescription, a.follow_up_date, a.booking_key, a.created_by, a.updated_by,
	a.created_at, a.updated_at,
	d.id, d.name, d.specialization, d.consultation_fee`

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID, pg pagination.Params) ([]*PatientView, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientViewCols + `
		FROM appointments a
		JOIN users d ON d.id = a.doctor_id
		WHERE a.patient_id = $1`
	args := []interface{}{patientID}

	if pg.Cursor != "" {
		cur, err := pagination.DecodeCursor(pg.Cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid cursor: %w", err)
		}
		args = append(args, cur.At, cur.ID)
		query += fmt.Sprintf(` AND (a.appointment_date, a.id) < ($%d::date, $%d)`, len(args)-1, len(args))
		args = append(args, pg.Limit)
		query += fmt.Sprintf(` ORDER BY a.appointment_date DESC, a.id DESC LIMIT $%d`, len(args))
	} else {
		args = append(args, pg.Limit, pg.Offset)
		query += fmt.Sprintf(` ORDER BY a.appointment_date DESC, a.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientView
	for rows.Next() {
		var v PatientView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.PatientName, &v.AppointmentDate, &v.Slot, &v.Mode,
			&v.Reason, &v.Symptoms, &v.Status, &v.PaymentStatus, &v.ConsultationFee, &v.TransactionID,
			&v.Notes, &v.Prescription, &v.FollowUpDate, &v.BookingKey, &v.CreatedBy, &v.UpdatedBy,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Doctor.ID, &v.Doctor.Name, &v.Doctor.Specialization, &v.Doctor.ConsultationFee); err != nil {
			return nil, 0, err
		}
		items = append(items, &v)
	}
	return items, total, rows.Err()
}

const doctorViewCols = `a.id, a.patient_id, a.doctor_id, a.patient_name, a.appointment_date, a.slot, a.mode,
	a.reason, a.symptoms, a.status, a.payment_status, a.consultation_fee, a.transaction_id,
	a.notes, a.prescription, a.follow_up_date, a.booking_key, a.created_by, a.updated_by,
	a.created_at, a.updated_at,
	p.id, p.name, p.age, p.gender, p.phone`

func (r *repoPG) ListForDoctor(ctx context.Context, doctorID uuid.UUID, pg pagination.Params) ([]*DoctorView, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + doctorViewCols + `
		FROM appointments a
		JOIN users p ON p.id = a.patient_id
		WHERE a.doctor_id = $1`
	args := []interface{}{doctorID}

	if pg.Cursor != "" {
		cur, err := pagination.DecodeCursor(pg.Cursor)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid cursor: %w", err)
		}
		args = append(args, cur.At, cur.ID)
		query += fmt.Sprintf(` AND (a.appointment_date, a.id) > ($%d::date, $%d)`, len(args)-1, len(args))
		args = append(args, pg.Limit)
		query += fmt.Sprintf(` ORDER BY a.appointment_date ASC, a.id ASC LIMIT $%d`, len(args))
	} else {
		args = append(args, pg.Limit, pg.Offset)
		query += fmt.Sprintf(` ORDER BY a.appointment_date ASC, a.id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorView
	for rows.Next() {
		var v DoctorView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.PatientName, &v.AppointmentDate, &v.Slot, &v.Mode,
			&v.Reason, &v.Symptoms, &v.Status, &v.PaymentStatus, &v.ConsultationFee, &v.TransactionID,
			&v.Notes, &v.Prescription, &v.FollowUpDate, &v.BookingKey, &v.CreatedBy, &v.UpdatedBy,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Patient.ID, &v.Patient.Name, &v.Patient.Age, &v.Patient.Gender, &v.Patient.Phone); err != nil {
			return nil, 0, err
		}
		items = append(items, &v)
	}
	return items, total, rows.Err()
}
