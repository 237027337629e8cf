package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const userCols = `id, name, email, password_hash, role, phone, profile_picture,
	is_active, is_verified,
	blood_group, age, gender, allergies, chronic_conditions, address,
	specialization, qualification, experience, consultation_fee, license_number,
	about, clinic_address, available_slots, consultation_modes, languages,
	rating, total_reviews, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone, &u.ProfilePicture,
		&u.IsActive, &u.IsVerified,
		&u.BloodGroup, &u.Age, &u.Gender, &u.Allergies, &u.ChronicConditions, &u.Address,
		&u.Specialization, &u.Qualification, &u.Experience, &u.ConsultationFee, &u.LicenseNumber,
		&u.About, &u.ClinicAddress, &u.AvailableSlots, &u.ConsultationModes, &u.Languages,
		&u.Rating, &u.TotalReviews, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, phone, profile_picture,
			blood_group, age, gender, allergies, chronic_conditions, address,
			specialization, qualification, experience, consultation_fee, license_number,
			about, clinic_address, available_slots, consultation_modes, languages)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.ProfilePicture,
		u.BloodGroup, u.Age, u.Gender, u.Allergies, u.ChronicConditions, u.Address,
		u.Specialization, u.Qualification, u.Experience, u.ConsultationFee, u.LicenseNumber,
		u.About, u.ClinicAddress, u.AvailableSlots, u.ConsultationModes, u.Languages)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = lower($1)`, email))
}

// setClause accumulates a dynamic UPDATE ... SET list.
type setClause struct {
	parts []string
	args  []interface{}
}

func (s *setClause) add(col string, val interface{}) {
	s.args = append(s.args, val)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (r *repoPG) applyUpdate(ctx context.Context, id uuid.UUID, set *setClause) (*User, error) {
	if len(set.parts) == 0 {
		return r.GetByID(ctx, id)
	}
	query := `UPDATE users SET `
	for i, p := range set.parts {
		if i > 0 {
			query += ", "
		}
		query += p
	}
	set.args = append(set.args, id)
	query += fmt.Sprintf(", updated_at = NOW() WHERE id = $%d RETURNING %s", len(set.args), userCols)
	return scanUser(r.pool.QueryRow(ctx, query, set.args...))
}

func (r *repoPG) ApplyPatientUpdate(ctx context.Context, id uuid.UUID, upd *PatientProfileUpdate) (*User, error) {
	set := &setClause{}
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Phone != nil {
		set.add("phone", *upd.Phone)
	}
	if upd.ProfilePicture != nil {
		set.add("profile_picture", *upd.ProfilePicture)
	}
	if upd.BloodGroup != nil {
		set.add("blood_group", *upd.BloodGroup)
	}
	if upd.Age != nil {
		set.add("age", *upd.Age)
	}
	if upd.Gender != nil {
		set.add("gender", *upd.Gender)
	}
	if upd.Allergies != nil {
		set.add("allergies", *upd.Allergies)
	}
	if upd.ChronicConditions != nil {
		set.add("chronic_conditions", *upd.ChronicConditions)
	}
	if upd.Address != nil {
		set.add("address", upd.Address)
	}
	return r.applyUpdate(ctx, id, set)
}

func (r *repoPG) ApplyDoctorUpdate(ctx context.Context, id uuid.UUID, upd *DoctorProfileUpdate) (*User, error) {
	set := &setClause{}
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Phone != nil {
		set.add("phone", *upd.Phone)
	}
	if upd.ProfilePicture != nil {
		set.add("profile_picture", *upd.ProfilePicture)
	}
	if upd.Specialization != nil {
		set.add("specialization", *upd.Specialization)
	}
	if upd.Qualification != nil {
		set.add("qualification", *upd.Qualification)
	}
	if upd.Experience != nil {
		set.add("experience", *upd.Experience)
	}
	if upd.ConsultationFee != nil {
		set.add("consultation_fee", *upd.ConsultationFee)
	}
	if upd.LicenseNumber != nil {
		set.add("license_number", *upd.LicenseNumber)
	}
	if upd.About != nil {
		set.add("about", *upd.About)
	}
	if upd.ClinicAddress != nil {
		set.add("clinic_address", upd.ClinicAddress)
	}
	if upd.AvailableSlots != nil {
		set.add("available_slots", *upd.AvailableSlots)
	}
	if upd.ConsultationModes != nil {
		set.add("consultation_modes", *upd.ConsultationModes)
	}
	if upd.Languages != nil {
		set.add("languages", *upd.Languages)
	}
	return r.applyUpdate(ctx, id, set)
}

func (r *repoPG) ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'doctor'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM users WHERE role = 'doctor' ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

func (r *repoPG) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = NOW(), is_active = TRUE WHERE id = $1`, id)
	return err
}

func (r *repoPG) RemoveSlot(ctx context.Context, doctorID uuid.UUID, slot string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET available_slots = array_remove(available_slots, $2), updated_at = NOW()
		WHERE id = $1`, doctorID, slot)
	return err
}

func (r *repoPG) RestoreSlot(ctx context.Context, doctorID uuid.UUID, slot string) error {
	// Guarded append keeps the operation idempotent.
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET available_slots = array_append(available_slots, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(available_slots))`, doctorID, slot)
	return err
}
