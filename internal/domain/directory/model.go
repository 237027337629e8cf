package directory

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can hold.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

var validRoles = map[string]bool{
	RolePatient: true,
	RoleDoctor:  true,
}

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

var validGenders = map[string]bool{
	"Male": true, "Female": true, "Other": true,
}

// Address is a patient's home address, stored as JSONB.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

// ClinicAddress is a doctor's practice address, stored as JSONB.
type ClinicAddress struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// User maps to the users table. Role-specific fields are nullable and only
// populated for the matching role.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	Phone          string    `db:"phone" json:"phone"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`

	// Patient fields
	BloodGroup        *string  `db:"blood_group" json:"blood_group,omitempty"`
	Age               *int     `db:"age" json:"age,omitempty"`
	Gender            *string  `db:"gender" json:"gender,omitempty"`
	Allergies         []string `db:"allergies" json:"allergies,omitempty"`
	ChronicConditions []string `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Address           *Address `db:"address" json:"address,omitempty"`

	// Doctor fields
	Specialization    *string        `db:"specialization" json:"specialization,omitempty"`
	Qualification     *string        `db:"qualification" json:"qualification,omitempty"`
	Experience        *int           `db:"experience" json:"experience,omitempty"`
	ConsultationFee   *float64       `db:"consultation_fee" json:"consultation_fee,omitempty"`
	LicenseNumber     *string        `db:"license_number" json:"license_number,omitempty"`
	About             *string        `db:"about" json:"about,omitempty"`
	ClinicAddress     *ClinicAddress `db:"clinic_address" json:"clinic_address,omitempty"`
	AvailableSlots    []string       `db:"available_slots" json:"available_slots,omitempty"`
	ConsultationModes []string       `db:"consultation_modes" json:"consultation_modes,omitempty"`
	Languages         []string       `db:"languages" json:"languages,omitempty"`
	Rating            float64        `db:"rating" json:"rating"`
	TotalReviews      int            `db:"total_reviews" json:"total_reviews"`

	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsDoctor reports whether the account holds the doctor role.
func (u *User) IsDoctor() bool { return u.Role == RoleDoctor }

// PatientProfileUpdate is a typed partial update for patient accounts. Nil
// fields are left untouched; fields outside this struct cannot be updated
// through the profile endpoint at all.
type PatientProfileUpdate struct {
	Name              *string   `json:"name,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	ProfilePicture    *string   `json:"profile_picture,omitempty"`
	BloodGroup        *string   `json:"blood_group,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Gender            *string   `json:"gender,omitempty"`
	Allergies         *[]string `json:"allergies,omitempty"`
	ChronicConditions *[]string `json:"chronic_conditions,omitempty"`
	Address           *Address  `json:"address,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (p *PatientProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.ProfilePicture == nil &&
		p.BloodGroup == nil && p.Age == nil && p.Gender == nil &&
		p.Allergies == nil && p.ChronicConditions == nil && p.Address == nil
}

// DoctorProfileUpdate is a typed partial update for doctor accounts.
type DoctorProfileUpdate struct {
	Name              *string        `json:"name,omitempty"`
	Phone             *string        `json:"phone,omitempty"`
	ProfilePicture    *string        `json:"profile_picture,omitempty"`
	Specialization    *string        `json:"specialization,omitempty"`
	Qualification     *string        `json:"qualification,omitempty"`
	Experience        *int           `json:"experience,omitempty"`
	ConsultationFee   *float64       `json:"consultation_fee,omitempty"`
	LicenseNumber     *string        `json:"license_number,omitempty"`
	About             *string        `json:"about,omitempty"`
	ClinicAddress     *ClinicAddress `json:"clinic_address,omitempty"`
	AvailableSlots    *[]string      `json:"available_slots,omitempty"`
	ConsultationModes *[]string      `json:"consultation_modes,omitempty"`
	Languages         *[]string      `json:"languages,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (d *DoctorProfileUpdate) IsEmpty() bool {
	return d.Name == nil && d.Phone == nil && d.ProfilePicture == nil &&
		d.Specialization == nil && d.Qualification == nil && d.Experience == nil &&
		d.ConsultationFee == nil && d.LicenseNumber == nil && d.About == nil &&
		d.ClinicAddress == nil && d.AvailableSlots == nil &&
		d.ConsultationModes == nil && d.Languages == nil
}
