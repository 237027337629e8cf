package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/medibook/internal/platform/auth"
)

type Service struct {
	users  Repository
	tokens *auth.Issuer
}

func NewService(users Repository, tokens *auth.Issuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Phone == "" || in.Role == "" {
		return nil, "", ErrValidation
	}
	if !validRoles[in.Role] {
		return nil, "", fmt.Errorf("%w: role must be patient or doctor", ErrValidation)
	}
	if len(in.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Token(u.ID.String(), u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrBadCredentials
	}

	token, err := s.tokens.Token(u.ID.String(), u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	_ = s.users.TouchLastLogin(ctx, u.ID)
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdatePatientProfile applies a typed partial update to a patient account.
func (s *Service) UpdatePatientProfile(ctx context.Context, id uuid.UUID, upd *PatientProfileUpdate) (*User, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no valid fields provided", ErrValidation)
	}
	if upd.BloodGroup != nil && !validBloodGroups[*upd.BloodGroup] {
		return nil, fmt.Errorf("%w: invalid blood group %q", ErrValidation, *upd.BloodGroup)
	}
	if upd.Gender != nil && !validGenders[*upd.Gender] {
		return nil, fmt.Errorf("%w: invalid gender %q", ErrValidation, *upd.Gender)
	}
	if upd.Age != nil && (*upd.Age < 0 || *upd.Age > 120) {
		return nil, fmt.Errorf("%w: age out of range", ErrValidation)
	}
	return s.users.ApplyPatientUpdate(ctx, id, upd)
}

// UpdateDoctorProfile applies a typed partial update to a doctor account.
func (s *Service) UpdateDoctorProfile(ctx context.Context, id uuid.UUID, upd *DoctorProfileUpdate) (*User, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no valid fields provided", ErrValidation)
	}
	if upd.ConsultationFee != nil && *upd.ConsultationFee < 0 {
		return nil, fmt.Errorf("%w: consultation fee cannot be negative", ErrValidation)
	}
	if upd.Experience != nil && (*upd.Experience < 0 || *upd.Experience > 60) {
		return nil, fmt.Errorf("%w: experience out of range", ErrValidation)
	}
	if upd.AvailableSlots != nil {
		slots := make([]string, 0, len(*upd.AvailableSlots))
		for _, sl := range *upd.AvailableSlots {
			sl = strings.TrimSpace(sl)
			if sl != "" {
				slots = append(slots, sl)
			}
		}
		*upd.AvailableSlots = slots
	}
	return s.users.ApplyDoctorUpdate(ctx, id, upd)
}

// ListDoctors returns doctor accounts for the public directory listing.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.ListDoctors(ctx, limit, offset)
}

// GetDoctor returns a doctor account, failing with ErrNotFound for ids that
// exist but do not hold the doctor role.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsDoctor() {
		return nil, ErrNotFound
	}
	return u, nil
}
