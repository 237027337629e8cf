package directory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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

func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/auth/signup", h.SignUp)
	public.POST("/auth/login", h.Login)

	authed.GET("/auth/check", h.CheckAuth)
	authed.PATCH("/users/update-profile", h.UpdateProfile)
	authed.GET("/doctors", h.ListDoctors)
	authed.GET("/doctors/:id", h.GetDoctor)
}

func (h *Handler) SignUp(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	user, token, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Account created successfully", envelope.M{
		"userData": user,
		"token":    token,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	user, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Login successful", envelope.M{
		"userData": user,
		"token":    token,
	})
}

func (h *Handler) CheckAuth(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	user, err := h.svc.Get(ctx, id)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "", envelope.M{"user": user})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}

	var user *User
	switch auth.RoleFromContext(ctx) {
	case RoleDoctor:
		var upd DoctorProfileUpdate
		if err := c.Bind(&upd); err != nil {
			return envelope.Fail(c, "invalid request body")
		}
		user, err = h.svc.UpdateDoctorProfile(ctx, id, &upd)
	default:
		var upd PatientProfileUpdate
		if err := c.Bind(&upd); err != nil {
			return envelope.Fail(c, "invalid request body")
		}
		user, err = h.svc.UpdatePatientProfile(ctx, id, &upd)
	}
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Profile updated successfully", envelope.M{"user": user})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "", envelope.M{
		"doctors": doctors,
		"total":   total,
	})
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return envelope.Fail(c, "invalid doctor id")
	}
	doctor, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return envelope.Fail(c, "Doctor not found")
	}
	return envelope.OK(c, "", envelope.M{"doctor": doctor})
}
