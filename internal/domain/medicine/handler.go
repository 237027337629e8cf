package medicine

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

// RegisterRoutes wires the catalog under /medicines. Reads are open to any
// authenticated user; writes are restricted to doctors.
func (h *Handler) RegisterRoutes(authed *echo.Group) {
	g := authed.Group("/medicines")
	doctorOnly := auth.RequireRole(directory.RoleDoctor)

	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, doctorOnly)
	g.PATCH("/:id", h.Update, doctorOnly)
	g.DELETE("/:id", h.Delete, doctorOnly)
	g.PATCH("/reduce-stock/use", h.ReduceStock, doctorOnly)
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	med, err := h.svc.Create(c.Request().Context(), userID, in)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Medicine added", envelope.M{"medicine": med})
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}
	pg := pagination.FromContext(c)
	meds, total, err := h.svc.List(c.Request().Context(), f, pg)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "", envelope.M{
		"medicines": meds,
		"total":     total,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return envelope.Fail(c, "invalid medicine id")
	}
	med, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "", envelope.M{"medicine": med})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return envelope.Fail(c, "invalid medicine id")
	}
	var upd Update
	if err := c.Bind(&upd); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	med, err := h.svc.Update(c.Request().Context(), id, &upd)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Medicine updated", envelope.M{"medicine": med})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return envelope.Fail(c, "invalid medicine id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Medicine removed", nil)
}

func (h *Handler) ReduceStock(c echo.Context) error {
	var in struct {
		MedicineID string `json:"medicineId"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.Bind(&in); err != nil {
		return envelope.Fail(c, "invalid request body")
	}
	id, err := uuid.Parse(in.MedicineID)
	if err != nil {
		return envelope.Fail(c, "invalid medicine id")
	}
	med, err := h.svc.ReduceStock(c.Request().Context(), id, in.Quantity)
	if err != nil {
		return envelope.Fail(c, err.Error())
	}
	return envelope.OK(c, "Stock updated", envelope.M{"medicine": med})
}
