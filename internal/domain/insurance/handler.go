package insurance

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/auth"
	"github.com/dsutherland23/dentist-saas-sub004/internal/platform/query"
	"github.com/dsutherland23/dentist-saas-sub004/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	edit := auth.RequireCapability("insurance:edit", auth.CanCreateEditInsurance)
	verify := auth.RequireCapability("eligibility:verify", auth.CanVerifyEligibility)
	viewElig := auth.RequireCapability("eligibility:view", auth.CanViewEligibility)
	submit := auth.RequireCapability("claim:submit", auth.CanSubmitClaim)
	remit := auth.RequireCapability("remittance:process", auth.CanProcessRemittance)
	estimate := auth.RequireCapability("estimator:view", auth.CanViewEstimator)

	api.GET("/insurance/policies", h.ListPolicies, viewElig)
	api.GET("/insurance/policies/:id", h.GetPolicy, viewElig)
	api.POST("/insurance/policies", h.CreatePolicy, edit)
	api.PUT("/insurance/policies/:id", h.UpdatePolicy, edit)
	api.DELETE("/insurance/policies/:id", h.DeletePolicy, edit)

	api.GET("/insurance/policies/:id/eligibility", h.ListEligibility, viewElig)
	api.POST("/insurance/policies/:id/eligibility", h.RecordEligibility, verify)

	api.POST("/insurance/policies/:id/estimate", h.EstimatePolicy, estimate)
	api.POST("/insurance/estimate", h.EstimateRaw, estimate)

	api.GET("/insurance/claims", h.ListClaims, viewElig)
	api.GET("/insurance/claims/:id", h.GetClaim, viewElig)
	api.POST("/insurance/claims", h.CreateClaim, edit)
	api.DELETE("/insurance/claims/:id", h.DeleteClaim, edit)
	api.POST("/insurance/claims/:id/submit", h.SubmitClaim, submit)
	api.PUT("/insurance/claims/:id/status", h.ChangeClaimStatus, submit)

	api.GET("/insurance/claims/:id/remittances", h.ListRemittances, viewElig)
	api.POST("/insurance/claims/:id/remittances", h.RecordRemittance, remit)
}

// =========== Policies ===========

func (h *Handler) CreatePolicy(c echo.Context) error {
	var p Policy
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePolicy(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPolicy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPolicy(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPolicies(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.SearchPolicies(c.Request().Context(), query.FromRequest(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePolicy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Policy
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePolicy(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePolicy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePolicy(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// =========== Eligibility ===========

func (h *Handler) RecordEligibility(c echo.Context) error {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ec EligibilityCheck
	if err := c.Bind(&ec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ec.PolicyID = policyID
	if ec.VerifiedBy == "" {
		if uid, ok := c.Get("jwt_user_id").(string); ok {
			ec.VerifiedBy = uid
		}
	}
	if err := h.svc.RecordEligibility(c.Request().Context(), &ec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ec)
}

func (h *Handler) ListEligibility(c echo.Context) error {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEligibility(c.Request().Context(), policyID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// =========== Estimation ===========

type estimateRequest struct {
	Fee float64 `json:"fee"`
}

func (h *Handler) EstimatePolicy(c echo.Context) error {
	policyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	out, err := h.svc.EstimatePolicy(c.Request().Context(), policyID, req.Fee)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

// EstimateRaw runs the estimator on caller-supplied numbers without touching
// any stored policy. Useful for what-if quoting at the front desk.
func (h *Handler) EstimateRaw(c echo.Context) error {
	var in EstimateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, Estimate(in))
}

// =========== Claims ===========

type createClaimRequest struct {
	Claim
	Items []*ClaimItem `json:"items"`
}

type claimResponse struct {
	*Claim
	Items []*ClaimItem `json:"items"`
}

func (h *Handler) CreateClaim(c echo.Context) error {
	var req createClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateClaim(c.Request().Context(), &req.Claim, req.Items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, claimResponse{Claim: &req.Claim, Items: req.Items})
}

func (h *Handler) GetClaim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cl, items, err := h.svc.GetClaim(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.JSON(http.StatusOK, claimResponse{Claim: cl, Items: items})
}

func (h *Handler) ListClaims(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.SearchClaims(c.Request().Context(), query.FromRequest(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteClaim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteClaim(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SubmitClaim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cl, err := h.svc.SubmitClaim(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cl)
}

type claimStatusRequest struct {
	Status       string  `json:"status"`
	DenialReason *string `json:"denial_reason,omitempty"`
}

func (h *Handler) ChangeClaimStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req claimStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl, err := h.svc.ChangeClaimStatus(c.Request().Context(), id, req.Status, req.DenialReason)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cl)
}

// =========== Remittances ===========

func (h *Handler) RecordRemittance(c echo.Context) error {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var rem Remittance
	if err := c.Bind(&rem); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rem.ClaimID = claimID
	cl, err := h.svc.RecordRemittance(c.Request().Context(), &rem)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"remittance": rem,
		"claim":      cl,
	})
}

func (h *Handler) ListRemittances(c echo.Context) error {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRemittances(c.Request().Context(), claimID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
