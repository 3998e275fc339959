package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ProfileEntry is a profile without its log.
type ProfileEntry struct {
	ID               string    `json:"id"`
	Label            string    `json:"label"`
	IsOwner          bool      `json:"isOwner"`
	Active           bool      `json:"active"`
	TransactionCount int       `json:"transactionCount"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

type ProfileListResponse struct {
	ActiveID string         `json:"activeId"`
	OwnerID  string         `json:"ownerId"`
	Profiles []ProfileEntry `json:"profiles"`
}

// CreateProfileRequest carries transactions in snapshot form; every row is
// validated before the profile is stored.
type CreateProfileRequest struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Transactions []json.RawMessage `json:"transactions" swaggertype:"array,object"`
}

type SwitchProfileRequest struct {
	ID string `json:"id"`
}

type SwitchProfileResponse struct {
	ActiveID     string               `json:"activeId"`
	Transactions []models.Transaction `json:"transactions"`
}

// ListProfiles godoc
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Success 200 {object} ProfileListResponse
// @Router /api/profiles [get]
func (c *Controller) ListProfiles(ctx *gin.Context) {
	active := c.profiles.ActiveID()
	all := c.profiles.Profiles()

	entries := make([]ProfileEntry, 0, len(all))
	for _, p := range all {
		entries = append(entries, ProfileEntry{
			ID:               p.ID,
			Label:            p.Label,
			IsOwner:          p.IsOwner,
			Active:           p.ID == active,
			TransactionCount: len(p.Transactions),
			LastUpdated:      p.LastUpdated,
		})
	}
	ctx.JSON(http.StatusOK, ProfileListResponse{
		ActiveID: active,
		OwnerID:  c.profiles.OwnerID(),
		Profiles: entries,
	})
}

// CreateProfile godoc
// @Summary Store a profile
// @Description Add or replace a non-owner profile; the active profile does not change
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body CreateProfileRequest true "Profile"
// @Success 201 {object} models.Profile
// @Failure 400 {object} ImportErrorResponse
// @Failure 409 {object} APIError
// @Router /api/profiles [post]
func (c *Controller) CreateProfile(ctx *gin.Context) {
	var req CreateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		badRequest(ctx, "id is required")
		return
	}

	txs, err := snapshot.Validate(req.Transactions)
	if err != nil {
		var verr *snapshot.ValidationError
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusBadRequest, ImportErrorResponse{
				APIError: APIError{Error: "invalid transactions", Details: err.Error()},
				Rows:     verr.Rows,
			})
			return
		}
		badRequestWithDetails(ctx, "invalid transactions", err.Error())
		return
	}

	p, err := c.ledger.StoreProfile(req.ID, req.Label, txs)
	if err != nil {
		if errors.Is(err, ledger.ErrOwnerProfileWrite) {
			conflict(ctx, err.Error())
			return
		}
		c.logger.Error("failed to store profile", "profile_id", req.ID, "error", err)
		internalError(ctx, "failed to store profile")
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

// SwitchProfile godoc
// @Summary Switch the active profile
// @Description An unknown id becomes active with an empty log
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body SwitchProfileRequest true "Profile id"
// @Success 200 {object} SwitchProfileResponse
// @Failure 400 {object} APIError
// @Router /api/profiles/active [put]
func (c *Controller) SwitchProfile(ctx *gin.Context) {
	var req SwitchProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		badRequest(ctx, "id is required")
		return
	}

	txs := c.ledger.SwitchProfile(req.ID)
	ctx.JSON(http.StatusOK, SwitchProfileResponse{ActiveID: req.ID, Transactions: txs})
}

// DeleteProfile godoc
// @Summary Remove a profile
// @Description Removing the owner profile is a silent no-op
// @Tags profiles
// @Param id path string true "Profile ID"
// @Success 204
// @Router /api/profiles/{id} [delete]
func (c *Controller) DeleteProfile(ctx *gin.Context) {
	if err := c.ledger.RemoveProfile(ctx.Param("id")); err != nil {
		c.logger.Error("failed to remove profile", "profile_id", ctx.Param("id"), "error", err)
		internalError(ctx, "failed to remove profile")
		return
	}
	ctx.Status(http.StatusNoContent)
}
