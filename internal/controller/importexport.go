package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/profile"
	"github.com/ramazansancar/stock-cost-calculator/internal/repo"
	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"
	repotypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// maxImportSize bounds an uploaded snapshot.
const maxImportSize = 10 << 20

type ImportResponse struct {
	ledger.ImportResult
	Prompt string `json:"prompt,omitempty"`
}

// ImportErrorResponse lists every offending row of a rejected snapshot.
type ImportErrorResponse struct {
	APIError
	Rows []snapshot.RowError `json:"rows,omitempty"`
}

type ShareResponse struct {
	URL string `json:"url"`
}

type SharedRequest struct {
	URL string `json:"url"`
}

type SharedResponse struct {
	Added   bool            `json:"added"`
	Profile *models.Profile `json:"profile,omitempty"`
	URL     string          `json:"url"`
}

// ExportSnapshot godoc
// @Summary Export the active profile
// @Description Download the active profile as a snapshot file
// @Tags data
// @Produce json
// @Success 200 {object} snapshot.Snapshot
// @Router /api/export [get]
func (c *Controller) ExportSnapshot(ctx *gin.Context) {
	s := c.ledger.Export()
	data, err := snapshot.Marshal(s)
	if err != nil {
		c.logger.Error("failed to marshal snapshot", "error", err)
		internalError(ctx, "failed to export")
		return
	}

	filename := snapshot.ExportFilename(s.User, c.now())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, "application/json", data)
}

// ShareSnapshot godoc
// @Summary Build a share link
// @Description Encode the active profile into the data query parameter of base
// @Tags data
// @Produce json
// @Param base query string true "Base URL of the app"
// @Success 200 {object} ShareResponse
// @Failure 400 {object} APIError
// @Router /api/export/share [get]
func (c *Controller) ShareSnapshot(ctx *gin.Context) {
	base := strings.TrimSpace(ctx.Query("base"))
	if base == "" {
		badRequest(ctx, "base is required")
		return
	}

	u, err := snapshot.ShareURL(base, c.ledger.Export())
	if err != nil {
		badRequestWithDetails(ctx, "invalid base url", err.Error())
		return
	}
	ctx.JSON(http.StatusOK, ShareResponse{URL: u})
}

// ImportSnapshot godoc
// @Summary Import a snapshot
// @Description Import raw JSON or base64 from the body, or a multipart file. A replace over a non-empty log is staged and answered with 202.
// @Tags data
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param mode query string false "replace (default), append or view"
// @Param file formData file false "Snapshot file"
// @Success 200 {object} ImportResponse
// @Success 202 {object} ImportResponse
// @Failure 400 {object} ImportErrorResponse
// @Failure 409 {object} APIError
// @Router /api/import [post]
func (c *Controller) ImportSnapshot(ctx *gin.Context) {
	mode, err := ledger.ParseMode(ctx.Query("mode"))
	if err != nil {
		badRequestWithDetails(ctx, "invalid mode", err.Error())
		return
	}

	payload, source, err := readPayload(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	res, err := c.ledger.Import(payload, mode, source)
	if err != nil {
		var verr *snapshot.ValidationError
		switch {
		case errors.As(err, &verr):
			ctx.JSON(http.StatusBadRequest, ImportErrorResponse{
				APIError: APIError{Error: "invalid snapshot", Details: err.Error()},
				Rows:     verr.Rows,
			})
		case errors.Is(err, snapshot.ErrMalformedSnapshot):
			badRequestWithDetails(ctx, "invalid snapshot", err.Error())
		case errors.Is(err, ledger.ErrViewOwnProfile):
			conflict(ctx, err.Error())
		case errors.Is(err, profile.ErrProfileNotFound):
			notFound(ctx, "active profile not found")
		default:
			c.logger.Error("import failed", "mode", mode, "error", err)
			internalError(ctx, "import failed")
		}
		return
	}

	resp := ImportResponse{ImportResult: res}
	status := http.StatusOK
	if res.Pending != nil {
		resp.Prompt = res.Pending.Prompt()
		status = http.StatusAccepted
	}
	ctx.JSON(status, resp)
}

func readPayload(ctx *gin.Context) (string, string, error) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		file, _, err := ctx.Request.FormFile("file")
		if err != nil {
			return "", "", errors.New("file is required")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			return "", "", errors.New("failed to read file")
		}
		return string(data), ledger.SourceFile, nil
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportSize))
	if err != nil {
		return "", "", errors.New("failed to read body")
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", "", errors.New("payload is required")
	}
	return string(data), ledger.SourceText, nil
}

// PendingImport godoc
// @Summary Show the staged import
// @Tags data
// @Produce json
// @Success 200 {object} ImportResponse
// @Failure 404 {object} APIError
// @Router /api/import/pending [get]
func (c *Controller) PendingImport(ctx *gin.Context) {
	p := c.ledger.Pending()
	if p == nil {
		notFound(ctx, "no pending import")
		return
	}
	ctx.JSON(http.StatusOK, ImportResponse{
		ImportResult: ledger.ImportResult{Mode: ledger.ModeReplace, Pending: p},
		Prompt:       p.Prompt(),
	})
}

// ConfirmImport godoc
// @Summary Confirm a staged replace
// @Tags data
// @Param id path string true "Pending import ID"
// @Success 204
// @Failure 404 {object} APIError
// @Failure 409 {object} APIError
// @Router /api/import/pending/{id}/confirm [post]
func (c *Controller) ConfirmImport(ctx *gin.Context) {
	err := c.ledger.Confirm(ctx.Param("id"))
	switch {
	case err == nil:
		ctx.Status(http.StatusNoContent)
	case errors.Is(err, ledger.ErrNoPendingImport):
		notFound(ctx, "no pending import")
	case errors.Is(err, ledger.ErrStaleImport):
		conflict(ctx, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound):
		notFound(ctx, "active profile not found")
	default:
		c.logger.Error("failed to confirm import", "error", err)
		internalError(ctx, "failed to confirm import")
	}
}

// RejectImport godoc
// @Summary Reject a staged replace
// @Tags data
// @Param id path string true "Pending import ID"
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/import/pending/{id} [delete]
func (c *Controller) RejectImport(ctx *gin.Context) {
	if err := c.ledger.Reject(ctx.Param("id")); err != nil {
		notFound(ctx, "no pending import")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AcceptShared godoc
// @Summary Accept a share link
// @Description Store the snapshot carried by a share link as a profile and return the link without it
// @Tags data
// @Accept json
// @Produce json
// @Param body body SharedRequest true "Share link"
// @Success 200 {object} SharedResponse
// @Failure 400 {object} APIError
// @Failure 409 {object} APIError
// @Router /api/shared [post]
func (c *Controller) AcceptShared(ctx *gin.Context) {
	var req SharedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	p, cleaned, err := c.ledger.AcceptShared(req.URL)
	switch {
	case errors.Is(err, snapshot.ErrNoSharedData):
		ctx.JSON(http.StatusOK, SharedResponse{URL: cleaned})
	case errors.Is(err, ledger.ErrViewOwnProfile):
		conflict(ctx, err.Error())
	case err != nil:
		badRequestWithDetails(ctx, "invalid share link", err.Error())
	default:
		ctx.JSON(http.StatusOK, SharedResponse{Added: p != nil, Profile: p, URL: cleaned})
	}
}

// ListImportLogs godoc
// @Summary List import logs
// @Description Import attempts, newest first
// @Tags data
// @Produce json
// @Param mode query string false "replace, append or view"
// @Param status query string false "staged, applied, rejected, cancelled or failed"
// @Param owner query string false "snapshot owner"
// @Param limit query int false "maximum entries"
// @Success 200 {array} models.ImportLog
// @Router /api/imports [get]
func (c *Controller) ListImportLogs(ctx *gin.Context) {
	if c.imports == nil {
		serviceUnavailable(ctx, "import history not available")
		return
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		badRequest(ctx, "invalid limit")
		return
	}
	logs, err := c.imports.ListImportLogs(repotypes.ImportLogFilter{
		Mode:   ctx.Query("mode"),
		Status: ctx.Query("status"),
		Owner:  ctx.Query("owner"),
		Limit:  limit,
	})
	if err != nil {
		internalError(ctx, "failed to fetch import logs")
		return
	}
	ctx.JSON(http.StatusOK, logs)
}

// GetImportLog godoc
// @Summary Get import log
// @Tags data
// @Produce json
// @Param id path int true "Import log ID"
// @Success 200 {object} models.ImportLog
// @Failure 404 {object} APIError
// @Router /api/imports/{id} [get]
func (c *Controller) GetImportLog(ctx *gin.Context) {
	if c.imports == nil {
		serviceUnavailable(ctx, "import history not available")
		return
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		badRequest(ctx, "invalid id")
		return
	}

	log, err := c.imports.GetImportLogByID(id)
	switch {
	case errors.Is(err, repo.ErrImportLogNotFound):
		notFound(ctx, "import log not found")
		return
	case err != nil:
		internalError(ctx, "failed to fetch import log")
		return
	}
	ctx.JSON(http.StatusOK, log)
}
