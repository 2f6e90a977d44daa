// Admin HTTP handlers.
//
//   - GET /admin/audit   (recent moderation entries, newest first)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/utils"
)

// AuditResponse wraps recent admin log entries.
type AuditResponse struct {
	Entries []domain.AdminLog `json:"entries"`
}

// ListAudit godoc
// @ID          listAudit
// @Summary     Recent moderation actions
// @Description Approvals and rejections recorded by the audit sink, newest first.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query  int  false  "Max entries (1..500)"  default(100)
// @Success     200  {object}  handlers.AuditResponse
// @Failure     403  {object}  handlers.ErrorResponse "Admin only"
// @Router      /admin/audit [get]
func (h *Handlers) ListAudit(c *gin.Context) {
	if h.audit == nil {
		ok(c, http.StatusOK, AuditResponse{Entries: []domain.AdminLog{}})
		return
	}
	limit := utils.LimitParam(c.Query("limit"), 100, 500)
	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list audit entries")
		return
	}
	if entries == nil {
		entries = []domain.AdminLog{}
	}
	ok(c, http.StatusOK, AuditResponse{Entries: entries})
}
