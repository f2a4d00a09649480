package handler

import (
	"net/http"

	"souqy/internal/domain"
	"souqy/internal/middleware"
	"souqy/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminPointsHandler is the admin half of the ledger: account listings,
// workflow decisions, direct adjustments and statistics.
type AdminPointsHandler struct {
	pointsSvc *service.PointsService
}

func NewAdminPointsHandler(pointsSvc *service.PointsService) *AdminPointsHandler {
	return &AdminPointsHandler{pointsSvc: pointsSvc}
}

func (h *AdminPointsHandler) ListAccounts(c *gin.Context) {
	page, limit := pagination(c)
	rows, total, err := h.pointsSvc.ListAccounts(c.Query("search"), c.Query("subject_type"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rows, page, limit, total))
}

// GetSubjectBalance looks up any subject's balance and recent transactions.
func (h *AdminPointsHandler) GetSubjectBalance(c *gin.Context) {
	subjectType := c.Param("type")
	if !domain.ValidSubjectType(subjectType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject type must be user or advertiser"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	acct, txs, err := h.pointsSvc.Balance(domain.Subject{ID: id, Type: subjectType})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"points":              acct,
		"recent_transactions": txs,
	})
}

func (h *AdminPointsHandler) GetStats(c *gin.Context) {
	stats, err := h.pointsSvc.GetStats()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Adjust credits or debits a subject directly, bypassing the workflows.
func (h *AdminPointsHandler) Adjust(c *gin.Context) {
	var req struct {
		SubjectID       uint   `json:"subject_id"`
		SubjectType     string `json:"subject_type"`
		PointsChange    int64  `json:"points_change"`
		Reason          string `json:"reason"`
		TransactionType string `json:"transaction_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	subject := domain.Subject{ID: req.SubjectID, Type: req.SubjectType}
	acct, err := h.pointsSvc.AdminAdjust(subject, req.PointsChange, req.Reason, req.TransactionType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "points adjusted successfully",
		"subject_id":    req.SubjectID,
		"subject_type":  req.SubjectType,
		"points_change": req.PointsChange,
		"new_balance":   acct.PointsBalance,
		"reason":        req.Reason,
	})
}

func (h *AdminPointsHandler) ListWithdrawals(c *gin.Context) {
	page, limit := pagination(c)
	rows, total, err := h.pointsSvc.ListPendingWithdrawals(page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rows, page, limit, total))
}

func (h *AdminPointsHandler) ApproveWithdrawal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	_ = c.ShouldBindJSON(&req)
	w, acct, err := h.pointsSvc.ApproveWithdrawal(id, req.AdminNotes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "withdrawal request approved successfully",
		"withdrawal":  w,
		"new_balance": acct.PointsBalance,
	})
}

func (h *AdminPointsHandler) RejectWithdrawal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		AdminNotes string `json:"admin_notes"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin notes and rejection reason are required"})
		return
	}
	w, err := h.pointsSvc.RejectWithdrawal(id, req.AdminNotes, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "withdrawal request rejected successfully",
		"withdrawal": w,
	})
}

func (h *AdminPointsHandler) ListPointRequests(c *gin.Context) {
	page, limit := pagination(c)
	rows, total, err := h.pointsSvc.ListAllPointRequests(c.Query("status"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rows, page, limit, total))
}

// ProcessPointRequest applies an approve/reject/review decision.
func (h *AdminPointsHandler) ProcessPointRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Action           string `json:"action"`
		AdminNotes       string `json:"admin_notes"`
		PointsAdjustment int64  `json:"points_adjustment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	pr, acct, err := h.pointsSvc.ProcessPointRequest(id, req.Action, middleware.GetUserID(c), req.AdminNotes, req.PointsAdjustment)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{
		"message":       "point request processed successfully",
		"point_request": pr,
	}
	if acct != nil {
		resp["new_balance"] = acct.PointsBalance
	}
	c.JSON(http.StatusOK, resp)
}
