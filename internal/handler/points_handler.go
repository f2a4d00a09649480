package handler

import (
	"net/http"

	"souqy/internal/domain"
	"souqy/internal/middleware"
	"souqy/internal/service"

	"github.com/gin-gonic/gin"
)

// PointsHandler is the subject-facing half of the ledger: balances,
// withdrawal asks and point requests for the authenticated caller.
type PointsHandler struct {
	pointsSvc *service.PointsService
}

func NewPointsHandler(pointsSvc *service.PointsService) *PointsHandler {
	return &PointsHandler{pointsSvc: pointsSvc}
}

// callerSubject derives the ledger subject from the authenticated identity.
func callerSubject(c *gin.Context) (domain.Subject, bool) {
	subject := domain.Subject{ID: middleware.GetUserID(c), Type: middleware.GetRole(c)}
	if !subject.Valid() {
		c.JSON(http.StatusForbidden, gin.H{"error": "no points account for this role"})
		return domain.Subject{}, false
	}
	return subject, true
}

// GetBalance returns the caller's account and ten most recent transactions.
func (h *PointsHandler) GetBalance(c *gin.Context) {
	subject, ok := callerSubject(c)
	if !ok {
		return
	}
	acct, txs, err := h.pointsSvc.Balance(subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"points":              acct,
		"recent_transactions": txs,
	})
}

func (h *PointsHandler) RequestWithdrawal(c *gin.Context) {
	subject, ok := callerSubject(c)
	if !ok {
		return
	}
	var req struct {
		PointsAmount     int64  `json:"points_amount"`
		WithdrawalMethod string `json:"withdrawal_method"`
		AccountDetails   string `json:"account_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	w, err := h.pointsSvc.RequestWithdrawal(subject, req.PointsAmount, req.WithdrawalMethod, req.AccountDetails)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "withdrawal request submitted successfully",
		"request_id":    w.ID,
		"points_amount": w.PointsAmount,
		"status":        w.Status,
		"submitted_at":  w.CreatedAt,
	})
}

func (h *PointsHandler) SubmitPointRequest(c *gin.Context) {
	subject, ok := callerSubject(c)
	if !ok {
		return
	}
	var req struct {
		RequestType        string `json:"request_type"`
		PointsAmount       int64  `json:"points_amount"`
		Reason             string `json:"reason"`
		SupportingEvidence string `json:"supporting_evidence"`
		AdditionalDetails  string `json:"additional_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	pr, err := h.pointsSvc.SubmitPointRequest(subject, req.RequestType, req.PointsAmount,
		req.Reason, req.SupportingEvidence, req.AdditionalDetails)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "point request submitted successfully",
		"request_id": pr.ID,
		"status":     pr.Status,
	})
}

func (h *PointsHandler) ListMyPointRequests(c *gin.Context) {
	subject, ok := callerSubject(c)
	if !ok {
		return
	}
	page, limit := pagination(c)
	reqs, total, err := h.pointsSvc.ListPointRequests(subject, c.Query("status"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(reqs, page, limit, total))
}
