package handler

import (
	"net/http"

	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

type CaseReportHandler struct {
	svc *service.CaseReportService
}

type CreateCaseReportReq struct {
	ReportAs            string `json:"reportAs" binding:"required"`
	TypeOfAbuse         string `json:"typeOfAbuse" binding:"required"`
	VictimName          string `json:"victimName" binding:"required"`
	VictimAge           *int   `json:"victimAge" binding:"required"`
	VictimAddress       string `json:"victimAddress" binding:"required"`
	GuardianName        string `json:"guardianName" binding:"required"`
	GuardianAddress     string `json:"guardianAddress" binding:"required"`
	SuspectName         string `json:"suspectName" binding:"required"`
	SuspectAge          *int   `json:"suspectAge" binding:"required"`
	CaseSuspectRelation string `json:"caseSuspectRelation" binding:"required"`
	SuspectAddress      string `json:"suspectAddress" binding:"required"`
}

// UpdateCaseReportReq carries any subset of the report fields, status included.
type UpdateCaseReportReq struct {
	ReportAs            *string `json:"reportAs"`
	TypeOfAbuse         *string `json:"typeOfAbuse"`
	VictimName          *string `json:"victimName"`
	VictimAge           *int    `json:"victimAge"`
	VictimAddress       *string `json:"victimAddress"`
	GuardianName        *string `json:"guardianName"`
	GuardianAddress     *string `json:"guardianAddress"`
	SuspectName         *string `json:"suspectName"`
	SuspectAge          *int    `json:"suspectAge"`
	CaseSuspectRelation *string `json:"caseSuspectRelation"`
	SuspectAddress      *string `json:"suspectAddress"`
	Status              *string `json:"status"`
}

func NewCaseReportHandler(svc *service.CaseReportService) *CaseReportHandler {
	return &CaseReportHandler{svc: svc}
}

// Create files a report on behalf of the caller.
func (h *CaseReportHandler) Create(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	var req CreateCaseReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "all case report fields are required")
		return
	}

	r, err := h.svc.Create(c.Request.Context(), a.UserID, service.CaseReportInput{
		ReportAs:            req.ReportAs,
		TypeOfAbuse:         req.TypeOfAbuse,
		VictimName:          req.VictimName,
		VictimAge:           *req.VictimAge,
		VictimAddress:       req.VictimAddress,
		GuardianName:        req.GuardianName,
		GuardianAddress:     req.GuardianAddress,
		SuspectName:         req.SuspectName,
		SuspectAge:          *req.SuspectAge,
		CaseSuspectRelation: req.CaseSuspectRelation,
		SuspectAddress:      req.SuspectAddress,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// List returns all reports; admins only.
func (h *CaseReportHandler) List(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), a)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListByUser returns the reports filed by :userId.
func (h *CaseReportHandler) ListByUser(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	list, err := h.svc.ListByUser(c.Request.Context(), a, userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one report.
func (h *CaseReportHandler) Get(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.GetByID(c.Request.Context(), a, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update is both the field update and the status transition.
func (h *CaseReportHandler) Update(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCaseReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	r, err := h.svc.Update(c.Request.Context(), a, id, service.CaseReportPatch(req))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete removes a report.
func (h *CaseReportHandler) Delete(c *gin.Context) {
	a, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), a, id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "case report deleted"})
}
