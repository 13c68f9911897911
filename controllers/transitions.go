package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grievance-management-api/models"
	"grievance-management-api/services"
	"grievance-management-api/utils"
)

// TransitionRequest is the shared payload shape for every workflow operation;
// each transition validates the fields it actually needs.
type TransitionRequest struct {
	Remark        string   `json:"remark"`
	Price         *float64 `json:"price"`
	PriceLater    bool     `json:"price_later"`
	ImagesAfter   []string `json:"images_after"`
	VideosAfter   []string `json:"videos_after"`
	NewDepartment string   `json:"new_department"`
}

func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
	case errors.Is(err, services.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
	}
}

// TransitionHandler builds the handler for one workflow operation. The role
// gate runs before this in middleware.RequireRole, fed from
// services.AllowedRoles for the same transition name.
func TransitionHandler(name services.TransitionName) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := complaintIDParam(c)
		if !ok {
			return
		}

		var req TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}

		imagesAfter, ok := utils.SanitizePathList(req.ImagesAfter)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image path"})
			return
		}
		videosAfter, ok := utils.SanitizePathList(req.VideosAfter)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video path"})
			return
		}

		payload := services.Payload{
			Remark:        utils.SanitizeInput(req.Remark),
			Price:         req.Price,
			PriceLater:    req.PriceLater,
			ImagesAfter:   imagesAfter,
			VideosAfter:   videosAfter,
			NewDepartment: models.Department(strings.ToUpper(strings.TrimSpace(req.NewDepartment))),
		}

		result, err := getEngine().Execute(name, id, currentActor(c), payload)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		if result.Applied {
			writeAuditLog(c, "transition", result.Complaint, map[string]interface{}{
				"transition": string(name),
				"status":     result.Complaint.Status,
				"remark":     payload.Remark,
			}, result.Message)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"applied":   result.Applied,
			"message":   result.Message,
			"complaint": result.Complaint,
		})
	}
}

// EnterPrice backfills a deferred expenditure amount. Unlike the transitions
// it applies regardless of the complaint's current status.
func EnterPrice(c *gin.Context) {
	id, ok := complaintIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Price float64 `json:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := getEngine().EnterPrice(id, currentActor(c), req.Price)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	writeAuditLog(c, "price_entry", complaint, map[string]interface{}{
		"price": req.Price,
	}, "Expenditure recorded")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Expenditure recorded successfully",
		"complaint": complaint,
	})
}
