package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"grievance-management-api/config"
	"grievance-management-api/models"
	"grievance-management-api/services"
	"grievance-management-api/utils"
)

var (
	workflowEngine *services.WorkflowEngine
	engineOnce     sync.Once
)

// getEngine lazily wires the workflow engine over the shared DB handle.
func getEngine() *services.WorkflowEngine {
	engineOnce.Do(func() {
		workflowEngine = services.NewWorkflowEngine(
			services.NewGormComplaintStore(config.DB),
			services.NewDBNotifier(config.DB),
		)
	})
	return workflowEngine
}

// currentActor builds the workflow actor from the authenticated request.
func currentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("userName"); ok {
		if name, ok := v.(string); ok {
			actor.Name = name
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.WorkRole); ok {
			actor.Role = role
		}
	}
	if v, ok := c.Get("department"); ok {
		if dept, ok := v.(models.Department); ok {
			actor.Department = dept
		}
	}
	return actor
}

func complaintIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return 0, false
	}
	return uint(id), true
}

func writeAuditLog(c *gin.Context, action string, complaint *models.Complaint, values map[string]interface{}, description string) {
	userID, _ := c.Get("userID")
	uid, _ := userID.(int)

	serialized, _ := json.Marshal(values)
	audit := models.AuditLog{
		UserID:      uid,
		Action:      action,
		EntityType:  "complaint",
		NewValues:   ptr(string(serialized)),
		Description: ptr(description),
		IPAddress:   c.ClientIP(),
		CreateAt:    time.Now(),
	}
	if complaint != nil {
		entityID := complaint.ComplaintID
		audit.EntityID = &entityID
		if complaint.TrackingID != "" {
			tracking := complaint.TrackingID
			audit.EntityNumber = &tracking
		}
	}
	if ua := strings.TrimSpace(c.GetHeader("User-Agent")); ua != "" {
		audit.UserAgent = &ua
	}

	// Audit is best-effort; the workflow change is already committed.
	if err := config.DB.Create(&audit).Error; err != nil {
		log.Printf("audit log write failed (action=%s): %v", action, err)
	}
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type CreateComplaintRequest struct {
	ComplainantName  string   `json:"complainant_name" binding:"required"`
	Subject          string   `json:"subject" binding:"required"`
	IncidentDate     string   `json:"incident_date"`
	Details          string   `json:"details" binding:"required"`
	Department       string   `json:"department" binding:"required"`
	Premises         string   `json:"premises"`
	Location         string   `json:"location"`
	SpecificLocation string   `json:"specific_location"`
	Emergency        bool     `json:"emergency"`
	ImagesBefore     []string `json:"images_before"`
	VideosBefore     []string `json:"videos_before"`
}

// CreateComplaint registers a new complaint in RAISED status and notifies the
// estate roles of the target department.
func CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department := models.Department(strings.ToUpper(strings.TrimSpace(req.Department)))
	if !department.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department must be one of CIVIL, ELECTRICAL, IT"})
		return
	}

	imagesBefore, ok := utils.SanitizePathList(req.ImagesBefore)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image path"})
		return
	}
	videosBefore, ok := utils.SanitizePathList(req.VideosBefore)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video path"})
		return
	}

	complaint := models.Complaint{
		TrackingID:       uuid.NewString(),
		ComplainantName:  utils.SanitizeInput(req.ComplainantName),
		Subject:          utils.SanitizeInput(req.Subject),
		Details:          utils.SanitizeInput(req.Details),
		Department:       department,
		Premises:         utils.SanitizeInput(req.Premises),
		Location:         utils.SanitizeInput(req.Location),
		SpecificLocation: utils.SanitizeInput(req.SpecificLocation),
		Emergency:        req.Emergency,
		Status:           models.StatusRaised,
		ImagesBefore:     imagesBefore,
		VideosBefore:     videosBefore,
		CreateAt:         time.Now(),
	}

	if req.IncidentDate != "" {
		if t, err := time.Parse("2006-01-02", req.IncidentDate); err == nil {
			complaint.IncidentDate = &t
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incident date must be YYYY-MM-DD"})
			return
		}
	}

	if err := config.DB.Create(&complaint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}

	services.NewDBNotifier(config.DB).Notify(
		complaint.ComplaintID,
		complaint.Subject,
		complaint.Status,
		services.CreationMessage(complaint.Department),
	)

	writeAuditLog(c, "create", &complaint, map[string]interface{}{
		"department": complaint.Department,
		"emergency":  complaint.Emergency,
	}, "Complaint created")

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Complaint registered successfully",
		"complaint": complaint,
	})
}

// GetComplaints lists complaints with optional status/department filters.
func GetComplaints(c *gin.Context) {
	query := config.DB.Model(&models.Complaint{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		cs := models.ComplaintStatus(strings.ToUpper(status))
		if !cs.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", cs)
	}
	if dept := strings.TrimSpace(c.Query("department")); dept != "" {
		d := models.Department(strings.ToUpper(dept))
		if !d.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department filter"})
			return
		}
		query = query.Where("department = ?", d)
	}
	if c.Query("re_raised") == "true" {
		query = query.Where("re_raised = ?", true)
	}
	if c.Query("emergency") == "true" {
		query = query.Where("emergency = ?", true)
	}

	var complaints []models.Complaint
	if err := query.Order("create_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// GetComplaint returns a single complaint with its status history.
func GetComplaint(c *gin.Context) {
	id, ok := complaintIDParam(c)
	if !ok {
		return
	}

	complaint, err := getEngine().GetComplaint(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var history []models.ComplaintStatusHistory
	config.DB.Where("complaint_id = ?", id).Order("created_at ASC").Find(&history)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"complaint": complaint,
		"history":   history,
	})
}
