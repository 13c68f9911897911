package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grievance-management-api/config"
	"grievance-management-api/models"
)

type statusCount struct {
	Status models.ComplaintStatus `gorm:"column:status" json:"status"`
	Count  int64                  `gorm:"column:count" json:"count"`
}

type departmentCount struct {
	Department models.Department `gorm:"column:department" json:"department"`
	Count      int64             `gorm:"column:count" json:"count"`
}

type departmentExpenditure struct {
	Department models.Department `gorm:"column:department" json:"department"`
	Total      float64           `gorm:"column:total" json:"total"`
}

// pendingPriceStatuses are the states a complaint with a deferred expenditure
// can sit in while the backfill is still outstanding. A complaint resolved
// before the price was entered stays in the metric until it is backfilled.
var pendingPriceStatuses = []models.ComplaintStatus{
	models.StatusEEAcknowledged,
	models.StatusResolved,
}

// GetDashboardStats aggregates complaint counts and expenditure for the
// overview screen.
func GetDashboardStats(c *gin.Context) {
	db := config.DB

	var byStatus []statusCount
	if err := db.Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate statuses"})
		return
	}

	var byDepartment []departmentCount
	if err := db.Model(&models.Complaint{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Scan(&byDepartment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate departments"})
		return
	}

	var expenditure []departmentExpenditure
	if err := db.Model(&models.Complaint{}).
		Select("department, COALESCE(SUM(price), 0) AS total").
		Where("is_price_entered = ?", true).
		Group("department").
		Scan(&expenditure).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate expenditure"})
		return
	}

	var pendingPrice int64
	db.Model(&models.Complaint{}).
		Where("is_price_entered = ? AND status IN ?", false, pendingPriceStatuses).
		Count(&pendingPrice)

	var emergencies int64
	db.Model(&models.Complaint{}).
		Where("emergency = ? AND status NOT IN ?", true,
			[]models.ComplaintStatus{models.StatusResolved, models.StatusTerminated}).
		Count(&emergencies)

	var reRaised int64
	db.Model(&models.Complaint{}).Where("re_raised = ?", true).Count(&reRaised)

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"by_status":           byStatus,
		"by_department":       byDepartment,
		"expenditure":         expenditure,
		"pending_price_count": pendingPrice,
		"open_emergencies":    emergencies,
		"re_raised_count":     reRaised,
	})
}
