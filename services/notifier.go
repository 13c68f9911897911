package services

import (
	"fmt"
	"html/template"
	"log"
	"time"

	"gorm.io/gorm"

	"grievance-management-api/config"
	"grievance-management-api/models"
)

// sendMail is swappable so tests can observe email dispatch without SMTP.
var sendMail = config.SendMail

// DBNotifier fans a workflow event out to the interested users: the estate
// officer and principal always, plus the engineers of the complaint's
// department. Each recipient gets a notification row; the email copies are
// dispatched in the background so a slow SMTP host never stalls the request.
// Failures are logged and swallowed; the state change is authoritative
// regardless of notification delivery.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) recipients(complaintID uint) []models.User {
	var cm models.Complaint
	if err := n.db.Select("complaint_id, department").
		Where("complaint_id = ?", complaintID).
		First(&cm).Error; err != nil {
		log.Printf("notification recipients lookup failed (complaint=%d): %v", complaintID, err)
		return nil
	}

	var users []models.User
	err := n.db.Where("delete_at IS NULL").
		Where("role IN ? OR (role IN ? AND department = ?)",
			[]models.WorkRole{models.RoleEstateOfficer, models.RolePrincipal},
			[]models.WorkRole{models.RoleJE, models.RoleAE, models.RoleEE},
			cm.Department,
		).
		Find(&users).Error
	if err != nil {
		log.Printf("notification recipients query failed (complaint=%d): %v", complaintID, err)
		return nil
	}
	return users
}

type emailTarget struct {
	Address string
	Name    string
}

func (n *DBNotifier) Notify(complaintID uint, subject string, status models.ComplaintStatus, message string) {
	related := complaintID
	title := fmt.Sprintf("Complaint #%d: %s", complaintID, subject)

	var emails []emailTarget
	for _, user := range n.recipients(complaintID) {
		row := models.Notification{
			UserID:             uint(user.UserID),
			Title:              title,
			Message:            message,
			Type:               notificationType(status),
			RelatedComplaintID: &related,
			CreateAt:           time.Now(),
		}
		if err := n.db.Create(&row).Error; err != nil {
			log.Printf("notification insert failed (complaint=%d user=%d): %v", complaintID, user.UserID, err)
			continue
		}
		if user.Email != "" {
			emails = append(emails, emailTarget{Address: user.Email, Name: user.DisplayName()})
		}
	}

	dispatchEmails(emails, title, message, status)
}

// dispatchEmails sends the email copies off the request path. The notification
// rows are already committed by the time this runs.
func dispatchEmails(targets []emailTarget, title, message string, status models.ComplaintStatus) {
	if len(targets) == 0 {
		return
	}
	go func() {
		for _, target := range targets {
			html := buildNotificationEmailHTML(title, target.Name, message, status)
			sendMailSafe([]string{target.Address}, title, html)
		}
	}()
}

func notificationType(status models.ComplaintStatus) string {
	switch status {
	case models.StatusResolved:
		return "success"
	case models.StatusTerminated, models.StatusAETerminated, models.StatusEETerminated:
		return "warning"
	case models.StatusCRNotSatisfied, models.StatusAENotSatisfied, models.StatusEENotSatisfied:
		return "error"
	default:
		return "info"
	}
}

func sendMailSafe(to []string, subject, html string) {
	if err := sendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildNotificationEmailHTML(subject, recipientName, message string, status models.ComplaintStatus) string {
	name := recipientName
	if name == "" {
		name = "User"
	}
	subject = template.HTMLEscapeString(subject)
	name = template.HTMLEscapeString(name)
	message = template.HTMLEscapeString(message)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">Dear %s,</p>
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
    <p style="margin:0;font-size:14px;line-height:1.7;color:#6b7280;">Current status: %s</p>
  </div>
</div>
</body>
</html>`, subject, name, message, status)
}
