package services

import (
	"fmt"
	"strings"

	"grievance-management-api/models"
)

// Role titles used in notification messages. The IT department uses its own
// designations for the three engineering tiers.
var roleTitles = map[models.Department]map[models.WorkRole]string{
	models.DepartmentIT: {
		models.RoleJE: "System Analyst",
		models.RoleAE: "Officer in Charge",
		models.RoleEE: "Head of Office",
	},
}

var defaultRoleTitles = map[models.WorkRole]string{
	models.RoleJE:            "Junior Engineer",
	models.RoleAE:            "Assistant Engineer",
	models.RoleEE:            "Executive Engineer",
	models.RoleEstateOfficer: "Estate Officer",
	models.RolePrincipal:     "Principal",
	models.RoleComplainant:   "Complainant",
}

// RoleTitle resolves the human designation of a role within a department.
func RoleTitle(role models.WorkRole, department models.Department) string {
	if byRole, ok := roleTitles[department]; ok {
		if title, ok := byRole[role]; ok {
			return title
		}
	}
	if title, ok := defaultRoleTitles[role]; ok {
		return title
	}
	return string(role)
}

// messageTemplates maps each operation to its notification text. Placeholders
// {{JE}}, {{AE}} and {{EE}} are replaced with the department-appropriate role
// title; {{DEPT}} with the department name.
var messageTemplates = map[TransitionName]string{
	TransitionRaisedToJEAcknowledged:            "Your complaint has been ACKNOWLEDGED by the {{JE}} of the {{DEPT}} department.",
	TransitionRaisedToResourceRequired:          "The {{JE}} has reported that additional resources are required for this complaint.",
	TransitionJEAcknowledgedToJEWorkDone:        "The {{JE}} has marked the work as done. Awaiting verification.",
	TransitionCRNotSatisfiedToJEWorkDone:        "The {{JE}} has reworked the complaint and marked the work as done.",
	TransitionJEWorkDoneToAEAcknowledged:        "The work done has been approved by the {{AE}}.",
	TransitionJEWorkDoneToAENotSatisfied:        "The {{AE}} is not satisfied with the work done and has sent the complaint back.",
	TransitionJEWorkDoneToResolved:              "The complaint has been confirmed RESOLVED.",
	TransitionJEWorkDoneToCRNotSatisfied:        "The complainant is not satisfied with the work done.",
	TransitionAEAcknowledgedToEEAcknowledged:    "The expenditure has been approved by the {{EE}}.",
	TransitionAEAcknowledgedToEENotSatisfied:    "The {{EE}} is not satisfied with the work done and has sent the complaint back.",
	TransitionEEAcknowledgedToResolved:          "The complaint has been confirmed RESOLVED.",
	TransitionEEAcknowledgedToCRNotSatisfied:    "The complainant is not satisfied with the work done.",
	TransitionChangeDepartment:                  "A new complaint has been raised for the {{DEPT}} department.",
	TransitionResourceRequiredToAENotTerminated: "The {{AE}} has declined to terminate the complaint.",
	TransitionResourceRequiredToAETerminated:    "The {{AE}} has recommended terminating the complaint.",
	TransitionResourceRequiredToRaised:          "The complaint has been sent back to the {{DEPT}} department for action.",
	TransitionAENotTerminatedToRaised:           "The complaint has been re-opened for action by the {{DEPT}} department.",
	TransitionAENotTerminatedToResourceRequired: "The {{JE}} has reported again that additional resources are required.",
	TransitionAETerminatedToEENotTerminated:     "The {{EE}} has declined to terminate the complaint.",
	TransitionAETerminatedToEETerminated:        "The {{EE}} has recommended terminating the complaint.",
	TransitionEENotTerminatedToAETerminated:     "The {{AE}} has recommended terminating the complaint again.",
	TransitionEENotTerminatedToAENotTerminated:  "The {{AE}} has declined to terminate the complaint.",
	TransitionEETerminatedToTerminated:          "The complaint has been TERMINATED.",
	TransitionCRNotSatisfiedToEEAcknowledged:    "The expenditure has been re-approved by the {{EE}}.",
	TransitionAERemarkWhenCRNotSatisfied:        "The {{AE}} has added a remark to the discussion.",
	TransitionEERemarkWhenCRNotSatisfied:        "The {{EE}} has added a remark to the discussion.",
}

func applyMessagePlaceholders(text string, data map[string]string) string {
	result := text
	for key, value := range data {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// TransitionMessage builds the human notification text for an operation,
// flavored by the complaint's department.
func TransitionMessage(name TransitionName, department models.Department) string {
	tmpl, ok := messageTemplates[name]
	if !ok {
		return fmt.Sprintf("Complaint status updated (%s).", name)
	}
	return applyMessagePlaceholders(tmpl, map[string]string{
		"JE":   RoleTitle(models.RoleJE, department),
		"AE":   RoleTitle(models.RoleAE, department),
		"EE":   RoleTitle(models.RoleEE, department),
		"DEPT": string(department),
	})
}

// CreationMessage is the notification text sent to the estate roles when a
// complaint first enters the system (and again after a department change).
func CreationMessage(department models.Department) string {
	return TransitionMessage(TransitionChangeDepartment, department)
}
