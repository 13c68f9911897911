package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-management-api/models"
)

func TestDispatchEmailsDoesNotBlockCaller(t *testing.T) {
	gate := make(chan struct{})
	delivered := make(chan string, 4)

	orig := sendMail
	sendMail = func(to []string, subject, html string) error {
		<-gate
		delivered <- strings.Join(to, ",")
		return nil
	}
	defer func() { sendMail = orig }()

	targets := []emailTarget{
		{Address: "estate.officer@example.edu", Name: "Estate Officer"},
		{Address: "civil.je@example.edu", Name: "Asha Verma"},
	}

	// Sends are gated shut, so this returns only if delivery runs off the
	// calling goroutine.
	dispatchEmails(targets, "Complaint #1: Leaking pipe", "work done", models.StatusJEWorkDone)

	close(gate)

	got := make(map[string]bool)
	for i := 0; i < len(targets); i++ {
		select {
		case addr := <-delivered:
			got[addr] = true
		case <-time.After(5 * time.Second):
			t.Fatal("email was never delivered")
		}
	}
	assert.True(t, got["estate.officer@example.edu"])
	assert.True(t, got["civil.je@example.edu"])
}

func TestDispatchEmailsSkipsEmptyTargetList(t *testing.T) {
	called := false
	orig := sendMail
	sendMail = func(to []string, subject, html string) error {
		called = true
		return nil
	}
	defer func() { sendMail = orig }()

	dispatchEmails(nil, "Complaint #1", "msg", models.StatusRaised)
	assert.False(t, called)
}

func TestSendMailSafeSwallowsErrors(t *testing.T) {
	orig := sendMail
	sendMail = func(to []string, subject, html string) error {
		return assert.AnError
	}
	defer func() { sendMail = orig }()

	// Must not panic or propagate.
	sendMailSafe([]string{"someone@example.edu"}, "subject", "<p>body</p>")
}

func TestNotificationEmailEscapesContent(t *testing.T) {
	html := buildNotificationEmailHTML("Complaint #1: <script>", "A & B", "x < y", models.StatusResolved)
	require.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "A &amp; B")
	assert.Contains(t, html, "Dear")
}

func TestNotificationType(t *testing.T) {
	assert.Equal(t, "success", notificationType(models.StatusResolved))
	assert.Equal(t, "warning", notificationType(models.StatusTerminated))
	assert.Equal(t, "error", notificationType(models.StatusCRNotSatisfied))
	assert.Equal(t, "info", notificationType(models.StatusRaised))
}
