package gmmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDisabled(t *testing.T) {
	sender := New(Config{})
	assert.NoError(t, sender.Send(Message{To: []string{"a@b.c"}, Subject: "x"}))

	sender = New(Config{Enabled: true})
	assert.NoError(t, sender.Send(Message{To: []string{"a@b.c"}, Subject: "x"}))
}

func TestSendNoRecipients(t *testing.T) {
	sender := New(Config{Enabled: true, Host: "smtp.example.com"})
	assert.Error(t, sender.Send(Message{Subject: "x"}))
}

func TestRenderContactNotify(t *testing.T) {
	html, err := renderTemplate(contactNotifyTpl, ContactNotifyData{
		SiteName:  "Gopal Metals",
		Name:      "John Doe",
		Email:     "john@example.com",
		Company:   "Acme Corp",
		Message:   "Need a quote for SS mesh",
		IPAddress: "203.0.113.10",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Gopal Metals")
	assert.Contains(t, html, "John Doe")
	assert.Contains(t, html, "mailto:john@example.com")
	assert.Contains(t, html, "Acme Corp")
	assert.Contains(t, html, "Need a quote for SS mesh")
	// Les champs optionnels vides ne laissent pas de ligne orpheline
	assert.NotContains(t, html, ">Phone<")
}

func TestRenderContactNotifyEscapesHTML(t *testing.T) {
	html, err := renderTemplate(contactNotifyTpl, ContactNotifyData{
		Name:    "<script>alert(1)</script>",
		Email:   "a@b.c",
		Message: "hi",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
