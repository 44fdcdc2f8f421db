package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactMessage(t *testing.T) {
	msg := ContactMessage("keeper@example.com", "Jaina", "jaina@example.com", "Loved the latest post!")

	assert.Equal(t, "keeper@example.com", msg.To)
	assert.Equal(t, "jaina@example.com", msg.ReplyTo)
	assert.Equal(t, "The Hearth Contact Form Submission", msg.Subject)
	assert.Contains(t, msg.Body, "Jaina has tried to contact you.")
	assert.Contains(t, msg.Body, "They sent the message: Loved the latest post!")
	assert.Contains(t, msg.Body, "send an email to jaina@example.com")
}

func TestPasswordResetMessage(t *testing.T) {
	link := "https://hearth.example.com/reset-password?token=abc"
	msg := PasswordResetMessage("jaina@example.com", link)

	assert.Equal(t, "jaina@example.com", msg.To)
	assert.Empty(t, msg.ReplyTo)
	assert.Equal(t, "The Hearth Password Reset", msg.Subject)
	assert.Contains(t, msg.Body, link)
	assert.Contains(t, msg.Body, "within one hour")
}
