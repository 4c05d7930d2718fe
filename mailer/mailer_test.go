package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPMessage(t *testing.T) {
	msg := OTPMessage("kid@example.com", "4821", "ChotaCop Team")
	assert.Equal(t, "kid@example.com", msg.To)
	assert.Equal(t, "Your OTP Code", msg.Subject)
	assert.Equal(t, "Hi,\n\nYour OTP is: 4821\n\nThanks,\nChotaCop Team", msg.Body)
	assert.Nil(t, msg.Attachment)
}

func TestPDFMessage(t *testing.T) {
	content := []byte("%PDF-1.4")
	msg := PDFMessage("kid@example.com", content, "Crivo")
	assert.Equal(t, "Your PDF File", msg.Subject)
	assert.Equal(t, "Hi,\n\nPlease find the attached PDF.\n\nThanks! from Crivo", msg.Body)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "document.pdf", msg.Attachment.Filename)
	assert.Equal(t, content, msg.Attachment.Content)
}

func TestSMTPGatewayRequiresPassword(t *testing.T) {
	g := NewSMTPGateway(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "relay@example.com"})
	err := g.Send(context.Background(), OTPMessage("kid@example.com", "1", "x"))
	assert.ErrorIs(t, err, ErrPasswordNotSet)
	assert.Equal(t, "SMTP password not set", err.Error())
}

func TestSMTPGatewayHonoursCancelledContext(t *testing.T) {
	g := NewSMTPGateway(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Send(ctx, OTPMessage("kid@example.com", "1", "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPGatewayDefaultsSender(t *testing.T) {
	g := NewSMTPGateway(SMTPConfig{Username: "relay@example.com", Password: "p"})
	assert.Equal(t, "relay@example.com", g.cfg.From)
}
