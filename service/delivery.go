package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"

	"chapterquiz-server/mailer"
	"chapterquiz-server/metrics"
	"chapterquiz-server/models"
)

const (
	msgOTPSent = "OTP sent successfully"
	msgPDFSent = "PDF sent successfully"
)

// SendOTP mails otp to email. A gateway failure is an Internal error whose
// detail names the reason.
func (s *Service) SendOTP(ctx context.Context, email, otp string) (string, error) {
	log.Printf("Attempting to send OTP to: %s", email)
	err := s.mail.Send(ctx, mailer.OTPMessage(email, otp, s.opts.OTPSignature))
	metrics.MailSends.WithLabelValues("otp", metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("Failed to send OTP to: %s, error: %v", email, err)
		return "", &Error{Kind: KindInternal, Detail: fmt.Sprintf("Failed to send OTP: %v", err), Err: err}
	}
	log.Printf("OTP sent successfully to: %s", email)
	return msgOTPSent, nil
}

// SendPDF records the file in the pdf log and mails it to email. A mail
// failure does not fail the call: it comes back as the returned message.
// Only store errors are returned as errors.
func (s *Service) SendPDF(ctx context.Context, filename string, content []byte, email string) (string, error) {
	entry := models.PdfRecord{
		Filename:   filename,
		Content:    hex.EncodeToString(content),
		Email:      email,
		UploadedAt: s.timestamp(),
	}
	if err := s.store.PdfFiles.Append(ctx, entry); err != nil {
		return "", fmt.Errorf("send pdf: %w", err)
	}

	attachment, err := hex.DecodeString(entry.Content)
	if err != nil {
		return "", fmt.Errorf("send pdf: decode stored content: %w", err)
	}
	result := msgPDFSent
	sendErr := s.mail.Send(ctx, mailer.PDFMessage(email, attachment, s.opts.PDFSignature))
	metrics.MailSends.WithLabelValues("pdf", metrics.Outcome(sendErr)).Inc()
	if sendErr != nil {
		result = fmt.Sprintf("Failed to send PDF: %v", sendErr)
	}
	log.Printf("PDF sent to: %s, result: %s", email, result)
	return result, nil
}
