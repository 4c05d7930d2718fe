package mailer

import "fmt"

// PDFAttachmentName is the filename every delivered PDF carries, whatever
// the uploaded name was.
const PDFAttachmentName = "document.pdf"

// OTPMessage renders the one-time code email.
func OTPMessage(to, otp, signature string) Message {
	return Message{
		To:      to,
		Subject: "Your OTP Code",
		Body:    fmt.Sprintf("Hi,\n\nYour OTP is: %s\n\nThanks,\n%s", otp, signature),
	}
}

// PDFMessage renders the PDF delivery email with content attached.
func PDFMessage(to string, content []byte, signature string) Message {
	return Message{
		To:      to,
		Subject: "Your PDF File",
		Body:    fmt.Sprintf("Hi,\n\nPlease find the attached PDF.\n\nThanks! from %s", signature),
		Attachment: &Attachment{
			Filename: PDFAttachmentName,
			Content:  content,
		},
	}
}
