package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chapterquiz-server/models"
	"chapterquiz-server/service"
)

// Root is a liveness greeting.
// GET /
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Hello, from the chapter quiz server!"})
	}
}

// Signup registers a chapter lead.
// POST /signup
func Signup(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		user, err := svc.Signup(c.Request.Context(), req.Email, req.ChapterName)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.NewUserResponse(user))
	}
}

// Signin looks a user up by email.
// POST /signin, POST /api/signin
func Signin(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		user, err := svc.Signin(c.Request.Context(), req.Email)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.NewUserResponse(user))
	}
}

// UploadQuiz stores or replaces the submission of an email.
// POST /upload
func UploadQuiz(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if _, ok := req.ClassName(); !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid request body: missing 'class_'"})
			return
		}
		if err := svc.UploadQuiz(c.Request.Context(), req); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Quiz submission saved successfully"})
	}
}

// BulkUpload appends anonymous submissions for a chapter.
// POST /bulk-upload
func BulkUpload(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BulkUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		n, err := svc.BulkUpload(c.Request.Context(), req.Chapter, req.School, req.Submissions)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: bulkMessage(n)})
	}
}

// CheckMail reports whether a quiz submission exists for an email.
// POST /check-mail
func CheckMail(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		exists, err := svc.CheckMail(c.Request.Context(), req.Email)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ExistsResponse{Exists: exists})
	}
}

// EmailData returns every submission of an email.
// POST /email-data
func EmailData(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		data, err := svc.EmailData(c.Request.Context(), req.Email)
		if err != nil {
			writeError(c, err)
			return
		}
		log.Printf("Retrieved quiz data for: %s", req.Email)
		c.JSON(http.StatusOK, models.EmailDataResponse{Data: data})
	}
}

// SendOTP mails a one-time code.
// POST /send-otp
func SendOTP(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		msg, err := svc.SendOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: msg})
	}
}

// SendPDF records an uploaded PDF and mails it. Mail failures come back as a
// 200 with the failure in the message.
// POST /send-pdf (multipart: file, email)
func SendPDF(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Missing 'email'"})
			return
		}
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: "Missing 'file'"})
			return
		}
		f, err := header.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			writeError(c, err)
			return
		}

		msg, err := svc.SendPDF(c.Request.Context(), header.Filename, content, email)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: msg})
	}
}

// UpdateObservation upserts a chapter observation.
// POST /update-observation
func UpdateObservation(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ObservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if err := svc.UpdateObservation(c.Request.Context(), req.Chapter, req.Data); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Observation data added or updated"})
	}
}

// ChapterData returns the aggregated statistics of the caller's chapter.
// POST /chapter-data
func ChapterData(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChapterDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		data, err := svc.ChapterData(c.Request.Context(), req.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}
