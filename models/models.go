package models

import "encoding/json"

// AllChapters is the reserved chapter value meaning "render every chapter".
const AllChapters = "ALL_Chapter"

// QuestionCount and RideCount fix the shape of a quiz: thirteen questions,
// each answered as a 0/1 sequence over seven rides.
const (
	QuestionCount = 13
	RideCount     = 7
)

// User is created on signup and never changes afterwards.
type User struct {
	Email     string `json:"email"`
	UserID    string `json:"user_id"`
	Chapter   string `json:"chapter"`
	CreatedAt string `json:"created_at"`
}

// QuizSubmission is one respondent's answers. Email is the key; a re-upload
// for the same email overwrites the stored record.
type QuizSubmission struct {
	Email     string `json:"email"`
	Chapter   string `json:"chapter"`
	Name      string `json:"name"`
	School    string `json:"school"`
	Class     string `json:"class"`
	Q1        []int  `json:"q1"`
	Q2        []int  `json:"q2"`
	Q3        []int  `json:"q3"`
	Q4        []int  `json:"q4"`
	Q5        []int  `json:"q5"`
	Q6        []int  `json:"q6"`
	Q7        []int  `json:"q7"`
	Q8        []int  `json:"q8"`
	Q9        []int  `json:"q9"`
	Q10       []int  `json:"q10"`
	Q11       []int  `json:"q11"`
	Q12       []int  `json:"q12"`
	Q13       []int  `json:"q13"`
	C1        int    `json:"c1"`
	C2        int    `json:"c2"`
	C3        int    `json:"c3"`
	C4        int    `json:"c4"`
	C5        int    `json:"c5"`
	CreatedAt string `json:"created_at"`
}

// Question returns the answer sequence for question n (1-based). Out of range
// numbers return nil.
func (s QuizSubmission) Question(n int) []int {
	switch n {
	case 1:
		return s.Q1
	case 2:
		return s.Q2
	case 3:
		return s.Q3
	case 4:
		return s.Q4
	case 5:
		return s.Q5
	case 6:
		return s.Q6
	case 7:
		return s.Q7
	case 8:
		return s.Q8
	case 9:
		return s.Q9
	case 10:
		return s.Q10
	case 11:
		return s.Q11
	case 12:
		return s.Q12
	case 13:
		return s.Q13
	default:
		return nil
	}
}

// SetAnswers copies the per-question sequences and scalar fields of a.
func (s *QuizSubmission) SetAnswers(a Answers) {
	s.Q1, s.Q2, s.Q3, s.Q4, s.Q5 = a.Q1, a.Q2, a.Q3, a.Q4, a.Q5
	s.Q6, s.Q7, s.Q8, s.Q9, s.Q10 = a.Q6, a.Q7, a.Q8, a.Q9, a.Q10
	s.Q11, s.Q12, s.Q13 = a.Q11, a.Q12, a.Q13
	s.C1, s.C2, s.C3, s.C4, s.C5 = a.C1, a.C2, a.C3, a.C4, a.C5
}

// Answers is the answer payload shared by single and bulk uploads.
type Answers struct {
	Q1  []int `json:"q1" binding:"required"`
	Q2  []int `json:"q2" binding:"required"`
	Q3  []int `json:"q3" binding:"required"`
	Q4  []int `json:"q4" binding:"required"`
	Q5  []int `json:"q5" binding:"required"`
	Q6  []int `json:"q6" binding:"required"`
	Q7  []int `json:"q7" binding:"required"`
	Q8  []int `json:"q8" binding:"required"`
	Q9  []int `json:"q9" binding:"required"`
	Q10 []int `json:"q10" binding:"required"`
	Q11 []int `json:"q11" binding:"required"`
	Q12 []int `json:"q12" binding:"required"`
	Q13 []int `json:"q13" binding:"required"`
	C1  int   `json:"c1"`
	C2  int   `json:"c2"`
	C3  int   `json:"c3"`
	C4  int   `json:"c4"`
	C5  int   `json:"c5"`
}

// ChapterObservation holds free-form commentary for a chapter. Data is kept
// verbatim.
type ChapterObservation struct {
	Chapter   string          `json:"chapter"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt string          `json:"updated_at"`
}

// PdfRecord is an append-only log entry of a delivered PDF. Content is hex text.
type PdfRecord struct {
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	Email      string `json:"email"`
	UploadedAt string `json:"uploaded_at"`
}

// AdminEvent is one entry of the admin activity log.
type AdminEvent struct {
	Action    string `json:"action"`
	Actor     string `json:"actor"`
	Target    string `json:"target"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// --- Aggregation output ---

// RideStats tallies one ride position of one question.
type RideStats struct {
	Ones  int `json:"ones"`
	Zeros int `json:"zeros"`
	Total int `json:"total"`
}

// QuestionStats is the per-question block of a chapter report.
type QuestionStats struct {
	TotalSubmissions int                  `json:"total_submissions"`
	Rides            map[string]RideStats `json:"rides"`
}

// ChapterData is the combined statistics and observation of one chapter.
type ChapterData struct {
	Chapter          string                   `json:"chapter"`
	TotalSubmissions int                      `json:"total_submissions"`
	QuestionStats    map[string]QuestionStats `json:"question_stats"`
	Observation      json.RawMessage          `json:"observation"`
}

// AllChapterData is returned for the ALL_Chapter sentinel.
type AllChapterData struct {
	Chapter  string                 `json:"chapter"`
	Chapters map[string]ChapterData `json:"chapters"`
}

// --- API requests ---

// SignUpRequest for POST /signup
type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ChapterName string `json:"chapter_name" binding:"required"`
}

// SignInRequest for POST /signin
type SignInRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// EmailRequest for POST /check-mail and POST /email-data
type EmailRequest struct {
	Email string `json:"email"`
}

// UploadRequest for POST /upload. Clients send the class as "class_"; "class"
// is accepted too. Empty strings are valid values.
type UploadRequest struct {
	Email    string  `json:"email"`
	Chapter  string  `json:"chapter"`
	Name     string  `json:"name"`
	School   string  `json:"school"`
	Class    *string `json:"class"`
	ClassAlt *string `json:"class_"`
	Answers
}

// ClassName returns the submitted class under either spelling and whether
// one of the two keys was sent at all.
func (r UploadRequest) ClassName() (string, bool) {
	if r.Class != nil {
		return *r.Class, true
	}
	if r.ClassAlt != nil {
		return *r.ClassAlt, true
	}
	return "", false
}

// BulkUploadRequest for POST /bulk-upload
type BulkUploadRequest struct {
	Chapter     string    `json:"chapter" binding:"required"`
	School      string    `json:"school" binding:"required"`
	Submissions []Answers `json:"submissions" binding:"required,dive"`
}

// SendOTPRequest for POST /send-otp
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ObservationRequest for POST /update-observation. Validation of the two
// fields happens in the service so that falsy data is rejected too.
type ObservationRequest struct {
	Chapter string          `json:"chapter"`
	Data    json.RawMessage `json:"data"`
}

// ChapterDataRequest for POST /chapter-data
type ChapterDataRequest struct {
	UserID string `json:"user_id"`
}

// --- API responses ---

// UserResponse is the public view of a User.
type UserResponse struct {
	Email   string `json:"email"`
	UserID  string `json:"user_id"`
	Chapter string `json:"chapter"`
}

// NewUserResponse drops the internal fields of u.
func NewUserResponse(u User) UserResponse {
	return UserResponse{Email: u.Email, UserID: u.UserID, Chapter: u.Chapter}
}

// MessageResponse is the generic {"message": ...} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExistsResponse for POST /check-mail
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// EmailDataResponse for POST /email-data
type EmailDataResponse struct {
	Data []QuizSubmission `json:"data"`
}

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// --- Ingestion ---

// ChapterYAML for parsing chapter.yaml in an ingestion directory
type ChapterYAML struct {
	Chapter string `yaml:"chapter"`
	School  string `yaml:"school"`
}

// --- Admin ---

// ChapterSummary is one row of the admin dashboard table.
type ChapterSummary struct {
	Chapter          string
	TotalSubmissions int
	HasObservation   bool
	Registered       bool
}

// Overview aggregates record-set sizes for the admin dashboard.
type Overview struct {
	Users        int
	Submissions  int
	Observations int
	PdfFiles     int
	Chapters     []ChapterSummary
	RecentEvents []AdminEvent // newest first
}
