package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Student statuses
const (
	StatusActive      = "Active"
	StatusInactive    = "Inactive"
	StatusTransferred = "Transferred"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Fee statuses
const (
	FeePending = "pending"
	FeePartial = "partial"
	FeePaid    = "paid"
	FeeOverdue = "overdue"
)

var StudentStatuses = []string{StatusActive, StatusInactive, StatusTransferred}

type Student struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	AdmissionNumber string `json:"admission_number"`
	SectionID       int    `json:"section_id"`
	Status          string `json:"status,omitempty"`
	Gender          string `json:"gender,omitempty"`
	DateOfBirth     Date   `json:"date_of_birth"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianPhone   string `json:"guardian_phone,omitempty"`
	AdmissionDate   Date   `json:"admission_date"`
}

func (s Student) IsActive() bool {
	return s.Status == "" || s.Status == StatusActive
}

type Section struct {
	ID          int    `json:"id"`
	ClassID     int    `json:"class_id"`
	Name        string `json:"name"`
	MaxStudents int    `json:"max_students"`
	TeacherID   *int   `json:"teacher_id,omitempty"`
}

type Class struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Level        int       `json:"level"`
	AcademicYear string    `json:"academic_year"`
	Sections     []Section `json:"sections,omitempty"`
}

// HasSection reports whether the Section identified by id belongs to the Class.
func (c Class) HasSection(id int) bool {
	for _, sec := range c.Sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

type Teacher struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Status   string   `json:"status,omitempty"`
}

type Exam struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	ClassID      int     `json:"class_id"`
	Subject      string  `json:"subject"`
	TotalMarks   float64 `json:"total_marks"`
	PassingMarks float64 `json:"passing_marks"`
	ExamDate     Date    `json:"exam_date"`
}

// ExamResult is one student's result for one exam.
// Percentage is supplied by the store and is never recomputed from the marks.
type ExamResult struct {
	ID            int     `json:"id,omitempty"`
	ExamID        int     `json:"exam_id"`
	StudentID     int     `json:"student_id"`
	MarksObtained float64 `json:"marks_obtained"`
	Percentage    float64 `json:"percentage"`
	Grade         *string `json:"grade,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

type AttendanceRecord struct {
	ID        int    `json:"id,omitempty"`
	StudentID int    `json:"student_id"`
	SectionID int    `json:"section_id,omitempty"`
	Date      Date   `json:"date"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks,omitempty"`
}

// AttendanceStats is a student's attendance rolled up over a date window.
type AttendanceStats struct {
	StudentID            int     `json:"student_id"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	LateDays             int     `json:"late_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type AttendanceReport struct {
	ClassID  int               `json:"class_id"`
	From     Date              `json:"from"`
	To       Date              `json:"to"`
	Students []AttendanceStats `json:"students"`
}

type Fee struct {
	ID         int     `json:"id"`
	StudentID  int     `json:"student_id"`
	Title      string  `json:"title"`
	Amount     float64 `json:"amount"`
	AmountPaid float64 `json:"amount_paid"`
	DueDate    Date    `json:"due_date"`
	Status     string  `json:"status"`
}

// Balance is what remains to be paid.
func (f Fee) Balance() float64 {
	if b := f.Amount - f.AmountPaid; b > 0 {
		return b
	}
	return 0
}

type Payment struct {
	ID     int     `json:"id"`
	FeeID  int     `json:"fee_id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	PaidOn Date    `json:"paid_on"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Write payloads

// NewStudent contains information needed to admit a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required,alphanum_"`
	SectionID       int    `json:"section_id" validate:"required,gt=0"`
	Gender          string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	DateOfBirth     Date   `json:"date_of_birth"`
	GuardianName    string `json:"guardian_name,omitempty"`
	GuardianPhone   string `json:"guardian_phone,omitempty" validate:"omitempty,e164"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AdmissionNumber = core.CleanString(ns.AdmissionNumber)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianPhone = core.CleanString(ns.GuardianPhone)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name          string `json:"name,omitempty"`
	SectionID     int    `json:"section_id,omitempty" validate:"omitempty,gt=0"`
	Status        string `json:"status,omitempty" validate:"omitempty,studentstatus"`
	GuardianName  string `json:"guardian_name,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty" validate:"omitempty,e164"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Status = core.CleanString(us.Status)
	us.GuardianName = core.CleanString(us.GuardianName)
	us.GuardianPhone = core.CleanString(us.GuardianPhone)
	return validate.Struct(us)
}

type NewExamResult struct {
	StudentID     int     `json:"student_id" validate:"required,gt=0"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	Percentage    float64 `json:"percentage" validate:"percentage"`
	Grade         *string `json:"grade,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

func (nr NewExamResult) Validate(validate *validator.Validate) error { return validate.Struct(nr) }

type NewAttendanceRecord struct {
	StudentID int    `json:"student_id" validate:"required,gt=0"`
	SectionID int    `json:"section_id,omitempty"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks   string `json:"remarks,omitempty"`
}

func (na NewAttendanceRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}

type NewPayment struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=cash bank mobile card"`
	PaidOn string  `json:"paid_on" validate:"omitempty,datetime=2006-01-02"`
}

func (np NewPayment) Validate(validate *validator.Validate) error { return validate.Struct(np) }

// ExamGenerationRequest asks the AI service to draft an exam paper.
type ExamGenerationRequest struct {
	Subject       string   `json:"subject" validate:"required"`
	ClassLevel    int      `json:"class_level" validate:"required,gt=0"`
	Topics        []string `json:"topics,omitempty"`
	QuestionCount int      `json:"question_count" validate:"required,gt=0,lte=100"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

func (er ExamGenerationRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(er)
}

type GeneratedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Marks    float64  `json:"marks"`
}

type GeneratedExam struct {
	Title      string              `json:"title"`
	Subject    string              `json:"subject"`
	TotalMarks float64             `json:"total_marks"`
	Questions  []GeneratedQuestion `json:"questions"`
}

// WhatsAppMessage is a text message sent to one or more phone numbers.
type WhatsAppMessage struct {
	To      []string `json:"to" validate:"required,min=1,dive,e164"`
	Message string   `json:"message" validate:"required"`
}

func (wm WhatsAppMessage) Validate(validate *validator.Validate) error {
	return validate.Struct(wm)
}

type WhatsAppStatus struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

type LoginResponse struct {
	Token string `json:"token"`
	User  Me     `json:"user"`
}

// Me is the authenticated account as reported by the store.
type Me struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// DashboardStats are the headline counters of the school dashboard.
type DashboardStats struct {
	TotalStudents   int     `json:"total_students"`
	TotalTeachers   int     `json:"total_teachers"`
	TotalClasses    int     `json:"total_classes"`
	AttendanceToday float64 `json:"attendance_today"`
	FeesCollected   float64 `json:"fees_collected"`
	FeesOutstanding float64 `json:"fees_outstanding"`
	UpcomingExams   int     `json:"upcoming_exams"`
}
