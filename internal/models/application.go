package models

import "time"

// StudentApplicationStatus tracks the administrator-driven review of a
// student application. Status never gates authentication; only the
// identity's approval flag does.
type StudentApplicationStatus string

const (
	StudentStatusSubmitted StudentApplicationStatus = "SUBMITTED"
	StudentStatusInReview  StudentApplicationStatus = "IN_REVIEW"
	StudentStatusApproved  StudentApplicationStatus = "APPROVED"
	StudentStatusAccepted  StudentApplicationStatus = "ACCEPTED"
	StudentStatusRejected  StudentApplicationStatus = "REJECTED"
)

// Valid reports whether the value is a known student status.
func (s StudentApplicationStatus) Valid() bool {
	switch s {
	case StudentStatusSubmitted, StudentStatusInReview, StudentStatusApproved, StudentStatusAccepted, StudentStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo implements the student review state machine:
// SUBMITTED -> IN_REVIEW -> APPROVED -> ACCEPTED, with REJECTED
// reachable from any non-terminal review state.
func (s StudentApplicationStatus) CanTransitionTo(next StudentApplicationStatus) bool {
	switch s {
	case StudentStatusSubmitted:
		return next == StudentStatusInReview
	case StudentStatusInReview:
		return next == StudentStatusApproved || next == StudentStatusRejected
	case StudentStatusApproved:
		return next == StudentStatusAccepted || next == StudentStatusRejected
	}
	return false
}

// LecturerApplicationStatus tracks the review of a lecturer
// application, which may include an interview stage.
type LecturerApplicationStatus string

const (
	LecturerStatusSubmitted LecturerApplicationStatus = "SUBMITTED"
	LecturerStatusInReview  LecturerApplicationStatus = "IN_REVIEW"
	LecturerStatusInterview LecturerApplicationStatus = "INTERVIEW"
	LecturerStatusApproved  LecturerApplicationStatus = "APPROVED"
	LecturerStatusRejected  LecturerApplicationStatus = "REJECTED"
)

// Valid reports whether the value is a known lecturer status.
func (s LecturerApplicationStatus) Valid() bool {
	switch s {
	case LecturerStatusSubmitted, LecturerStatusInReview, LecturerStatusInterview, LecturerStatusApproved, LecturerStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo implements the lecturer review state machine. The
// interview stage is optional; IN_REVIEW may resolve directly.
func (s LecturerApplicationStatus) CanTransitionTo(next LecturerApplicationStatus) bool {
	switch s {
	case LecturerStatusSubmitted:
		return next == LecturerStatusInReview
	case LecturerStatusInReview:
		return next == LecturerStatusInterview || next == LecturerStatusApproved || next == LecturerStatusRejected
	case LecturerStatusInterview:
		return next == LecturerStatusApproved || next == LecturerStatusRejected
	}
	return false
}

// StudentApplication is the admission submission owned 1:1 by an
// unapproved student identity. The three specialty choices, where
// present, must be pairwise distinct; deleting a specialty nulls the
// reference at the store level.
type StudentApplication struct {
	ID             string                   `db:"id" json:"id"`
	UserID         string                   `db:"user_id" json:"user_id"`
	EGN            string                   `db:"egn" json:"egn"`
	DateOfBirth    time.Time                `db:"date_of_birth" json:"date_of_birth"`
	Phone          string                   `db:"phone" json:"phone"`
	Address        string                   `db:"address" json:"address"`
	HighSchool     string                   `db:"high_school" json:"high_school"`
	GPA            float64                  `db:"gpa" json:"gpa"`
	Certificates   string                   `db:"certificates" json:"certificates,omitempty"`
	FirstChoiceID  *string                  `db:"first_choice_id" json:"first_choice_id,omitempty"`
	SecondChoiceID *string                  `db:"second_choice_id" json:"second_choice_id,omitempty"`
	ThirdChoiceID  *string                  `db:"third_choice_id" json:"third_choice_id,omitempty"`
	Motivation     string                   `db:"motivation" json:"motivation,omitempty"`
	ExtraInfo      string                   `db:"extra_info" json:"extra_info,omitempty"`
	Consent        bool                     `db:"consent" json:"consent"`
	Status         StudentApplicationStatus `db:"status" json:"status"`
	CreatedAt      time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time                `db:"updated_at" json:"updated_at"`
}

// SpecialtyChoices returns the non-nil choices in priority order.
func (a *StudentApplication) SpecialtyChoices() []string {
	var out []string
	for _, c := range []*string{a.FirstChoiceID, a.SecondChoiceID, a.ThirdChoiceID} {
		if c != nil && *c != "" {
			out = append(out, *c)
		}
	}
	return out
}

// LecturerApplication is the hiring submission owned 1:1 by an
// unapproved lecturer identity. The referenced job posting is
// required; deleting the posting cascades into the application.
type LecturerApplication struct {
	ID                   string                    `db:"id" json:"id"`
	UserID               string                    `db:"user_id" json:"user_id"`
	Title                string                    `db:"title" json:"title"`
	Department           string                    `db:"department" json:"department"`
	EducationPath        string                    `db:"education_path" json:"education_path"`
	Certifications       string                    `db:"certifications" json:"certifications,omitempty"`
	Memberships          string                    `db:"memberships" json:"memberships,omitempty"`
	TeachingExperience   string                    `db:"teaching_experience" json:"teaching_experience,omitempty"`
	CoursesTaught        string                    `db:"courses_taught" json:"courses_taught,omitempty"`
	ResearchPublications string                    `db:"research_publications" json:"research_publications,omitempty"`
	JobPostingID         string                    `db:"job_posting_id" json:"job_posting_id"`
	MotivationGoals      string                    `db:"motivation_goals" json:"motivation_goals,omitempty"`
	DocumentNotes        string                    `db:"document_notes" json:"document_notes,omitempty"`
	StatementOfTruth     bool                      `db:"statement_of_truth" json:"statement_of_truth"`
	Status               LecturerApplicationStatus `db:"status" json:"status"`
	CreatedAt            time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time                 `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter captures criteria for admin application listings.
type ApplicationFilter struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}
