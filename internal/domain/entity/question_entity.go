package entity

import "time"

// Question is owned by its creator; CreatedBy never changes after creation.
type Question struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Answer references exactly one question. IsAccepted is part of the public
// shape but no operation sets it.
type Answer struct {
	ID         string
	QuestionID string
	Content    string
	CreatedBy  string
	IsAccepted bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Insight is a manager-authored summary tied to a question.
type Insight struct {
	ID         string
	QuestionID string
	Summary    string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
