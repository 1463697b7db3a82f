package models

import "time"

// Review statuses a question moves through during moderation.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// RevisionRecord is one immutable entry in a question's update history.
type RevisionRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Changes   map[string]any `json:"changes"`
	UpdatedBy string         `json:"updated_by,omitempty"`
}

// Question represents a trivia question record.
// QuestionID never changes after creation; UpdateHistory is append-only.
type Question struct {
	QuestionID       string           `json:"question_id"`
	Question         string           `json:"question"`
	Answer           string           `json:"answer"`
	IncorrectAnswers []string         `json:"incorrect_answers,omitempty"`
	QuestionTopic    string           `json:"question_topic,omitempty"`
	QuestionSource   string           `json:"question_source,omitempty"`
	AnswerSource     string           `json:"answer_source,omitempty"`
	Language         string           `json:"language,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	MediaURL         string           `json:"media_url,omitempty"`
	ReviewStatus     string           `json:"review_status"`
	TimesAsked       int              `json:"times_asked"`
	TimesCorrect     int              `json:"times_correct"`
	TimesIncorrect   int              `json:"times_incorrect"`
	AddedBy          string           `json:"added_by"`
	AddedAt          time.Time        `json:"added_at"`
	LastUpdatedAt    time.Time        `json:"last_updated_at"`
	UpdateHistory    []RevisionRecord `json:"update_history,omitempty"`
}
