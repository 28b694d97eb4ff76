// internal/workers/qa/answer-question/models.go
package answerquestion

import "github.com/BalRam15/Assignment-qa-services/internal/models"

type Input struct {
	Question string `json:"question"`
	// Messages, when non-nil, is answered against instead of the upstream collection.
	Messages []models.Message `json:"messages,omitempty"`
}

type Output struct {
	Answer          string `json:"answer"`
	Intent          string `json:"intent"`
	Subject         string `json:"subject,omitempty"`
	Location        string `json:"location,omitempty"`
	Found           bool   `json:"found"`
	MessagesScanned int    `json:"messagesScanned"`
	Source          string `json:"source"`
}
