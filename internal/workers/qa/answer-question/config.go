// internal/workers/qa/answer-question/config.go
package answerquestion

import (
	"time"

	"github.com/BalRam15/Assignment-qa-services/internal/qa"
)

type Config struct {
	Timeout  time.Duration
	Location *time.Location
	// Dates replaces the natural-language date parser built from Location.
	Dates qa.DateExtractor
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		Location: time.UTC,
	}
}
