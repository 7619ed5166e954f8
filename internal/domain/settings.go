package domain

import "fmt"

// ErrEmptySettingKey is returned when a setting key is blank.
var ErrEmptySettingKey = fmt.Errorf("%w: setting key cannot be empty", ErrInvalidInput)

// DefaultSettings are seeded into the settings store when missing.
var DefaultSettings = map[string]string{
	"ui_lang":           "hu",
	"answer_language":   "hu",
	"theme":             "dark",
	"manual_mode":       "0",
	"translation_style": "precise",
	"default_gpt_mode":  "exam",
}
