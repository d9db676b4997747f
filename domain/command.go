package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageCommand is the inbound send event received on a live connection.
// Status is accepted for compatibility with older clients but never stored.
type SendMessageCommand struct {
	SenderID   string `validate:"required"`
	ReceiverID string `validate:"required"`
	Text       string
	Status     string
}

// Validate checks the payload shape only, not whether the users exist.
// maxLength <= 0 disables the length check.
func (c SendMessageCommand) Validate(maxLength int) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	if c.Status != "" {
		if _, err := ParseStatus(c.Status); err != nil {
			return err
		}
	}
	if maxLength > 0 && utf8.RuneCountInString(c.Text) > maxLength {
		return fmt.Errorf("message text exceeds %d characters", maxLength)
	}
	return nil
}
