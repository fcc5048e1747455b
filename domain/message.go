// Package domain contains core concepts of the chat relay.
// This file defines chat messages and the rules they must satisfy.
// Messages are immutable once built and validated by the domain.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FontStyle is a bit set of typeface decorations.
type FontStyle int32

const (
	Regular   FontStyle = 0
	Bold      FontStyle = 1 << 0
	Italic    FontStyle = 1 << 1
	Underline FontStyle = 1 << 2
	Strikeout FontStyle = 1 << 3
)

func (f FontStyle) Has(flag FontStyle) bool { return f&flag == flag }

func (f FontStyle) String() string {
	if f == Regular {
		return "regular"
	}
	var parts []string
	for _, s := range []struct {
		flag FontStyle
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Underline, "underline"}, {Strikeout, "strikeout"}} {
		if f.Has(s.flag) {
			parts = append(parts, s.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFontStyle accepts names joined by '|' or ',' such as "bold|italic".
func ParseFontStyle(s string) (FontStyle, error) {
	var style FontStyle
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(part) {
		case "", "regular":
		case "bold":
			style |= Bold
		case "italic":
			style |= Italic
		case "underline":
			style |= Underline
		case "strikeout":
			style |= Strikeout
		default:
			return Regular, fmt.Errorf("unknown font style %q", part)
		}
	}
	return style, nil
}

// Color is an RGB triple; each channel must be within 0..255.
type Color struct {
	Red   int32 `validate:"min=0,max=255"`
	Green int32 `validate:"min=0,max=255"`
	Blue  int32 `validate:"min=0,max=255"`
}

// Style is the display metadata a client attaches to its text.
type Style struct {
	Family string    `validate:"max=64"`
	Flags  FontStyle `validate:"min=0,max=15"`
	Size   float32   `validate:"gte=0,lte=512"`
	Color  Color
}

// ChatMessage is a unit of user content relayed to every session.
type ChatMessage struct {
	SenderName string `validate:"max=256"`
	Body       string `validate:"required"`
	Style      Style
}

// WithSender returns a copy carrying name when the message has no sender of its own.
func (m ChatMessage) WithSender(name string) ChatMessage {
	if strings.TrimSpace(m.SenderName) == "" {
		m.SenderName = name
	}
	return m
}

// Validate checks the message against the structural rules and the body length limit.
// A limit of zero or less disables the length check.
func (m ChatMessage) Validate(maxLength int) error {
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: body is blank", errors.ErrInvalidMessage)
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}
	if maxLength > 0 && utf8.RuneCountInString(m.Body) > maxLength {
		return fmt.Errorf("%w: body exceeds %d characters", errors.ErrInvalidMessage, maxLength)
	}
	return nil
}
