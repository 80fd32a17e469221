package codegen

import (
	"errors"
	"fmt"

	"github.com/vk/meepgen/internal/section"
)

// ErrNonFinite is reported when a NaN reaches the emitter.
var ErrNonFinite = errors.New("non-finite number")

// GenerationError is the failure of one section generator.
type GenerationError struct {
	Section section.Section
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generate %s: %s", e.Section, e.Message)
	}
	return fmt.Sprintf("generate %s: %s: %v", e.Section, e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func generationError(s section.Section, err error, format string, args ...any) *GenerationError {
	return &GenerationError{Section: s, Message: fmt.Sprintf(format, args...), Err: err}
}
