package ui

import (
	"context"
	"errors"

	"github.com/ytget/yt-music/internal/model"
)

// errorKey maps an error to the localization key of its category
func errorKey(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KeyErrorCanceled
	case errors.Is(err, model.ErrInvalidInput):
		return KeyErrorInvalidInput
	case errors.Is(err, model.ErrLoginTimeout):
		return KeyErrorLoginTimeout
	case errors.Is(err, model.ErrLoginAborted):
		return KeyErrorLoginAborted
	case errors.Is(err, model.ErrAutomation):
		return KeyErrorAutomation
	case errors.Is(err, model.ErrTranscode):
		return KeyErrorTranscode
	case errors.Is(err, model.ErrExtraction):
		return KeyErrorExtraction
	case errors.Is(err, model.ErrFilesystem):
		return KeyErrorFilesystem
	default:
		return KeyErrorGeneric
	}
}

// errorMessage renders err for the user: the localized category followed by the detail
func errorMessage(loc *Localization, lang string, err error) string {
	return loc.Text(lang, errorKey(err)) + ": " + err.Error()
}
