package app

import (
	"errors"
	"fmt"

	"fastreer-gui/internal/backend"
	appErrors "fastreer-gui/internal/errors"
)

// Describe converts an error into the message shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var exitErr backend.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("FastreeR failed. Exit code: %d", exitErr.Code)
	}

	switch appErrors.CodeOf(err) {
	case appErrors.CodeInvalidJob:
		var appErr appErrors.Error
		if errors.As(err, &appErr) && appErr.Message == "no input files selected" {
			return "No input files selected."
		}
		return "Invalid job: " + err.Error()
	case appErrors.CodeBusy:
		return "Another task is running: " + err.Error()
	case appErrors.CodeCanceled:
		return "Canceled."
	case appErrors.CodeBackendNotFound, appErrors.CodeSpawnFailed:
		return "Error: " + err.Error()
	case appErrors.CodeSettingsWrite:
		return "Failed to save settings: " + err.Error()
	case appErrors.CodeSettingsRead:
		if isVersionCheck(err) {
			return "Could not load settings to check version."
		}
		return "Could not load settings: " + err.Error()
	case appErrors.CodeNetwork, appErrors.CodeMetadataParse, appErrors.CodeAssetNotFound, appErrors.CodeDownload:
		return "Update failed:\n" + err.Error()
	case appErrors.CodeHistory:
		return "History unavailable: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func isVersionCheck(err error) bool {
	var appErr appErrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Message == "could not load settings to check version"
}
