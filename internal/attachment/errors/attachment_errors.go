package attachmenterrors

import (
	"e-approval/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmptyFile = apperror.New(
		apperror.CodeInvalidInput,
		"Uploaded file is empty",
		http.StatusBadRequest,
	)

	ErrUnsupportedType = apperror.New(
		apperror.CodeInvalidInput,
		"File type not supported",
		http.StatusBadRequest,
	)

	ErrFileTooLarge = apperror.New(
		apperror.CodeTooLarge,
		"File exceeds the maximum allowed size",
		http.StatusRequestEntityTooLarge,
	)

	ErrStorageFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to store file",
		http.StatusInternalServerError,
	)
)
