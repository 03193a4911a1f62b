package service

import (
	"net/http"

	"github.com/bestravelplan/trip-planning-service/internal/pkg/exception"
)

// ErrAuthRequired blocks mutating actions for signed-out callers. It prompts a
// sign-in on the client rather than rendering as a failure toast.
var ErrAuthRequired = exception.ApplicationError{
	Message:    "sign in required",
	StatusCode: http.StatusUnauthorized,
}

var ErrNoEstimate = exception.ApplicationError{
	Message:    "no trip estimate available",
	StatusCode: http.StatusNotFound,
}
