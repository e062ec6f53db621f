package http

import (
	"family-hub/internal/assistant"
	"family-hub/pkg/log"
)

type handler struct {
	l  log.Logger
	uc assistant.UseCase
}

// New creates the HTTP handler for the assistant.
func New(l log.Logger, uc assistant.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
