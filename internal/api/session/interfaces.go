package session

import (
	"github.com/futig/context-engine/internal/usecase/suggest"
)

// SessionRegistry manages the lifecycle of pipeline sessions.
type SessionRegistry interface {
	Create() string
	Get(id string) (*suggest.Controller, bool)
	Delete(id string) bool
}
