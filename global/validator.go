package global

import (
	"github.com/go-playground/validator/v10"
)

// Validator is the shared struct validator. The lang middleware wires it
// with per-request translators; websocket sessions use it directly.
var Validator *validator.Validate
