// Package code defines the unified response code table with localized messages.
package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	code   int
	status bool
	Lang   lang
	msg    string
	data   interface{}
	// details carry human readable context for a failure
	details     []string
	haveData    bool
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code. Codes must be unique across the project.
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("error code %d already exists, pick another one", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code.
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("success code %d already exists, pick another one", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone creates a copy of the code so per-request data never mutates the
// registered instance.
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		Lang:   e.Lang,
		msg:    e.msg,
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData attaches a payload and returns a copy.
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	c.details = e.details
	c.haveDetails = e.haveDetails
	return c
}

// WithDetails attaches detail strings and returns a copy.
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveData = e.haveData
	c.data = e.data
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// StatusCode maps every response to HTTP 200; the envelope code carries the
// real outcome. Clients were built against this behavior.
func (e *Code) StatusCode() int {
	return http.StatusOK
}

// Is reports whether err carries the same registered code. Works through
// WithData/WithDetails copies.
func (e *Code) Is(err error) bool {
	other, ok := err.(*Code)
	return ok && other.code == e.code
}
