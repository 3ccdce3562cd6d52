package simpleforms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/dmitrymomot/simpleforms/handler"
	"github.com/dmitrymomot/simpleforms/pkg/flash"
	"github.com/dmitrymomot/simpleforms/pkg/plural"
)

// Envelope is the outcome reported to the submitter. A successful envelope
// encodes as {"success","sent"}, a failed one as {"error","errors"}.
type Envelope struct {
	Success string            `json:"success,omitempty"`
	Sent    []string          `json:"sent,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Status  int               `json:"-"`
}

// Successful reports whether the envelope carries no error.
func (e Envelope) Successful() bool { return e.Error == "" }

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Successful() {
		sent := e.Sent
		if sent == nil {
			sent = []string{}
		}
		return json.Marshal(struct {
			Success string   `json:"success"`
			Sent    []string `json:"sent"`
		}{e.Success, sent})
	}
	return json.Marshal(struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors,omitempty"`
	}{e.Error, e.Errors})
}

// Succeeded builds the envelope for a fully dispatched submission.
func Succeeded(message string, sent []string) Envelope {
	return Envelope{Success: message, Sent: sent, Status: http.StatusOK}
}

// Failed builds the envelope for err.
func Failed(err error) Envelope {
	e := classify(err)
	return Envelope{Error: e.Message, Errors: e.Fields, Status: e.Kind.Status()}
}

// flashEntry is what a redirect leaves behind for the next request.
type flashEntry struct {
	Response Envelope          `json:"response"`
	Status   int               `json:"status"`
	Input    map[string]string `json:"input,omitempty"`
}

// maxOldValue is the longest old input value kept when the full snapshot
// does not fit the flash store.
const maxOldValue = 256

// Respond picks the transport for env when the response is rendered. Script
// clients get JSON; everyone else gets env and the old input flashed and a
// redirect to the Referer, or to fallback when the request has none.
//
// When the flash does not fit the store, long old input values are dropped
// first, then the old input altogether. If even the bare envelope is too large
// the client is redirected without a flash.
func Respond(env Envelope, sub *Submission, store flash.Store, fallback string) handler.Response {
	return handler.ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		if IsAPI(r) || store == nil {
			return handler.JSON(env,
				handler.WithJSONStatus(env.Status),
				handler.WithNoCache(),
			).Render(w, r)
		}

		if err := setFlash(w, r, store, env, sub.OldInput()); err != nil {
			return fmt.Errorf("flash response: %w", err)
		}
		return handler.RedirectBack(fallback).Render(w, r)
	})
}

func setFlash(w http.ResponseWriter, r *http.Request, store flash.Store, env Envelope, input map[string]string) error {
	entry := flashEntry{Response: env, Status: env.Status, Input: input}
	err := store.Set(w, r, entry)
	if errors.Is(err, flash.ErrTooLarge) {
		if short := shortValues(input, maxOldValue); len(short) < len(input) {
			entry.Input = short
			err = store.Set(w, r, entry)
		}
	}
	if errors.Is(err, flash.ErrTooLarge) && len(entry.Input) > 0 {
		entry.Input = nil
		err = store.Set(w, r, entry)
	}
	if errors.Is(err, flash.ErrTooLarge) {
		return nil
	}
	return err
}

// shortValues returns the entries of input whose value has at most limit
// runes.
func shortValues(input map[string]string, limit int) map[string]string {
	if len(input) == 0 {
		return nil
	}
	short := make(map[string]string, len(input))
	for name, value := range input {
		if utf8.RuneCountInString(value) <= limit {
			short[name] = value
		}
	}
	return short
}

// Flashed is a response consumed after a redirect.
type Flashed struct {
	Response   Envelope          `json:"response"`
	Successful bool              `json:"successful"`
	OldInput   map[string]string `json:"input,omitempty"`
}

// Old returns the previously submitted value of field.
func (f *Flashed) Old(field string) string {
	if f == nil {
		return ""
	}
	return f.OldInput[field]
}

// FieldError returns the validation message of field, if any.
func (f *Flashed) FieldError(field string) string {
	if f == nil {
		return ""
	}
	return f.Response.Errors[field]
}

// Consume reads and clears the flashed response. It returns nil when there
// is none. Error messages still holding plural choices are formatted by the
// number of invalid fields.
func Consume(w http.ResponseWriter, r *http.Request, store flash.Store) (*Flashed, error) {
	var entry flashEntry
	ok, err := store.Pop(w, r, &entry)
	if err != nil || !ok {
		return nil, err
	}

	env := entry.Response
	env.Status = entry.Status
	if env.Error != "" && plural.NeedsFormatting(env.Error) {
		env.Error = plural.Format(env.Error, len(env.Errors))
	}

	return &Flashed{
		Response:   env,
		Successful: env.Successful(),
		OldInput:   entry.Input,
	}, nil
}
