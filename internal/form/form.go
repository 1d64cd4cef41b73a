// Package form holds the state of a data-entry form and submits it as JSON.
package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/elclub/papyrus/internal/api"
	"github.com/elclub/papyrus/internal/notify"
)

const (
	msgSuccess    = "Operación exitosa"
	msgFailed     = "Error en la operación"
	msgConnection = "Error de conexión"
)

// Submitter sends a form body. *api.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, method, path string, body any) (map[string]any, error)
}

// Result is what a validator returns.
type Result struct {
	Valid  bool
	Errors map[string]string
}

type Config struct {
	Endpoint    string
	Method      string
	InitialData map[string]any
	Validate    func(data map[string]any) Result
	OnSuccess   func(result map[string]any)
}

// Form is the state behind one form: values, field errors, and whether a
// submission is in flight.
type Form struct {
	client Submitter
	sink   notify.Sink
	cfg    Config

	mu         sync.Mutex
	data       map[string]any
	errors     map[string]string
	submitting bool
}

func New(client Submitter, sink notify.Sink, cfg Config) *Form {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	return &Form{
		client: client,
		sink:   sink,
		cfg:    cfg,
		data:   clone(cfg.InitialData),
		errors: map[string]string{},
	}
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *Form) Set(field string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[field] = value
}

func (f *Form) Get(field string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[field]
}

// Data returns a copy of the current values.
func (f *Form) Data() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.data)
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate runs the configured validator and stores its errors. A form
// without a validator is always valid.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = map[string]string{}
	if f.cfg.Validate == nil {
		return true
	}
	res := f.cfg.Validate(clone(f.data))
	if res.Errors != nil {
		f.errors = res.Errors
	}
	return res.Valid
}

// Reset restores the initial values and clears errors.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = clone(f.cfg.InitialData)
	f.errors = map[string]string{}
}

// Submit sends the form. Failures are reported through the sink and the
// field errors; the returned error is for callers that want to branch on it.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	f.submitting = true
	f.errors = map[string]string{}
	body := clone(f.data)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	// failures are reported below, not by the client's request hooks
	result, err := f.client.Submit(api.Quiet(ctx), f.cfg.Method, f.cfg.Endpoint, body)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			f.mu.Lock()
			for k, v := range se.Errors {
				f.errors[k] = v
			}
			f.mu.Unlock()
			f.push(msgFailed, notify.Error)
			return fmt.Errorf("submit %s: %w", f.cfg.Endpoint, err)
		}
		log.Printf("form: submit %s: %v", f.cfg.Endpoint, err)
		f.push(msgConnection, notify.Error)
		return fmt.Errorf("submit %s: %w", f.cfg.Endpoint, err)
	}

	if f.cfg.OnSuccess != nil {
		f.cfg.OnSuccess(result)
	}
	f.push(msgSuccess, notify.Success)
	return nil
}

func (f *Form) push(msg string, sev notify.Severity) {
	if f.sink != nil {
		f.sink.Push(msg, sev)
	}
}
