package form

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elclub/papyrus/internal/api"
	"github.com/elclub/papyrus/internal/notify"
)

type fakeSubmitter struct {
	method, path string
	body         any
	result       map[string]any
	err          error
	during       func()
}

func (f *fakeSubmitter) Submit(_ context.Context, method, path string, body any) (map[string]any, error) {
	f.method, f.path, f.body = method, path, body
	if f.during != nil {
		f.during()
	}
	return f.result, f.err
}

func newBus(t *testing.T) *notify.Bus {
	t.Helper()
	b := notify.NewBus(notify.WithTTL(time.Hour))
	t.Cleanup(b.Close)
	return b
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	var got map[string]any
	sub := &fakeSubmitter{result: map[string]any{"tracking_code": "AB12CD34"}}
	f := New(sub, bus, Config{
		Endpoint:    "/api/announcements/",
		InitialData: map[string]any{FieldCustomerName: "Ana"},
		OnSuccess:   func(r map[string]any) { got = r },
	})

	var duringSubmit bool
	sub.during = func() { duringSubmit = f.Submitting() }

	f.Set(FieldGuideNumber, "GUIA123")
	require.NoError(t, f.Submit(context.Background()))

	require.True(t, duringSubmit)
	require.False(t, f.Submitting())
	require.Equal(t, http.MethodPost, sub.method)
	require.Equal(t, "/api/announcements/", sub.path)
	require.Equal(t, map[string]any{FieldCustomerName: "Ana", FieldGuideNumber: "GUIA123"}, sub.body)
	require.Equal(t, "AB12CD34", got["tracking_code"])

	n := bus.Notifications()
	require.Len(t, n, 1)
	require.Equal(t, notify.Success, n[0].Severity)
	require.Equal(t, "Operación exitosa", n[0].Message)
}

func TestSubmitFieldErrors(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	sub := &fakeSubmitter{err: &api.StatusError{Status: 422, Errors: map[string]string{FieldPhoneNumber: "inválido"}}}
	f := New(sub, bus, Config{Endpoint: "/x", Method: http.MethodPut})

	err := f.Submit(context.Background())
	require.Error(t, err)
	require.Equal(t, http.MethodPut, sub.method)
	require.Equal(t, map[string]string{FieldPhoneNumber: "inválido"}, f.Errors())
	require.False(t, f.Submitting())
	require.Equal(t, "Error en la operación", bus.Notifications()[0].Message)
}

func TestSubmitConnectionError(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	sub := &fakeSubmitter{err: errors.New("dial tcp: connection refused")}
	f := New(sub, bus, Config{Endpoint: "/x"})

	require.Error(t, f.Submit(context.Background()))
	require.Empty(t, f.Errors())
	require.False(t, f.Submitting())
	n := bus.Notifications()
	require.Len(t, n, 1)
	require.Equal(t, "Error de conexión", n[0].Message)
	require.Equal(t, notify.Error, n[0].Severity)
}

func TestSubmitClearsPreviousErrors(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{err: &api.StatusError{Status: 400, Errors: map[string]string{"a": "x"}}}
	f := New(sub, nil, Config{Endpoint: "/x"})
	require.Error(t, f.Submit(context.Background()))
	require.Len(t, f.Errors(), 1)

	sub.err = nil
	sub.result = map[string]any{}
	require.NoError(t, f.Submit(context.Background()))
	require.Empty(t, f.Errors())
}

func TestValidateAndReset(t *testing.T) {
	t.Parallel()

	initial := map[string]any{FieldCustomerName: "Ana", FieldPhoneNumber: "3001234567", FieldGuideNumber: "G12"}
	f := New(&fakeSubmitter{}, nil, Config{InitialData: initial, Validate: AnnouncementValidator})
	require.True(t, f.Validate())
	require.Empty(t, f.Errors())

	f.Set(FieldCustomerName, " A ")
	f.Set(FieldPhoneNumber, "12-34")
	require.False(t, f.Validate())
	errs := f.Errors()
	require.Equal(t, "El nombre debe tener al menos 2 caracteres", errs[FieldCustomerName])
	require.Equal(t, "El teléfono debe tener al menos 7 dígitos", errs[FieldPhoneNumber])
	require.NotContains(t, errs, FieldGuideNumber)

	f.Reset()
	require.Equal(t, initial, f.Data())
	require.Empty(t, f.Errors())

	f.Set("extra", 1)
	require.NotContains(t, initial, "extra")
}

func TestValidateWithoutValidator(t *testing.T) {
	t.Parallel()

	f := New(&fakeSubmitter{}, nil, Config{})
	require.True(t, f.Validate())
	require.Nil(t, f.Get("missing"))
}

func TestAnnouncementValidatorRequired(t *testing.T) {
	t.Parallel()

	res := AnnouncementValidator(map[string]any{})
	require.False(t, res.Valid)
	require.Equal(t, "El nombre del cliente es requerido", res.Errors[FieldCustomerName])
	require.Equal(t, "El número de guía es requerido", res.Errors[FieldGuideNumber])
	require.Contains(t, res.Errors, FieldPhoneNumber)

	res = AnnouncementValidator(map[string]any{FieldGuideNumber: "ab"})
	require.Equal(t, "El número de guía debe tener al menos 3 caracteres", res.Errors[FieldGuideNumber])
}

func TestNormalizeAnnouncement(t *testing.T) {
	t.Parallel()

	out := NormalizeAnnouncement(map[string]any{
		FieldCustomerName: "  Ana María ",
		FieldPhoneNumber:  " 300 123 4567",
		FieldGuideNumber:  " abc123 ",
	})
	require.Equal(t, "Ana María", out[FieldCustomerName])
	require.Equal(t, "300 123 4567", out[FieldPhoneNumber])
	require.Equal(t, "ABC123", out[FieldGuideNumber])
}

func TestSubmitAgainstServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":{"guide_number":"Ya existe un anuncio con esta guía"}}`)
	}))
	t.Cleanup(srv.Close)

	bus := newBus(t)
	f := New(api.New(srv.URL), bus, Config{Endpoint: "/api/announcements/"})
	require.Error(t, f.Submit(context.Background()))
	require.Equal(t, "Ya existe un anuncio con esta guía", f.Errors()[FieldGuideNumber])
}

func TestSubmitThroughTrackedClientNotifiesOnce(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"errors":{"phone_number":"El teléfono debe tener al menos 7 dígitos"}}`)
	}))
	t.Cleanup(srv.Close)

	bus := newBus(t)
	f := New(api.New(srv.URL, api.Tracked(bus)), bus, Config{Endpoint: "/api/announcements/"})
	require.Error(t, f.Submit(context.Background()))
	require.Equal(t, "El teléfono debe tener al menos 7 dígitos", f.Errors()[FieldPhoneNumber])

	got := bus.Notifications()
	require.Len(t, got, 1)
	require.Equal(t, "Error en la operación", got[0].Message)
	require.Equal(t, notify.Error, got[0].Severity)
	require.False(t, bus.Loading())
}
