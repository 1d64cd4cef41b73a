package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/elclub/papyrus/internal/listing"
	"github.com/elclub/papyrus/internal/notify"
)

const requestFailedMessage = "Error en la solicitud"

// trackingTransport runs the request lifecycle hooks around every request.
// Loading is switched on before the round trip and off once the response
// body has been read or closed. A failure status pushes an error
// notification unless the request context is Quiet.
type trackingTransport struct {
	next http.RoundTripper
	sink notify.Sink
}

// Track wraps next with the request lifecycle hooks bound to sink.
func Track(next http.RoundTripper, sink notify.Sink) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &trackingTransport{next: next, sink: sink}
}

// Tracked is an Option that installs Track on the client transport.
func Tracked(sink notify.Sink) Option {
	return WithTransport(func(next http.RoundTripper) http.RoundTripper {
		return Track(next, sink)
	})
}

type quietKey struct{}

// Quiet marks requests made with ctx as reporting their own failures. The
// tracking transport still drives loading for them but pushes nothing.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func isQuiet(ctx context.Context) bool {
	q, _ := ctx.Value(quietKey{}).(bool)
	return q
}

func (t *trackingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(AjaxHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(AjaxHeader, AjaxValue)
	}

	t.sink.SetLoading(true)
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.sink.SetLoading(false)
		log.Printf("api: %s %s: %v", req.Method, req.URL.Path, err)
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("api: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
		if !isQuiet(req.Context()) {
			t.sink.Push(requestFailedMessage, notify.Error)
		}
	}
	resp.Body = &loadingBody{ReadCloser: resp.Body, done: func() { t.sink.SetLoading(false) }}
	return resp, nil
}

// loadingBody calls done once, at EOF, on a read error or on Close.
type loadingBody struct {
	io.ReadCloser
	once sync.Once
	done func()
}

func (b *loadingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil {
		b.once.Do(b.done)
	}
	return n, err
}

func (b *loadingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.done)
	return err
}

// ListSource adapts a GET of path to a listing source.
func ListSource(c *Client, path string) listing.Source[listing.Item] {
	return listing.SourceFunc[listing.Item](func(ctx context.Context) ([]listing.Item, error) {
		return c.FetchList(ctx, path)
	})
}
