package maps

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"
)

type fakeResolver struct {
	placeID string
	err     error
	calls   atomic.Int32
	delay   time.Duration
}

func (f *fakeResolver) ResolvePlaceID(ctx context.Context, model, address string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.placeID, f.err
}

func TestEmbedURIUsesPlaceID(t *testing.T) {
	svc := NewService(&fakeResolver{placeID: "ChIJabc"}, true, "KEY", "gemini-2.5-flash", logger.Discard())

	resp, err := svc.EmbedURI(context.Background(), "12 Oak Street, Springfield, 62704")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	want := "https://www.google.com/maps/embed/v1/place?key=KEY&maptype=satellite&q=place_id%3AChIJabc"
	if resp.EmbedURI != want || resp.PlaceID != "ChIJabc" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEmbedURIFallsBackToAddress(t *testing.T) {
	svc := NewService(&fakeResolver{}, true, "KEY", "gemini-2.5-flash", logger.Discard())

	resp, err := svc.EmbedURI(context.Background(), "12 Oak Street, Springfield, 62704")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	want := "https://www.google.com/maps/embed/v1/place?key=KEY&maptype=satellite&q=12+Oak+Street%2C+Springfield%2C+62704"
	if resp.EmbedURI != want {
		t.Fatalf("got %s", resp.EmbedURI)
	}
}

func TestBuildEmbedURIEscapesQueryDelimiters(t *testing.T) {
	address := "5th & Main + Co, Springfield=North"
	raw := BuildEmbedURI("K&EY", "", address)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	q := u.Query()
	if q.Get("q") != address {
		t.Fatalf("expected full address back, got %q from %s", q.Get("q"), raw)
	}
	if q.Get("key") != "K&EY" || q.Get("maptype") != "satellite" {
		t.Fatalf("unexpected params %v", q)
	}
}

func TestEmbedURIMissingKeys(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeResolver{}, false, "KEY", "m", logger.Discard())
	_, err := svc.EmbedURI(ctx, "addr")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != msgGeminiNotConfigured {
		t.Fatalf("expected gemini key error, got %v", err)
	}

	svc = NewService(&fakeResolver{}, true, " ", "m", logger.Discard())
	_, err = svc.EmbedURI(ctx, "addr")
	if !errors.As(err, &appErr) || appErr.Message != msgMapsNotConfigured {
		t.Fatalf("expected maps key error, got %v", err)
	}
}

func TestEmbedURIUpstreamFailure(t *testing.T) {
	svc := NewService(&fakeResolver{err: errors.New("503")}, true, "KEY", "m", logger.Discard())
	if _, err := svc.EmbedURI(context.Background(), "addr"); !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestEmbedURICoalescesConcurrentLookups(t *testing.T) {
	resolver := &fakeResolver{placeID: "p", delay: 50 * time.Millisecond}
	svc := NewService(resolver, true, "KEY", "m", logger.Discard())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.EmbedURI(context.Background(), "same address"); err != nil {
				t.Errorf("embed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := resolver.calls.Load(); n >= 5 {
		t.Fatalf("expected concurrent lookups to share calls, got %d", n)
	}
}

type blockingResolver struct {
	started chan struct{}
	unblock chan struct{}
	once    sync.Once
}

func (r *blockingResolver) ResolvePlaceID(ctx context.Context, model, address string) (string, error) {
	r.once.Do(func() { close(r.started) })
	select {
	case <-r.unblock:
		return "ChIJshared", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestEmbedURISharedLookupOutlivesFirstCaller(t *testing.T) {
	resolver := &blockingResolver{started: make(chan struct{}), unblock: make(chan struct{})}
	svc := NewService(resolver, true, "KEY", "m", logger.Discard())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.EmbedURI(firstCtx, "7 Birch Lane")
		firstErr <- err
	}()
	<-resolver.started

	second := make(chan EmbedResponse, 1)
	secondErr := make(chan error, 1)
	go func() {
		resp, err := svc.EmbedURI(context.Background(), "7 Birch Lane")
		second <- resp
		secondErr <- err
	}()

	cancelFirst()
	if err := <-firstErr; !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external error for the departed caller, got %v", err)
	}

	close(resolver.unblock)
	if err := <-secondErr; err != nil {
		t.Fatalf("waiting caller must not inherit the cancellation: %v", err)
	}
	if resp := <-second; resp.PlaceID != "ChIJshared" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
