package insights

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"roofing_crm_backend/internal/leads/domain"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/ai/gemini"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"
)

type fakeLeads struct {
	leads map[int64]domain.Lead
}

func (f fakeLeads) VisibleLead(ctx context.Context, actor teamdomain.User, id int64) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

type fakeGenerator struct {
	mu        sync.Mutex
	fragments []string
	streamErr error
	text      string
	genErr    error
	prompts   []string
	models    []string
}

func (g *fakeGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	g.mu.Unlock()
	return g.text, g.genErr
}

func (g *fakeGenerator) Stream(ctx context.Context, model, prompt string) iter.Seq2[string, error] {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	g.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, f := range g.fragments {
			if !yield(f, nil) {
				return
			}
		}
		if g.streamErr != nil {
			yield("", g.streamErr)
		}
	}
}

var jane = teamdomain.User{ID: 2, FirstName: "Jane", LastName: "Doe", Role: teamdomain.RoleSales}

func newTestService(gen *fakeGenerator) *Service {
	leads := fakeLeads{leads: map[int64]domain.Lead{
		1: {ID: 1, Fields: domain.Fields{AgentName: "Sarah Agent", Address: "12 Oak Street", RoofFlag: "May Need Roof"}, Status: domain.StatusNew, AssignedTo: "Jane Doe"},
	}}
	return NewService(leads, gen, "gemini-2.5-pro", "gemini-2.5-flash", logger.Discard())
}

func TestCollectTalkingPointsConcatenatesInOrder(t *testing.T) {
	gen := &fakeGenerator{fragments: []string{"**Hook:** ", "roof is ", "old."}}
	svc := newTestService(gen)

	text, err := svc.CollectTalkingPoints(context.Background(), jane, 1)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if text != "**Hook:** roof is old." {
		t.Fatalf("unexpected text %q", text)
	}
	if gen.models[0] != "gemini-2.5-pro" {
		t.Fatalf("expected insight model, got %q", gen.models[0])
	}
	if !strings.Contains(gen.prompts[0], `"roofFlag": "May Need Roof"`) {
		t.Fatalf("prompt must carry the lead data, got %s", gen.prompts[0])
	}
}

func TestTalkingPointsRejectsConcurrentRequestForSameLead(t *testing.T) {
	svc := newTestService(&fakeGenerator{fragments: []string{"a", "b"}})
	ctx := context.Background()

	first, release, err := svc.TalkingPoints(ctx, jane, 1)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, _, err := svc.TalkingPoints(ctx, jane, 1); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict while in flight, got %v", err)
	}

	for range first {
	}
	release()

	if _, err := svc.CollectTalkingPoints(ctx, jane, 1); err != nil {
		t.Fatalf("expected slot released after drain, got %v", err)
	}
}

func TestTalkingPointsStopsEarlyAndReleases(t *testing.T) {
	svc := newTestService(&fakeGenerator{fragments: []string{"a", "b", "c"}})
	ctx := context.Background()

	fragments, _, err := svc.TalkingPoints(ctx, jane, 1)
	if err != nil {
		t.Fatalf("talking points: %v", err)
	}
	var got []string
	for f := range fragments {
		got = append(got, f)
		break
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected fragments %v", got)
	}
	if svc.guard.Busy("insight:2:1") {
		t.Fatalf("slot must be released when the consumer stops")
	}
}

func TestTalkingPointsReleasedWithoutRanging(t *testing.T) {
	svc := newTestService(&fakeGenerator{fragments: []string{"a"}})
	ctx := context.Background()

	_, release, err := svc.TalkingPoints(ctx, jane, 1)
	if err != nil {
		t.Fatalf("talking points: %v", err)
	}
	release()
	release()

	if svc.guard.Busy("insight:2:1") {
		t.Fatalf("slot must be free once released")
	}
	if _, err := svc.CollectTalkingPoints(ctx, jane, 1); err != nil {
		t.Fatalf("expected a new request to run, got %v", err)
	}
}

func TestTalkingPointsErrors(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(&fakeGenerator{})
	if _, _, err := svc.TalkingPoints(ctx, jane, 99); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	svc = newTestService(&fakeGenerator{fragments: []string{"partial"}, streamErr: errors.New("quota exceeded")})
	_, err := svc.CollectTalkingPoints(ctx, jane, 1)
	if !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external error, got %v", err)
	}

	svc = newTestService(&fakeGenerator{streamErr: gemini.ErrNotConfigured})
	_, err = svc.CollectTalkingPoints(ctx, jane, 1)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || !strings.HasPrefix(appErr.Message, "Gemini API key not configured") {
		t.Fatalf("expected not configured message, got %v", err)
	}
}

func TestGenerateTemplate(t *testing.T) {
	gen := &fakeGenerator{text: "Hi {agentName}, quick roof check?"}
	svc := newTestService(gen)
	ctx := context.Background()

	text, err := svc.GenerateTemplate(ctx, TemplateSMS, "friendly follow-up")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != gen.text {
		t.Fatalf("unexpected text %q", text)
	}
	want := `Generate a professional SMS template for a roofing company based on this prompt: "friendly follow-up"`
	if gen.prompts[0] != want || gen.models[0] != "gemini-2.5-flash" {
		t.Fatalf("unexpected call %q / %q", gen.prompts[0], gen.models[0])
	}

	if _, err := svc.GenerateTemplate(ctx, TemplateKind("email"), "x"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	gen.genErr = errors.New("boom")
	if _, err := svc.GenerateTemplate(ctx, TemplateVoicemail, "x"); !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

type blockingGenerator struct {
	fakeGenerator
	started chan struct{}
	unblock chan struct{}
	calls   atomic.Int32
}

func (g *blockingGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
	}
	select {
	case <-g.unblock:
		return "shared template", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGenerateTemplateSurvivesFirstCallerLeaving(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}), unblock: make(chan struct{})}
	svc := NewService(fakeLeads{}, gen, "gemini-2.5-pro", "gemini-2.5-flash", logger.Discard())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GenerateTemplate(firstCtx, TemplateSMS, "follow-up")
		firstErr <- err
	}()
	<-gen.started

	secondText := make(chan string, 1)
	secondErr := make(chan error, 1)
	go func() {
		text, err := svc.GenerateTemplate(context.Background(), TemplateSMS, "follow-up")
		secondText <- text
		secondErr <- err
	}()

	cancelFirst()
	if err := <-firstErr; !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected the departed caller to get an external error, got %v", err)
	}

	close(gen.unblock)
	if err := <-secondErr; err != nil {
		t.Fatalf("waiting caller must not inherit the cancellation: %v", err)
	}
	if text := <-secondText; text != "shared template" {
		t.Fatalf("unexpected text %q", text)
	}
}
