// Package insights produces generated text for salespeople: streamed talking
// points for a single lead and one-shot SMS or voicemail templates.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"roofing_crm_backend/internal/leads/domain"
	"roofing_crm_backend/internal/leads/transport"
	teamdomain "roofing_crm_backend/internal/team/domain"
	"roofing_crm_backend/platform/ai/gemini"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/inflight"
	"roofing_crm_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// LeadLookup resolves a lead the actor is allowed to see.
type LeadLookup interface {
	VisibleLead(ctx context.Context, actor teamdomain.User, id int64) (domain.Lead, error)
}

// Generator is the generative text collaborator.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Stream(ctx context.Context, model, prompt string) iter.Seq2[string, error]
}

// TemplateKind selects the settings-page template being generated.
type TemplateKind string

const (
	TemplateSMS       TemplateKind = "sms"
	TemplateVoicemail TemplateKind = "voicemail"
)

const talkingPointsPrompt = `You are a sales assistant for a roofing company. Your goal is to help a salesperson schedule an appointment with a real estate agent for a property they have listed. Analyze the following lead data and generate a short, actionable script or a set of key talking points.

The talking points should:
1.  Be concise and professional.
2.  Help the salesperson quickly establish value for the real estate agent.
3.  Leverage specific data points like the 'roofFlag', 'lastSoldDate', 'permits', and 'homeValue' to create a compelling reason for a roof inspection.
4.  Focus on how a roof check can help the agent sell the property faster or for a better price.
5.  Be formatted in simple markdown (e.g., using bullet points or bold text).

Lead Data: %s`

// templateTimeout bounds the shared upstream call behind coalesced template
// requests, which outlives any single caller.
const templateTimeout = 90 * time.Second

const (
	msgNotConfigured   = "Gemini API key not configured. Please add your key to enable AI features."
	msgInsightFailed   = "Failed to generate AI insights."
	msgTemplateFailed  = "Failed to generate template from AI."
	msgInsightRunning  = "talking points for this lead are already being generated"
	msgUnknownTemplate = "template kind must be sms or voicemail"
)

type Service struct {
	leads         LeadLookup
	gen           Generator
	guard         *inflight.Guard
	templates     singleflight.Group
	insightModel  string
	templateModel string
	log           *logger.Logger
}

func NewService(leads LeadLookup, gen Generator, insightModel, templateModel string, log *logger.Logger) *Service {
	return &Service{
		leads:         leads,
		gen:           gen,
		guard:         inflight.New(),
		insightModel:  insightModel,
		templateModel: templateModel,
		log:           log,
	}
}

// TalkingPoints starts generating talking points for a lead and returns the
// fragments in arrival order. Only one generation per actor and lead may run
// at a time; a second caller gets a Conflict. The caller must call release
// once it is done with the sequence, whether or not it ranged over it.
func (s *Service) TalkingPoints(ctx context.Context, actor teamdomain.User, leadID int64) (fragments iter.Seq2[string, error], release func(), err error) {
	lead, err := s.leads.VisibleLead(ctx, actor, leadID)
	if err != nil {
		return nil, nil, err
	}
	prompt, err := buildTalkingPointsPrompt(lead)
	if err != nil {
		return nil, nil, apperr.Internal("failed to encode lead")
	}

	key := fmt.Sprintf("insight:%d:%d", actor.ID, leadID)
	release, ok := s.guard.TryAcquire(key)
	if !ok {
		return nil, nil, apperr.Conflict(msgInsightRunning)
	}

	return func(yield func(string, error) bool) {
		defer release()
		for fragment, err := range s.gen.Stream(ctx, s.insightModel, prompt) {
			if err != nil {
				yield("", s.externalError("talking_points", msgInsightFailed, err))
				return
			}
			if !yield(fragment, nil) {
				return
			}
		}
	}, release, nil
}

// CollectTalkingPoints drains TalkingPoints into one string.
func (s *Service) CollectTalkingPoints(ctx context.Context, actor teamdomain.User, leadID int64) (string, error) {
	fragments, release, err := s.TalkingPoints(ctx, actor, leadID)
	if err != nil {
		return "", err
	}
	defer release()

	var b strings.Builder
	for fragment, err := range fragments {
		if err != nil {
			return "", err
		}
		b.WriteString(fragment)
	}
	return b.String(), nil
}

// GenerateTemplate returns one completed template. Identical concurrent
// requests share a single upstream call, which is detached from any one
// caller's cancellation.
func (s *Service) GenerateTemplate(ctx context.Context, kind TemplateKind, prompt string) (string, error) {
	fullPrompt, ok := templatePrompt(kind, prompt)
	if !ok {
		return "", apperr.Validation(msgUnknownTemplate)
	}

	ch := s.templates.DoChan(fullPrompt, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), templateTimeout)
		defer cancel()
		return s.gen.Generate(callCtx, s.templateModel, fullPrompt)
	})

	select {
	case <-ctx.Done():
		return "", s.externalError("template", msgTemplateFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", s.externalError("template", msgTemplateFailed, res.Err)
		}
		return res.Val.(string), nil
	}
}

func (s *Service) externalError(operation, fallback string, err error) error {
	if errors.Is(err, gemini.ErrNotConfigured) {
		return apperr.External(msgNotConfigured, err)
	}
	if errors.Is(err, context.Canceled) {
		return apperr.External(fallback, err)
	}
	s.log.ExternalCallFailed("gemini", operation, err)
	return apperr.External(fallback, err)
}

func buildTalkingPointsPrompt(lead domain.Lead) (string, error) {
	data, err := json.MarshalIndent(transport.ToLeadResponse(lead), "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(talkingPointsPrompt, data), nil
}

func templatePrompt(kind TemplateKind, prompt string) (string, bool) {
	switch kind {
	case TemplateSMS:
		return fmt.Sprintf("Generate a professional SMS template for a roofing company based on this prompt: \"%s\"", prompt), true
	case TemplateVoicemail:
		return fmt.Sprintf("Generate a professional voicemail script for a roofing company based on this prompt: \"%s\"", prompt), true
	}
	return "", false
}
