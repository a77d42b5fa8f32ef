package ai

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type DiagnoseRequest struct {
	Error      string `json:"error" validate:"required"`
	StackTrace string `json:"stackTrace"`
	Context    string `json:"context"`
	Platform   string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

type Diagnosis struct {
	Diagnosis string    `json:"diagnosis"`
	RootCause string    `json:"rootCause"`
	Fix       []string  `json:"fix"`
	Sections  []Section `json:"sections"`
}

type ReviewRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"omitempty,max=32"`
	Focus    string `json:"focus" validate:"omitempty,max=200"`
}

type Review struct {
	Review      string    `json:"review"`
	Summary     string    `json:"summary"`
	Issues      []string  `json:"issues"`
	Suggestions []string  `json:"suggestions"`
	Security    []string  `json:"security"`
	Performance []string  `json:"performance"`
	Sections    []Section `json:"sections"`
}

// Service builds prompts for the dashboard's helper endpoints and shapes the
// answers that come back.
type Service struct {
	Assistant Assistant
	Logger    zerolog.Logger
}

func (s *Service) Chat(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	return s.ask(ctx, "chat", prompt, history)
}

func (s *Service) Diagnose(ctx context.Context, req DiagnoseRequest) (Diagnosis, error) {
	answer, err := s.ask(ctx, "diagnose", diagnosePrompt(req), nil)
	if err != nil {
		return Diagnosis{}, err
	}
	sections := ParseSections(answer)
	return Diagnosis{
		Diagnosis: answer,
		RootCause: strings.Join(Find(sections, "cause"), " "),
		Fix:       orEmpty(Find(sections, "fix", "solution", "resolution")),
		Sections:  sections,
	}, nil
}

func (s *Service) Review(ctx context.Context, req ReviewRequest) (Review, error) {
	answer, err := s.ask(ctx, "review", reviewPrompt(req), nil)
	if err != nil {
		return Review{}, err
	}
	sections := ParseSections(answer)
	return Review{
		Review:      answer,
		Summary:     strings.Join(Find(sections, "summary", "overview"), " "),
		Issues:      orEmpty(Find(sections, "issue", "bug", "problem")),
		Suggestions: orEmpty(Find(sections, "suggest", "improve", "recommend")),
		Security:    orEmpty(Find(sections, "secur")),
		Performance: orEmpty(Find(sections, "perform")),
		Sections:    sections,
	}, nil
}

func (s *Service) ask(ctx context.Context, op, prompt string, history []ChatMessage) (string, error) {
	start := time.Now()
	answer, err := s.Assistant.Ask(ctx, prompt, history)
	if err != nil {
		s.Logger.Warn().Err(err).Str("operation", op).Dur("latency", time.Since(start)).Msg("assistant call failed")
		return "", err
	}
	s.Logger.Debug().Str("operation", op).Int("prompt_len", len(prompt)).Int("answer_len", len(answer)).Dur("latency", time.Since(start)).Msg("assistant answered")
	return answer, nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
