package catalog

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

var chatParams = models.ParamFlags{
	TemperatureAllowed:      true,
	MaxTokensAllowed:        true,
	TopPAllowed:             true,
	FrequencyPenaltyAllowed: true,
	PresencePenaltyAllowed:  true,
	StreamingAllowed:        true,
}

var anthropicParams = models.ParamFlags{
	TemperatureAllowed: true,
	MaxTokensAllowed:   true,
	TopPAllowed:        true,
	TopKAllowed:        true,
	StreamingAllowed:   true,
}

var genaiParams = models.ParamFlags{
	TemperatureAllowed: true,
	MaxTokensAllowed:   true,
	TopPAllowed:        true,
	TopKAllowed:        true,
}

var allRoles = []models.Role{
	models.RoleSystem,
	models.RoleDeveloper,
	models.RoleInstruction,
	models.RoleUser,
	models.RoleAssistant,
}

// seedModels is the default descriptor set. Model identifiers come from the
// vendor SDKs where they export them, so a rename upstream shows up as a
// compile error here rather than a stale string.
var seedModels = []models.LLMModel{
	{Provider: models.ProviderOpenAI, Name: openai.GPT4o, Description: "OpenAI GPT-4o", AllowedRoles: allRoles, Params: chatParams, Active: true},
	{Provider: models.ProviderOpenAI, Name: openai.GPT4oMini, Description: "OpenAI GPT-4o mini", AllowedRoles: allRoles, Params: chatParams, Active: true},
	{Provider: models.ProviderOpenAI, Name: openai.O1Mini, Description: "OpenAI o1-mini reasoning model", AllowedRoles: allRoles, Params: chatParams, Active: true},
	{Provider: models.ProviderAnthropic, Name: string(anthropic.ModelClaudeSonnet4_0), Description: "Anthropic Claude Sonnet 4", AllowedRoles: allRoles, Params: anthropicParams, Active: true},
	{Provider: models.ProviderAnthropic, Name: string(anthropic.ModelClaudeOpus4_0), Description: "Anthropic Claude Opus 4", AllowedRoles: allRoles, Params: anthropicParams, Active: true},
	{Provider: models.ProviderAnthropic, Name: string(anthropic.ModelClaude3_5HaikuLatest), Description: "Anthropic Claude 3.5 Haiku", AllowedRoles: allRoles, Params: anthropicParams, Active: true},
	{Provider: models.ProviderGoogleGenAI, Name: "gemini-2.0-flash", Description: "Google Gemini 2.0 Flash", AllowedRoles: allRoles, Params: genaiParams, Active: true},
	{Provider: models.ProviderGoogleGenAI, Name: "gemini-1.5-pro", Description: "Google Gemini 1.5 Pro", AllowedRoles: allRoles, Params: genaiParams, Active: true},
}

// Seed upserts the default descriptor set. Safe to run on every startup.
func (s *Service) Seed(ctx context.Context) error {
	for _, m := range seedModels {
		m := m
		m.ID = uuid.New()
		if err := s.store.Models.Upsert(ctx, &m); err != nil {
			return fmt.Errorf("seed model %s: %w", m.Name, err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, keyAllModels).Err(); err != nil {
			s.logger.Warn("catalog cache invalidation failed", "error", err)
		}
	}
	s.logger.Info("model catalog seeded", "models", len(seedModels))
	return nil
}
