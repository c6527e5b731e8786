package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies an external LLM vendor with its own payload shape.
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderGoogleGenAI Provider = "google-genai"
)

// ParamFlags describe which tuning parameters a model accepts. The catalog is
// reference data; the compiler does not own it.
type ParamFlags struct {
	TemperatureAllowed      bool `json:"temperature_allowed"`
	MaxTokensAllowed        bool `json:"max_tokens_allowed"`
	TopPAllowed             bool `json:"top_p_allowed"`
	TopKAllowed             bool `json:"top_k_allowed"`
	FrequencyPenaltyAllowed bool `json:"frequency_penalty_allowed"`
	PresencePenaltyAllowed  bool `json:"presence_penalty_allowed"`
	StreamingAllowed        bool `json:"streaming_allowed"`
}

// LLMModel is a read-only descriptor of a model a prompt can target.
type LLMModel struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Provider     Provider   `json:"provider" db:"provider"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description,omitempty" db:"description"`
	AllowedRoles []Role     `json:"allowed_roles" db:"allowed_roles"`
	Params       ParamFlags `json:"params" db:"params"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
