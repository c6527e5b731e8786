package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a conversational position used to group template fragments.
type Role string

const (
	RoleSystem      Role = "system"
	RoleDeveloper   Role = "developer"
	RoleUser        Role = "user"
	RoleAssistant   Role = "assistant"
	RoleInstruction Role = "instruction"
)

// RoleOrder is the canonical emission order for role-grouped fragments. Go
// maps do not preserve insertion order, so compiled payloads iterate roles in
// this sequence.
var RoleOrder = []Role{RoleSystem, RoleDeveloper, RoleInstruction, RoleUser, RoleAssistant}

// MessageMap holds a prompt's body: each role maps to an ordered list of text
// fragments. Stored as a JSONB document.
type MessageMap map[Role][]string

// Equal reports whether two bodies carry the same fragments per role. Roles
// mapped to empty lists count the same as absent roles.
func (m MessageMap) Equal(other MessageMap) bool {
	count := func(mm MessageMap) int {
		n := 0
		for _, frags := range mm {
			if len(frags) > 0 {
				n++
			}
		}
		return n
	}
	if count(m) != count(other) {
		return false
	}
	for role, frags := range m {
		if len(frags) == 0 {
			continue
		}
		theirs := other[role]
		if len(theirs) != len(frags) {
			return false
		}
		for i, f := range frags {
			if theirs[i] != f {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy so history snapshots never alias live state.
func (m MessageMap) Clone() MessageMap {
	if m == nil {
		return nil
	}
	out := make(MessageMap, len(m))
	for role, frags := range m {
		cp := make([]string, len(frags))
		copy(cp, frags)
		out[role] = cp
	}
	return out
}

// TuningParams are per-prompt generation parameters. Pointer fields separate
// "unset" (nil, omitted from compiled payloads) from an explicit zero value
// (included).
type TuningParams struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	TopK             *int     `json:"top_k,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	Stream           *bool    `json:"stream,omitempty"`
}

// Clone returns a deep copy of the params, nil-safe.
func (t *TuningParams) Clone() *TuningParams {
	if t == nil {
		return nil
	}
	cp := TuningParams{}
	if t.Temperature != nil {
		v := *t.Temperature
		cp.Temperature = &v
	}
	if t.MaxTokens != nil {
		v := *t.MaxTokens
		cp.MaxTokens = &v
	}
	if t.TopP != nil {
		v := *t.TopP
		cp.TopP = &v
	}
	if t.TopK != nil {
		v := *t.TopK
		cp.TopK = &v
	}
	if t.FrequencyPenalty != nil {
		v := *t.FrequencyPenalty
		cp.FrequencyPenalty = &v
	}
	if t.PresencePenalty != nil {
		v := *t.PresencePenalty
		cp.PresencePenalty = &v
	}
	if t.Stream != nil {
		v := *t.Stream
		cp.Stream = &v
	}
	return &cp
}

// Prompt is a reusable template stored at the collection root or inside a
// folder. Title is unique per project so compile-by-name can resolve it.
type Prompt struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description,omitempty" db:"description"`
	Body         MessageMap    `json:"body" db:"body"`
	Config       *TuningParams `json:"config,omitempty" db:"config"`
	ModelName    string        `json:"model_name,omitempty" db:"model_name"`
	ProjectID    uuid.UUID     `json:"project_id" db:"project_id"`
	CollectionID uuid.UUID     `json:"collection_id" db:"collection_id"`
	FolderID     *uuid.UUID    `json:"folder_id,omitempty" db:"folder_id"`
	OwnerID      string        `json:"owner_id" db:"owner_id"`
	Tags         []string      `json:"tags" db:"tags"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	HistoryIDs   []uuid.UUID   `json:"history_ids" db:"history_ids"`
}

// HistoryEntry is an immutable pre-image of a prompt's body and tuning config,
// written before the prompt row is updated.
type HistoryEntry struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	PromptID      uuid.UUID     `json:"prompt_id" db:"prompt_id"`
	Timestamp     time.Time     `json:"timestamp" db:"timestamp"`
	Body          MessageMap    `json:"body" db:"body"`
	Config        *TuningParams `json:"config,omitempty" db:"config"`
	ChangeMessage string        `json:"change_message,omitempty" db:"change_message"`
}
