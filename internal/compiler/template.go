package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// MissingVariablesError reports placeholders with no value in the supplied
// variables map. Compilation fails fast instead of emitting the literal
// placeholder text.
type MissingVariablesError struct {
	Names []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("missing template variables: %s", strings.Join(e.Names, ", "))
}

// substitute replaces every {name} placeholder in text with vars[name].
func substitute(text string, vars map[string]string) (string, error) {
	missing := findMissingVars(text, vars)
	if len(missing) > 0 {
		return "", &MissingVariablesError{Names: missing}
	}

	result := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1] // strip { and }
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})

	return result, nil
}

// ExtractVariables returns the distinct placeholder names found in a body, in
// canonical role order.
func ExtractVariables(body models.MessageMap) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, role := range models.RoleOrder {
		for _, text := range body[role] {
			for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
				if len(m) > 1 && !seen[m[1]] {
					vars = append(vars, m[1])
					seen[m[1]] = true
				}
			}
		}
	}
	return vars
}

func findMissingVars(text string, vars map[string]string) []string {
	var missing []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		if _, ok := vars[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	return missing
}

// roleMessages is a role's substituted fragments; slices of these preserve
// the canonical role order that a Go map cannot.
type roleMessages struct {
	role  models.Role
	texts []string
}

// processBody substitutes variables into every fragment, grouped by role in
// canonical order. All missing placeholders across the whole body are
// reported together.
func processBody(body models.MessageMap, vars map[string]string) ([]roleMessages, error) {
	var (
		out     []roleMessages
		missing []string
		seen    = make(map[string]bool)
	)
	for _, role := range models.RoleOrder {
		frags := body[role]
		if len(frags) == 0 {
			continue
		}
		rm := roleMessages{role: role, texts: make([]string, 0, len(frags))}
		for _, frag := range frags {
			text, err := substitute(frag, vars)
			if err != nil {
				var mv *MissingVariablesError
				if !errors.As(err, &mv) {
					return nil, err
				}
				for _, name := range mv.Names {
					if !seen[name] {
						missing = append(missing, name)
						seen[name] = true
					}
				}
				continue
			}
			rm.texts = append(rm.texts, text)
		}
		out = append(out, rm)
	}
	if len(missing) > 0 {
		return nil, &MissingVariablesError{Names: missing}
	}
	return out, nil
}
