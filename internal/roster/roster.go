// Package roster maps free-text mentions to canonical participants.
//
// The participant set, alias tables and command vocabulary are data, not
// code: they are loaded from a YAML file so the bot can be redeployed for
// a different group or language without rebuilding.
package roster

import (
	"fmt"
	"os"
	"strings"

	"smehachi/internal/core"

	"gopkg.in/yaml.v3"
)

// Entry is one configured participant with the surface forms used to
// refer to them in chat (inflected forms, nicknames, handles).
type Entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Vocabulary is the command word set consumed by the intent parser.
type Vocabulary struct {
	UnitNoun          string   `yaml:"unit_noun"`
	UnitSuffixes      []string `yaml:"unit_suffixes"`
	CreditVerbs       []string `yaml:"credit_verbs"`
	DebitVerbs        []string `yaml:"debit_verbs"`
	DebitPrepositions []string `yaml:"debit_prepositions"`
}

// File is the on-disk roster configuration.
type File struct {
	Vocabulary   Vocabulary `yaml:"vocabulary"`
	Participants []Entry    `yaml:"participants"`
}

// Roster resolves mention strings to canonical participants.
type Roster struct {
	names   []core.Participant
	byAlias map[string]core.Participant
}

// Load reads and parses a roster file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}
	return &f, nil
}

// New builds a Roster from configured entries. Aliases are normalized up
// front so lookups are a single map access. Canonical names resolve to
// themselves even when not listed as aliases.
func New(entries []Entry) (*Roster, error) {
	if len(entries) == 0 {
		return nil, core.ErrEmptyRoster
	}

	var errs []string
	r := &Roster{
		byAlias: make(map[string]core.Participant),
	}
	seen := make(map[core.Participant]bool)

	for _, e := range entries {
		name := core.Participant(strings.TrimSpace(e.Name))
		if name == "" {
			errs = append(errs, "participant with empty name")
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Sprintf("duplicate participant name '%s'", name))
			continue
		}
		seen[name] = true
		r.names = append(r.names, name)

		for _, alias := range append([]string{string(name)}, e.Aliases...) {
			norm := Normalize(alias)
			if norm == "" {
				continue
			}
			if owner, ok := r.byAlias[norm]; ok {
				if owner != name {
					errs = append(errs, fmt.Sprintf("alias '%s' maps to both '%s' and '%s'", norm, owner, name))
				}
				continue
			}
			r.byAlias[norm] = name
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("roster validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return r, nil
}

// Normalize prepares a mention string for alias lookup: trim whitespace,
// lowercase, strip a single leading "@".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "@")
}

// Resolve maps a raw mention to a canonical participant. Matching is
// exact on the normalized form; there is no fuzzy matching.
func (r *Roster) Resolve(raw string) (core.Participant, bool) {
	p, ok := r.byAlias[Normalize(raw)]
	return p, ok
}

// Contains reports whether p is a configured participant.
func (r *Roster) Contains(p core.Participant) bool {
	for _, name := range r.names {
		if name == p {
			return true
		}
	}
	return false
}

// Participants returns the canonical names in configured order.
func (r *Roster) Participants() []core.Participant {
	out := make([]core.Participant, len(r.names))
	copy(out, r.names)
	return out
}
