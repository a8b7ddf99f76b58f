// Package parser extracts credit/debit intents from free-form chat text.
//
// Commands are not anchored: the first matching occurrence anywhere in
// the message wins, and ordinary chat that matches nothing is silently
// ignored. The verb lists and point-unit noun come from the roster
// vocabulary, so the command language is configuration, not code.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"smehachi/internal/core"
	"smehachi/internal/roster"
)

// rule is one declarative command shape: trigger verbs, an integer
// amount, the unit noun with optional inflectional suffixes, then the
// free-text target. Rules are evaluated in fixed order and at most one
// fires per message.
type rule struct {
	kind core.IntentKind
	re   *regexp.Regexp
}

type Parser struct {
	rules []rule
}

// New compiles the command rules from a vocabulary. Credit is compiled
// before debit; evaluation order follows compilation order.
func New(v roster.Vocabulary) (*Parser, error) {
	if strings.TrimSpace(v.UnitNoun) == "" {
		return nil, errors.New("vocabulary: unit noun is empty")
	}
	if len(v.CreditVerbs) == 0 {
		return nil, errors.New("vocabulary: no credit verbs")
	}
	if len(v.DebitVerbs) == 0 {
		return nil, errors.New("vocabulary: no debit verbs")
	}

	credit, err := compile(core.Credit, v.CreditVerbs, nil, v)
	if err != nil {
		return nil, err
	}
	debit, err := compile(core.Debit, v.DebitVerbs, v.DebitPrepositions, v)
	if err != nil {
		return nil, err
	}

	return &Parser{rules: []rule{credit, debit}}, nil
}

func compile(kind core.IntentKind, verbs, prepositions []string, v roster.Vocabulary) (rule, error) {
	var b strings.Builder
	b.WriteString(`(?i)(?:`)
	b.WriteString(alternation(verbs))
	b.WriteString(`)\s+(\d+)\s+`)
	b.WriteString(regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(v.UnitNoun))))
	if len(v.UnitSuffixes) > 0 {
		b.WriteString(`(?:`)
		b.WriteString(alternation(v.UnitSuffixes))
		b.WriteString(`)?`)
	}
	if len(prepositions) > 0 {
		b.WriteString(`(?:\s+(?:`)
		b.WriteString(alternation(prepositions))
		b.WriteString(`))?`)
	}
	b.WriteString(`\s+(.+)`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return rule{}, fmt.Errorf("compile %s rule: %w", kind, err)
	}
	return rule{kind: kind, re: re}, nil
}

func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return strings.Join(quoted, "|")
}

// Parse returns the intent carried by text, if any. A false result is
// the expected majority case, not an error.
func (p *Parser) Parse(text string) (core.Intent, bool) {
	for _, r := range p.rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil || amount <= 0 {
			return core.Intent{}, false
		}
		return core.Intent{
			Kind:      r.kind,
			Amount:    amount,
			RawTarget: m[2],
		}, true
	}
	return core.Intent{}, false
}
