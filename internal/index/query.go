package index

import (
	"fmt"
	"strings"
)

// Mode selects how multiple search terms combine.
type Mode string

// Matching modes. ModeAnd requires every term to match within a page;
// ModeOr requires at least one.
const (
	ModeAnd Mode = "and"
	ModeOr  Mode = "or"
)

// ParseMode normalizes a raw mode string, defaulting to ModeAnd.
func ParseMode(raw string) Mode {
	if strings.EqualFold(raw, string(ModeOr)) {
		return ModeOr
	}
	return ModeAnd
}

// BuildTSQuery renders search terms as a to_tsquery expression with prefix
// matching, combined per mode: "refund:* & polic:*".
func BuildTSQuery(terms []string, mode Mode) string {
	lexemes := make([]string, 0, len(terms))
	for _, term := range terms {
		if t := sanitizeLexeme(term); t != "" {
			lexemes = append(lexemes, t+":*")
		}
	}

	op := " & "
	if mode == ModeOr {
		op = " | "
	}
	return strings.Join(lexemes, op)
}

// buildLikeClauses renders one ILIKE containment condition per term with
// sequential parameter numbers starting at startParam.
func buildLikeClauses(terms []string, mode Mode, startParam int) (string, []any) {
	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, term := range terms {
		clauses[i] = fmt.Sprintf("p.content ILIKE $%d", startParam+i)
		args[i] = "%" + term + "%"
	}

	op := " AND "
	if mode == ModeOr {
		op = " OR "
	}
	return "(" + strings.Join(clauses, op) + ")", args
}

// sanitizeLexeme strips characters with meaning inside tsquery syntax,
// keeping letters and digits only.
func sanitizeLexeme(term string) string {
	var b strings.Builder
	for _, r := range term {
		if r == '\'' || r == '\\' || r == ':' || r == '&' || r == '|' || r == '!' || r == '(' || r == ')' || r == '<' || r == '>' || r == '*' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
