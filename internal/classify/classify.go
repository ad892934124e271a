// Package classify assigns a document type from filename and early-page
// content heuristics.
package classify

import (
	"strings"

	"github.com/DanielTsay1/AMS/internal/extract"
)

// DocType is the heuristic category assigned to a document.
type DocType string

// The fixed document type set.
const (
	TypePolicy   DocType = "policy"
	TypeManual   DocType = "manual"
	TypeFAQ      DocType = "faq"
	TypeGuide    DocType = "guide"
	TypeDocument DocType = "document"
)

// Valid reports whether t is one of the fixed document types.
func (t DocType) Valid() bool {
	switch t {
	case TypePolicy, TypeManual, TypeFAQ, TypeGuide, TypeDocument:
		return true
	}
	return false
}

// contentPageLimit is how many leading pages contribute to content matching.
const contentPageLimit = 3

// Rule evaluation order is fixed: the first matching rule wins.
var filenameRules = []struct {
	words []string
	tag   DocType
}{
	{[]string{"policy", "policies"}, TypePolicy},
	{[]string{"manual", "guide", "handbook"}, TypeManual},
	{[]string{"faq", "questions", "answers"}, TypeFAQ},
}

var contentRules = []struct {
	words []string
	tag   DocType
}{
	{[]string{"policy", "procedure", "guidelines", "rules"}, TypePolicy},
	{[]string{"manual", "instructions", "how to", "step by step"}, TypeGuide},
	{[]string{"frequently asked", "faq", "q:", "a:", "question:", "answer:"}, TypeFAQ},
}

// Classify determines the document type from the display filename and the
// extracted pages. Filename patterns take precedence over content patterns;
// when neither matches, TypeDocument is returned. The function is pure and
// deterministic.
func Classify(filename string, pages []extract.Page) DocType {
	name := strings.ToLower(filename)
	for _, rule := range filenameRules {
		if containsAny(name, rule.words) {
			return rule.tag
		}
	}

	content := leadingContent(pages)
	for _, rule := range contentRules {
		if containsAny(content, rule.words) {
			return rule.tag
		}
	}

	return TypeDocument
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func leadingContent(pages []extract.Page) string {
	var b strings.Builder
	for i, page := range pages {
		if i >= contentPageLimit {
			break
		}
		b.WriteString(strings.ToLower(page.Text))
		b.WriteString(" ")
	}
	return b.String()
}
