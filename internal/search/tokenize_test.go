package search_test

import (
	"reflect"
	"testing"

	"github.com/DanielTsay1/AMS/internal/search"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			"simple terms",
			"refund policy",
			[]string{"refund", "policy"},
		},
		{
			"lowercases",
			"Refund POLICY",
			[]string{"refund", "policy"},
		},
		{
			"strips punctuation",
			"refund, policy! (2024)",
			[]string{"refund", "policy", "2024"},
		},
		{
			"drops stop words",
			"the refund and a policy or an exception",
			[]string{"refund", "policy", "exception"},
		},
		{
			"drops short tokens",
			"a b c refund",
			[]string{"refund"},
		},
		{
			"keeps two character tokens",
			"go hr",
			[]string{"go", "hr"},
		},
		{
			"punctuation splits tokens",
			"step-by-step",
			[]string{"step", "by", "step"},
		},
		{
			"only stop words",
			"the and or",
			nil,
		},
		{
			"empty",
			"",
			nil,
		},
		{
			"only punctuation",
			"!?.,;:",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.Tokenize(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
