package arxiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single word", "diffusion", "diffusion"},
		{"multi word quoted", "large language model", `"large language model"`},
		{"whitespace collapsed", "  large \t language  ", `"large language"`},
		{"embedded quotes removed", `deep "learning"`, `"deep learning"`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTerm(tt.in))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, `au:"Geoffrey Hinton"`, BuildQuery("Geoffrey Hinton", ""))
	assert.Equal(t, "all:transformers", BuildQuery("", "transformers"))
	assert.Equal(t,
		`au:"Yoshua Bengio" AND all:"diffusion model"`,
		BuildQuery("Yoshua Bengio", "diffusion model"))
	assert.Equal(t, "", BuildQuery("", ""))
}

func TestSanitizeFragment(t *testing.T) {
	assert.Equal(t, "2301.07041v1", sanitizeFragment("2301.07041v1", 80))
	assert.Equal(t, "cond-mat_9901001", sanitizeFragment("cond-mat/9901001", 80))
	assert.Equal(t, "paper", sanitizeFragment("///", 80))
	assert.Equal(t, "abc", sanitizeFragment("abcdef", 3))
}
