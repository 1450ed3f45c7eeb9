package resolve

import (
	"testing"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		input string
		want  Reference
	}{
		{"1", Reference{Number: 1}},
		{"#1", Reference{Number: 1}},
		{"  42  ", Reference{Number: 42}},
		{"7680 <pytest-dev/pytest>", Reference{Repo: "pytest-dev/pytest", Number: 7680}},
		{"7680<pytest-dev/pytest>", Reference{Repo: "pytest-dev/pytest", Number: 7680}},
		{"#2 < octocat/hello-world >", Reference{Repo: "octocat/hello-world", Number: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReference(tt.input)
			if err != nil {
				t.Fatalf("ParseReference(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseReference(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseReference_Invalid(t *testing.T) {
	bad := []string{
		"",
		"abc",
		"0",
		"-1",
		"1.5",
		"1 <no-slash>",
		"1 <too/many/parts>",
		"1 <owner/>",
		"1 </repo>",
		"1 <owner/repo",
		"<owner/repo>",
	}

	for _, input := range bad {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input)
			if err == nil {
				t.Fatalf("ParseReference(%q) = nil, want error", input)
			}
			if !rterrors.Is(err, rterrors.ErrCodeInvalidReference) &&
				rterrors.GetCode(err) == "" {
				t.Errorf("ParseReference(%q) error has no code: %v", input, err)
			}
		})
	}
}

func TestReferenceString(t *testing.T) {
	if got := (Reference{Number: 4}).String(); got != "#4" {
		t.Errorf("String() = %q, want #4", got)
	}
	if got := (Reference{Repo: "pytest-dev/pytest", Number: 7680}).String(); got != "pytest-dev/pytest#7680" {
		t.Errorf("String() = %q", got)
	}
}

func TestReferenceEquality(t *testing.T) {
	a := Reference{Repo: "octocat/hello-world", Number: 1}
	b := Reference{Repo: "octocat/hello-world", Number: 1}
	c := Reference{Number: 1}

	if a != b {
		t.Error("identical references should compare equal")
	}
	if a == c {
		t.Error("references with different repositories should not compare equal")
	}
}
