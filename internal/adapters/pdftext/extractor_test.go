package pdftext

import (
	"errors"
	"testing"

	"bookparse/internal/parse"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"file is Encrypted", parse.ErrEncrypted},
		{"password required to open stream", parse.ErrEncrypted},
		{"malformed PDF: bad xref", parse.ErrMalformed},
		{"invalid trailer dictionary", parse.ErrMalformed},
		{"read /tmp/x.pdf: no such device", nil},
	}
	for _, c := range cases {
		got := classify(errors.New(c.in))
		if c.want == nil {
			if errors.Is(got, parse.ErrEncrypted) || errors.Is(got, parse.ErrMalformed) {
				t.Fatalf("classify(%q) wrapped a sentinel, want passthrough", c.in)
			}
			continue
		}
		if !errors.Is(got, c.want) {
			t.Fatalf("classify(%q) = %v, want wrapping %v", c.in, got, c.want)
		}
	}
}
