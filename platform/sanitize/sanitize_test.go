package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Taro Yamada", "Taro Yamada"},
		{"simple tags", "<b>Taro</b> Yamada", "Taro Yamada"},
		{"script tag", "<script>alert(1)</script>Acme", "alert(1)Acme"},
		{"encoded tag", "&lt;img src=x&gt;Acme", "Acme"},
		{"entities", "Smith &amp; Sons", "Smith & Sons"},
		{"surrounding whitespace", "  Acme  ", "Acme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripHTML(tc.input); got != tc.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
