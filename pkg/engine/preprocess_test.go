package engine

import "testing"

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(solid :name "a")`,
			expect: `(solid "__kw_name" "a")`,
		},
		{
			name:   "multiple keywords",
			input:  `(f :a 1 :b 2)`,
			expect: `(f "__kw_a" 1 "__kw_b" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \"a-b\" :x"`,
			expect: `"say \"a-b\" :x"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw a-b`",
			expect: "`raw :kw a-b`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def top-left (vertex 0 1 0))`,
			expect: `(def top_left (vertex 0 1 0))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vertex -1 0 -2.5)`,
			expect: `(vertex -1 0 -2.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "comment ends at newline",
			input:  "; note\n(box 1 2 3)",
			expect: "// note\n(box 1 2 3)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:solid-name`,
			expect: `"__kw_solid-name"`,
		},
		{
			name:   "unterminated string",
			input:  `"open :kw`,
			expect: `"open :kw`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
