package srcscan

import "testing"

func TestCriteriaSatisfies(t *testing.T) {
	tt := []struct {
		name string
		c    Criteria
		d    Details
		want bool
	}{
		{
			name: "name pattern matches",
			c:    Criteria{NamePattern: "scancode*"},
			d:    Details{Name: "scancode-toolkit", Version: "1.0"},
			want: true,
		},
		{
			name: "name pattern rejects",
			c:    Criteria{NamePattern: "licensee"},
			d:    Details{Name: "scancode-toolkit"},
			want: false,
		},
		{
			name: "version below minimum",
			c:    Criteria{MinVersion: "2.0"},
			d:    Details{Version: "1.9"},
			want: false,
		},
		{
			name: "version within range",
			c:    Criteria{MinVersion: "1.0", MaxVersion: "3.0"},
			d:    Details{Version: "2.5.1"},
			want: true,
		},
		{
			name: "version above maximum",
			c:    Criteria{MaxVersion: "3.0"},
			d:    Details{Version: "3.1"},
			want: false,
		},
		{
			name: "config predicate rejects",
			c:    Criteria{ConfigOK: ExactConfig("abc")},
			d:    Details{ConfigFingerprint: "xyz"},
			want: false,
		},
		{
			name: "config predicate accepts",
			c:    Criteria{ConfigOK: ExactConfig("abc")},
			d:    Details{ConfigFingerprint: "abc"},
			want: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Satisfies(tc.d); got != tc.want {
				t.Errorf("Satisfies() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tt := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.10.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0", "1.0.0", 0},
		{"1.0", "1.0.0", 0},
	}
	for _, tc := range tt {
		if got := compareVersions(tc.a, tc.b); sign(got) != sign(tc.want) {
			t.Errorf("compareVersions(%q, %q) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
