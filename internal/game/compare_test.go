package game

import "testing"

func TestCompareText(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		guess    string
		strict   bool
		expected bool
	}{
		{
			name:     "strict exact match",
			answer:   "Ford",
			guess:    "Ford",
			strict:   true,
			expected: true,
		},
		{
			name:     "strict is case-insensitive",
			answer:   "Mustang",
			guess:    "mustang",
			strict:   true,
			expected: true,
		},
		{
			name:     "strict rejects substring",
			answer:   "Ford",
			guess:    "For",
			strict:   true,
			expected: false,
		},
		{
			name:     "lenient substring match",
			answer:   "Ford",
			guess:    "For",
			strict:   false,
			expected: true,
		},
		{
			name:     "lenient is asymmetric, guess is the needle",
			answer:   "For",
			guess:    "Ford",
			strict:   false,
			expected: false,
		},
		{
			name:     "empty guess never matches",
			answer:   "Ford",
			guess:    "",
			strict:   false,
			expected: false,
		},
		{
			name:     "whitespace guess never matches",
			answer:   "Ford",
			guess:    "   ",
			strict:   false,
			expected: false,
		},
		{
			name:     "empty answer never matches",
			answer:   "",
			guess:    "Ford",
			strict:   false,
			expected: false,
		},
		{
			name:     "surrounding whitespace is trimmed",
			answer:   "Ford",
			guess:    " ford ",
			strict:   true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompareText(tt.answer, tt.guess, tt.strict)
			if result != tt.expected {
				t.Errorf("CompareText(%q, %q, %v) = %v, want %v",
					tt.answer, tt.guess, tt.strict, result, tt.expected)
			}
		})
	}
}

func TestCompareTextStrictSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Ford", "ford"},
		{"Mustang", "Mustang"},
		{"Alfa Romeo", "giulia"},
	}
	for _, pair := range pairs {
		if CompareText(pair[0], pair[1], true) != CompareText(pair[1], pair[0], true) {
			t.Errorf("strict comparison not symmetric for %q / %q", pair[0], pair[1])
		}
	}
}

func TestCompareYear(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		answer   int
		guess    int
		strict   bool
		expected bool
	}{
		{name: "exact lenient", answer: 2005, guess: 2005, expected: true},
		{name: "within correction band", answer: 2005, guess: 2010, expected: true},
		{name: "below within band", answer: 2005, guess: 2000, expected: true},
		{name: "outside correction band", answer: 2005, guess: 2012, expected: false},
		{name: "strict exact", answer: 2005, guess: 2005, strict: true, expected: true},
		{name: "strict rejects near miss", answer: 2005, guess: 2003, strict: true, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rules.CompareYear(tt.answer, tt.guess, tt.strict)
			if result != tt.expected {
				t.Errorf("CompareYear(%d, %d, %v) = %v, want %v",
					tt.answer, tt.guess, tt.strict, result, tt.expected)
			}
		})
	}
}

func TestClassifyYear(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		answer   int
		guess    int
		strict   bool
		expected GuessClass
	}{
		{name: "within correction is correct", answer: 1969, guess: 1972, expected: ClassCorrect},
		{name: "within leniency only is close", answer: 1969, guess: 1977, expected: ClassClose},
		{name: "outside leniency is incorrect", answer: 1969, guess: 1990, expected: ClassIncorrect},
		{name: "strict near miss is incorrect", answer: 1969, guess: 1970, strict: true, expected: ClassIncorrect},
		{name: "strict exact is correct", answer: 1969, guess: 1969, strict: true, expected: ClassCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rules.ClassifyYear(tt.answer, tt.guess, tt.strict)
			if result != tt.expected {
				t.Errorf("ClassifyYear(%d, %d, %v) = %v, want %v",
					tt.answer, tt.guess, tt.strict, result, tt.expected)
			}
		})
	}
}

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		guess    string
		strict   bool
		expected GuessClass
	}{
		{name: "empty guess is skipped", answer: "Ford", guess: "", expected: ClassSkipped},
		{name: "lenient substring is correct", answer: "Ford Motors", guess: "Ford", expected: ClassCorrect},
		{name: "lenient miss is incorrect", answer: "Ford", guess: "Toyota", expected: ClassIncorrect},
		{name: "strict substring is close", answer: "Ford Motors", guess: "Ford", strict: true, expected: ClassClose},
		{name: "strict exact is correct", answer: "Ford", guess: "ford", strict: true, expected: ClassCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyText(tt.answer, tt.guess, tt.strict)
			if result != tt.expected {
				t.Errorf("ClassifyText(%q, %q, %v) = %v, want %v",
					tt.answer, tt.guess, tt.strict, result, tt.expected)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	if got := ParseYear("1969"); got != 1969 {
		t.Errorf("ParseYear(\"1969\") = %d, want 1969", got)
	}
	if got := ParseYear(" 2001 "); got != 2001 {
		t.Errorf("ParseYear(\" 2001 \") = %d, want 2001", got)
	}
	if got := ParseYear("not a year"); got != 0 {
		t.Errorf("ParseYear on garbage = %d, want 0", got)
	}
	if got := ParseYear(""); got != 0 {
		t.Errorf("ParseYear(\"\") = %d, want 0", got)
	}
}
