package models

import (
	"encoding/json"
	"testing"
)

func TestFlexStringsUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "scalar string",
			input:    `"V6"`,
			expected: []string{"V6"},
		},
		{
			name:     "list of strings",
			input:    `["FWD","RWD"]`,
			expected: []string{"FWD", "RWD"},
		},
		{
			name:     "null",
			input:    `null`,
			expected: nil,
		},
		{
			name:     "numeric scalar",
			input:    `6`,
			expected: []string{"6"},
		},
		{
			name:     "list with nulls",
			input:    `["V6",null]`,
			expected: []string{"V6", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexStrings
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if len(f) != len(tt.expected) {
				t.Fatalf("got %v, want %v", f, tt.expected)
			}
			for i := range f {
				if f[i] != tt.expected[i] {
					t.Errorf("element %d = %q, want %q", i, f[i], tt.expected[i])
				}
			}
		})
	}
}

func TestFlexStringsMarshal(t *testing.T) {
	tests := []struct {
		name     string
		value    FlexStrings
		expected string
	}{
		{name: "empty marshals to null", value: nil, expected: `null`},
		{name: "single value stays scalar", value: FlexStrings{"V6"}, expected: `"V6"`},
		{name: "multiple values stay a list", value: FlexStrings{"FWD", "RWD"}, expected: `["FWD","RWD"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("Marshal = %s, want %s", data, tt.expected)
			}
		})
	}
}

func TestFlexStringsJoin(t *testing.T) {
	f := FlexStrings{"V6", "", "V8"}
	if got := f.Join(); got != "V6, V8" {
		t.Errorf("Join() = %q, want %q", got, "V6, V8")
	}
}

func TestCarEligibility(t *testing.T) {
	car := Car{Index: 1, Make: "Ford", Model: "Mustang", Year: "1969"}
	if car.Eligible() {
		t.Error("car without gameData must not be eligible")
	}
	if car.AttemptBudget() != 0 {
		t.Errorf("budget without gameData = %d, want 0", car.AttemptBudget())
	}

	car.GameData = make([]GameRegion, 5)
	if !car.Eligible() {
		t.Error("car with gameData should be eligible")
	}
	if car.AttemptBudget() != 4 {
		t.Errorf("budget = %d, want 4", car.AttemptBudget())
	}
}

func TestAttemptEncoding(t *testing.T) {
	tests := []struct {
		name    string
		attempt Attempt
		encoded string
	}{
		{
			name:    "structured guess",
			attempt: Attempt{Year: "1969", Make: "Ford", Model: "Mustang"},
			encoded: "1969_Ford_Mustang",
		},
		{
			name:    "skipped sentinel",
			attempt: Attempt{Skipped: true},
			encoded: "skipped",
		},
		{
			name:    "empty fields survive",
			attempt: Attempt{Year: "1969"},
			encoded: "1969__",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attempt.Encode(); got != tt.encoded {
				t.Errorf("Encode() = %q, want %q", got, tt.encoded)
			}
			parsed, err := ParseAttempt(tt.encoded)
			if err != nil {
				t.Fatalf("ParseAttempt(%q) failed: %v", tt.encoded, err)
			}
			if parsed != tt.attempt {
				t.Errorf("round trip = %+v, want %+v", parsed, tt.attempt)
			}
		})
	}
}

func TestParseAttemptMalformed(t *testing.T) {
	if _, err := ParseAttempt("just-one-field"); err == nil {
		t.Error("expected error for a string without separators")
	}
}

func TestParseAttemptExtraSeparators(t *testing.T) {
	parsed, err := ParseAttempt("1969_Ford_Mustang_GT")
	if err != nil {
		t.Fatalf("ParseAttempt failed: %v", err)
	}
	if parsed.Model != "Mustang_GT" {
		t.Errorf("extra separators should fold into model, got %q", parsed.Model)
	}
}

func TestGameSessionAllSkipped(t *testing.T) {
	sess := GameSession{}
	if sess.AllSkipped() {
		t.Error("no attempts is not all-skipped")
	}

	sess.Attempts = []Attempt{{Skipped: true}, {Skipped: true}}
	if !sess.AllSkipped() {
		t.Error("expected all-skipped")
	}

	sess.Attempts = append(sess.Attempts, Attempt{Year: "1969", Make: "Ford", Model: "Mustang"})
	if sess.AllSkipped() {
		t.Error("structured attempt breaks all-skipped")
	}
}
