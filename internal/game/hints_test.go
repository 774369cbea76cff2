package game

import (
	"testing"

	"cardle/internal/models"
)

func TestExtractHint(t *testing.T) {
	tests := []struct {
		name       string
		value      models.FlexStrings
		key        string
		expected   string
		expectHint bool
	}{
		{
			name:       "nil value produces no hint",
			value:      nil,
			key:        "cylinders",
			expectHint: false,
		},
		{
			name:       "all-empty list produces no hint",
			value:      models.FlexStrings{"", ""},
			key:        "cylinders",
			expectHint: false,
		},
		{
			name:       "scalar value",
			value:      models.FlexStrings{"V6"},
			key:        "cylinders",
			expected:   "V6",
			expectHint: true,
		},
		{
			name:       "list filters empty elements",
			value:      models.FlexStrings{"V6", "", "V8"},
			key:        "cylinders",
			expected:   "V6, V8",
			expectHint: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, ok := ExtractHint(tt.value, tt.key)
			if ok != tt.expectHint {
				t.Fatalf("ExtractHint() ok = %v, want %v", ok, tt.expectHint)
			}
			if hint != tt.expected {
				t.Errorf("ExtractHint() = %q, want %q", hint, tt.expected)
			}
		})
	}
}

func TestHints(t *testing.T) {
	car := &models.Car{
		Make:      "Ford",
		Model:     "Mustang",
		Year:      "1969",
		Cylinders: models.FlexStrings{"8"},
		Drive:     models.FlexStrings{"RWD", ""},
		FuelType:  models.FlexStrings{"Regular"},
	}

	hints := Hints(car)

	if len(hints) != 3 {
		t.Fatalf("expected 3 hints, got %d: %v", len(hints), hints)
	}
	if hints["cylinders"] != "8" {
		t.Errorf("cylinders hint = %q, want %q", hints["cylinders"], "8")
	}
	if hints["driveTrain"] != "RWD" {
		t.Errorf("driveTrain hint = %q, want %q", hints["driveTrain"], "RWD")
	}
	if _, ok := hints["transmission"]; ok {
		t.Error("transmission hint should be absent, not empty")
	}

	if got := Hints(nil); len(got) != 0 {
		t.Errorf("Hints(nil) should be empty, got %v", got)
	}
}
