package validation

import (
	"testing"
)

func TestValidateRouteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "pipe separator",
			input: "a2a0ccea32023010|2023-07-27--13-01-19",
		},
		{
			name:  "slash separator",
			input: "a2a0ccea32023010/2023-07-27--13-01-19",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "short dongle id",
			input:   "a2a0cc|2023-07-27--13-01-19",
			wantErr: true,
		},
		{
			name:    "uppercase dongle id",
			input:   "A2A0CCEA32023010|2023-07-27--13-01-19",
			wantErr: true,
		},
		{
			name:    "missing timestamp",
			input:   "a2a0ccea32023010|",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRouteName(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_StructRules(t *testing.T) {
	type request struct {
		Name string `validate:"required,route_name"`
	}

	v := New()
	if err := v.Struct(request{Name: "a2a0ccea32023010|2023-07-27--13-01-19"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Struct(request{Name: "nope"}); err == nil {
		t.Errorf("expected error, got nil")
	}
}
