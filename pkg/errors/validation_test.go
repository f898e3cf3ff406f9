package errors

import "testing"

func TestValidateModelPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "models/bin_packing.toml", false},
		{"yaml", "model.yaml", false},
		{"yml upper", "MODEL.YML", false},
		{"json absolute", "/tmp/model.json", false},
		{"dots in name", "v1.2/model.toml", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd.toml", true},
		{"path traversal middle", "foo/../bar.toml", true},
		{"null byte", "foo\x00bar.toml", true},
		{"control char", "foo\x01bar.toml", true},
		{"wrong extension", "model.lp", true},
		{"no extension", "model", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateModelPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "x1", false},
		{"underscore", "_tmp", false},
		{"indexed", "x[3,4]", false},
		{"dotted", "assign.3.7", false},

		{"empty", "", true},
		{"leading digit", "1x", true},
		{"space", "x 1", true},
		{"too long", "x" + string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidModel,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeUnsupportedModel,
		ErrCodeOracle,
		ErrCodeGeneratorLimit,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
