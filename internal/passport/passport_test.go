package passport

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1234567890", "********90"},
		{"AB1234567", "*******67"},
		{"12 34 567890", "** ** ****90"},
		{"N-123-456", "*-***-*56"},
		// Two or fewer alphanumerics: everything is hidden
		{"12", "**"},
		{"A", "*"},
		{"1-2", "***"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Mask(tt.input); got != tt.expected {
				t.Errorf("Mask(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIssuingCountryFromMRZ(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard line 1", "P<RUSIVANOV<<IVAN<<<<<<<<<<<<<<<<<<<<<<<<<<<", "RUS"},
		{"two lines", "P<USASMITH<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<\n1234567890USA8501019M2501012<<<<<<<<<<<<<<08", "USA"},
		{"leading blank line", "\nP<GBRDOE<<JANE<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<", "GBR"},
		{"lowercase code uppercased", "P<rusIVANOV<<IVAN", "RUS"},
		{"prefix elsewhere in line", "XXP<AREALNAME<<A", "ARE"},
		{"non-alpha code", "P<12AIVANOV", ""},
		{"too short", "P<RU", ""},
		{"empty", "", ""},
		{"whitespace only", "   \n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IssuingCountryFromMRZ(tt.input); got != tt.expected {
				t.Errorf("IssuingCountryFromMRZ(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCountryDisplay(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "RUSSIA, Moscow"},
		{"RUS", "RUSSIA, Moscow"},
		{"rus", "RUSSIA, Moscow"},
		{"USA", "USA"},
		{"ARE", "UAE"},
		{"GBR", "UK"},
		// Unknown codes pass through uppercased
		{"fra", "FRA"},
		{"KAZ", "KAZ"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CountryDisplay(tt.input); got != tt.expected {
				t.Errorf("CountryDisplay(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
