package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Asha Rao", "Asha Rao"},
		{"  Asha Rao  ", "Asha Rao"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClubKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Chess Club", "chessclub"},
		{" chess club ", "chessclub"},
		{"CHESS\tCLUB", "chessclub"},
		{"Art Club", "artclub"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ClubKey(tt.input)
			if got != tt.want {
				t.Errorf("ClubKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"6123456789", "6123456789"},
		{"+91 612-345-6789", "916123456789"},
		{"(612) 345 6789", "6123456789"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Phone(tt.input)
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		digits string
		want   bool
	}{
		{"6123456789", true},
		{"9876543210", true},
		{"5123456789", false}, // first digit below 6
		{"91234567", false},   // too short
		{"61234567890", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			got := ValidPhone(tt.digits)
			if got != tt.want {
				t.Errorf("ValidPhone(%q) = %v, want %v", tt.digits, got, tt.want)
			}
		})
	}
}
