package bot

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "0712345678"},
		{"0112345678", "0112345678"},
		{"+254712345678", "0712345678"},
		{"254712345678", "0712345678"},
		{"+254 712 345 678", "0712345678"},
		{"0712-345-678", "0712345678"},
	}
	for _, tc := range cases {
		if got := NormalizePhoneNumber(tc.in); got != tc.want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{
		"0712345678",
		"0112345678",
		"+254712345678",
		"0798 765 432",
	}
	for _, phone := range valid {
		if !IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", phone)
		}
	}

	invalid := []string{
		"",
		"071234567",    // too short
		"07123456789",  // too long
		"0212345678",   // bad prefix
		"+255712345678", // wrong country code
		"0700000000",   // placeholder
		"not a phone",
	}
	for _, phone := range invalid {
		if IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", phone)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := FormatPhoneNumber("+254712345678"); got != "0712 345 678" {
		t.Errorf("FormatPhoneNumber = %q", got)
	}
	if got := FormatPhoneNumber("garbage"); got != "garbage" {
		t.Errorf("unformattable input changed: %q", got)
	}
}
