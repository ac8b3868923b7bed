package utils

import "testing"

func TestGenerateCodeLength(t *testing.T) {
	code, err := GenerateCode(16)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if len(code) != 32 {
		t.Errorf("Expected 32 hex characters, got %d", len(code))
	}

	other, err := GenerateCode(16)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if code == other {
		t.Error("Consecutive codes should not collide")
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("Expected 6 digits, got %q", otp)
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("Expected only digits, got %q", otp)
			}
		}
	}
}
