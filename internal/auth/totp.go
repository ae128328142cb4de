package auth

import (
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateTOTPSecret creates an enrolment key for the admin account and a
// PNG QR code of its otpauth URL.
func GenerateTOTPSecret(account, issuer string) (*otp.Key, []byte, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return key, png, nil
}

func ValidateTOTPCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
