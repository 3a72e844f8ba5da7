package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"api": map[string]any{
			"baseUrl": "http://localhost:8000/api",
		},
		"payment": map[string]any{
			"clientId":     "",
			"callbackPort": 4280,
		},
		"qrcode": map[string]any{
			"outputDir": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "API_BASEURL", want: "api.baseUrl"},
		{envKey: "PAYMENT_CLIENTID", want: "payment.clientId"},
		{envKey: "PAYMENT_CALLBACKPORT", want: "payment.callbackPort"},
		{envKey: "QRCODE_OUTPUTDIR", want: "qrcode.outputDir"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
