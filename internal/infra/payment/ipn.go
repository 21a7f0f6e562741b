package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"

	"pluxo-backend/internal/domain"
)

// IPNVerifier authenticates NOWPayments webhook deliveries.
//
// The provider signs HMAC-SHA512 over the JSON body re-serialized with object
// keys sorted lexicographically. With no secret configured the verifier trusts
// every delivery: a deliberate weaker-trust mode for deployments without a
// shared IPN secret, not an error.
type IPNVerifier struct {
	secret string
}

func NewIPNVerifier(secret string) *IPNVerifier {
	return &IPNVerifier{secret: secret}
}

func (v *IPNVerifier) Enabled() bool { return v.secret != "" }

// Verify checks the x-nowpayments-sig header against the raw body. Mismatch
// fails closed with domain.ErrInvalidSignature.
func (v *IPNVerifier) Verify(rawBody []byte, signature string) error {
	if v.secret == "" {
		return nil
	}
	expected, err := v.Sign(rawBody)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex signature for a raw JSON body. Exported so tests and
// tooling can produce valid deliveries.
func (v *IPNVerifier) Sign(rawBody []byte) (string, error) {
	canonical, err := canonicalize(rawBody)
	if err != nil {
		return "", err
	}
	h := hmac.New(sha512.New, []byte(v.secret))
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// canonicalize re-serializes the JSON object with sorted keys.
// encoding/json marshals map keys in lexicographic order, which matches the
// provider's JSON.stringify(body, Object.keys(body).sort()) for the flat
// payloads NOWPayments sends.
func canonicalize(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber() // keep numbers verbatim, they feed the HMAC
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
