package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	payload := []byte(`{"event":"wallet.debited"}`)

	signature := Sign("whsec_test", payload)

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, signature)
	assert.Equal(t, signature, Sign("whsec_test", payload), "signing is deterministic")
	assert.NotEqual(t, signature, Sign("whsec_other", payload))
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"event":"ticket.scanned"}`)
	signature := Sign("whsec_test", payload)

	assert.True(t, Verify("whsec_test", payload, signature))
	assert.False(t, Verify("whsec_other", payload, signature))
	assert.False(t, Verify("whsec_test", []byte(`tampered`), signature))
	assert.False(t, Verify("whsec_test", payload, "sha256=deadbeef"))
}
