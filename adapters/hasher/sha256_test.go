package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	f := New()

	fp := f.Fingerprint("AIzaSy-secret")
	assert.Len(t, fp, fingerprintLength)
	assert.Equal(t, fp, f.Fingerprint("AIzaSy-secret"))
	assert.NotEqual(t, fp, f.Fingerprint("AIzaSy-other"))
	assert.NotContains(t, fp, "AIza")
	assert.Empty(t, f.Fingerprint(""))
}
