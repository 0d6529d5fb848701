package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	sum := sha256.Sum256([]byte("Nguyễn Văn A-2025-10-15-1500000"))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, Fingerprint("Nguyễn Văn A", date, 1_500_000))
	assert.Len(t, Fingerprint("Nguyễn Văn A", date, 1_500_000), 64)
}

func TestFingerprintDependsOnlyOnIdentityFields(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	a := Fingerprint("A", date, 100_000)
	assert.Equal(t, a, Fingerprint("A", date, 100_000))
	assert.NotEqual(t, a, Fingerprint("B", date, 100_000))
	assert.NotEqual(t, a, Fingerprint("A", date.AddDate(0, 0, 1), 100_000))
	assert.NotEqual(t, a, Fingerprint("A", date, 100_001))
}

func TestFingerprintIgnoresTimeOfDay(t *testing.T) {
	d1 := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 10, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, Fingerprint("A", d1, 100_000), Fingerprint("A", d2, 100_000))
}
