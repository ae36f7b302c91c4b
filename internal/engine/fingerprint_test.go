package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mazraati/assistant-platform/internal/model"
)

func TestFingerprintStableWithinHour(t *testing.T) {
	cc := model.ClientContext{
		UserAgent:    "Mozilla/5.0",
		Language:     "ar",
		ScreenWidth:  1920,
		ScreenHeight: 1080,
		Timezone:     "Asia/Riyadh",
	}

	at := time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 10, 55, 0, 0, time.UTC)

	assert.Equal(t, Fingerprint(cc, at), Fingerprint(cc, later))
	assert.True(t, len(Fingerprint(cc, at)) > len("anon-"))
	assert.Contains(t, Fingerprint(cc, at), "anon-")
}

func TestFingerprintRotatesAcrossHours(t *testing.T) {
	cc := model.ClientContext{UserAgent: "Mozilla/5.0", Language: "ar"}

	at := time.Date(2026, 3, 14, 10, 59, 0, 0, time.UTC)
	next := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)

	assert.NotEqual(t, Fingerprint(cc, at), Fingerprint(cc, next))
}

func TestFingerprintVariesByEnvironment(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	a := model.ClientContext{UserAgent: "Mozilla/5.0", Language: "ar"}
	b := model.ClientContext{UserAgent: "Mozilla/5.0", Language: "en"}

	assert.NotEqual(t, Fingerprint(a, at), Fingerprint(b, at))
}
