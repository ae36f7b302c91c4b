package engine

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mazraati/assistant-platform/internal/model"
)

// Fingerprint derives a stable anonymous session key from client environment
// attributes. It is a probabilistic reconciliation key, not a security
// boundary: collisions across callers are possible and accepted.
func Fingerprint(cc model.ClientContext, now time.Time) string {
	parts := []string{
		cc.UserAgent,
		cc.Language,
		strconv.Itoa(cc.ScreenWidth) + "x" + strconv.Itoa(cc.ScreenHeight),
		cc.Timezone,
		now.UTC().Format("2006010215"), // hour bucket
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return "anon-" + fmt.Sprintf("%x", sum)
}
