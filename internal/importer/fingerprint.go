package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Fingerprint computes the idempotency hash for a booking row. It depends
// only on guest name, check-in date, and payout; changing any other field
// does not alter it.
func Fingerprint(guestName string, startDate time.Time, totalPayoutVND int64) string {
	payload := guestName + "-" + startDate.Format("2006-01-02") + "-" + strconv.FormatInt(totalPayoutVND, 10)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
