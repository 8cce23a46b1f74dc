package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"plant-growth-lab/internal/domain"
)

// ComputeProfileID computes a deterministic identifier for a mean daily profile.
// Formula: SHA256(dataset|series|channel|window|period_minutes|first_day|last_day)
// Returns the first 16 bytes of the hash, base58-encoded.
func ComputeProfileID(
	dataset string,
	series string,
	channel string,
	window string,
	periodMinutes int,
	days []domain.Day,
) string {
	first, last := "", ""
	if len(days) > 0 {
		first = days[0].String()
		last = days[len(days)-1].String()
	}

	data := fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s",
		dataset,
		series,
		channel,
		window,
		periodMinutes,
		first,
		last,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
