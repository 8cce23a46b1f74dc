package idhash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"plant-growth-lab/internal/domain"
)

// ComputeFrameFingerprint hashes a frame's channels, timestamps and values.
// Two runs over the same input data get the same fingerprint whatever the
// source (CSV or warehouse). Returns hex-encoded hash (64 characters).
func ComputeFrameFingerprint(f *domain.Frame) string {
	h := sha256.New()
	var buf [8]byte

	for _, t := range f.Times() {
		binary.BigEndian.PutUint64(buf[:], uint64(t.UnixMilli()))
		h.Write(buf[:])
	}
	for _, name := range f.Channels() {
		h.Write([]byte(name))
		h.Write([]byte{0})
		s, _ := f.Series(name)
		for _, v := range s.Values {
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
