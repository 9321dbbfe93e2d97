package scheduling

import (
	"hash/fnv"
	"strconv"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// fingerprint is a stable hash over the canonicalized request used as the
// sole source of pseudo-randomness (spec.md §4.A, §9 "deterministic
// randomness"). It is computed with hash/fnv, the same hash family the
// teacher already reaches for in pkg/scheduler/optimized_scheduler.go
// for its own constraint and cache keys.
func computeFingerprint(n *normalized) uint64 {
	h := fnv.New64a()
	write := func(s string) { h.Write([]byte(s)); h.Write([]byte{0}) }

	for _, op := range n.operators {
		write(string(op.ID))
		write(string(op.Type))
		write(string(op.Status))
	}
	for _, t := range n.tasks {
		write(string(t.ID))
		write(string(t.RequiredSkill))
	}
	write(strconv.Itoa(n.rules.RandomizationFactor))
	write(strconv.FormatBool(n.rules.StrictSkillMatching))
	write(strconv.FormatBool(n.rules.AllowConsecutiveHeavyShifts))
	write(strconv.Itoa(n.rules.MaxConsecutiveDaysOnSameTask))

	return h.Sum64()
}

// subSeed derives a per-(operator,day,task) sub-seed from the
// fingerprint by mixing in the candidate identity, so jitter stays
// deterministic without any global RNG (spec.md §9).
func subSeed(fingerprint uint64, opID types.OperatorID, day types.Weekday, taskID types.TaskID) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(fingerprint >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(opID))
	h.Write([]byte{byte(day)})
	h.Write([]byte(taskID))
	return h.Sum64()
}

// splitmix64 is a small, fast, deterministic PRNG step used to turn a
// sub-seed into a bounded jitter value without consulting any global
// randomness source (spec.md §9 "splittable PRNG").
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// jitter returns a deterministic value in [-magnitude, magnitude] derived
// from seed.
func jitter(seed uint64, magnitude float64) float64 {
	if magnitude <= 0 {
		return 0
	}
	r := splitmix64(seed)
	// Map the top 53 bits onto [0,1) the way math/rand's float64 does.
	frac := float64(r>>11) / (1 << 53)
	return (frac*2 - 1) * magnitude
}
