// Package seatset provides the decoded value type for a row's excluded
// seat numbers.  The database stores exclusions as a compact string
// ("3,7,10-12"); this package parses that form once at the topology
// read boundary so the rest of the engine only ever sees a set of
// integers.
package seatset

import (
    "fmt"
    "sort"
    "strconv"
    "strings"
)

// Set is a set of seat numbers.
type Set map[uint32]struct{}

// New builds a Set from the given seat numbers.
func New(nums ...uint32) Set {
    s := make(Set, len(nums))
    for _, n := range nums {
        s[n] = struct{}{}
    }
    return s
}

// Parse decodes the stored exclusion string.  The format is a
// comma-separated list of seat numbers with optional hyphen ranges,
// e.g. "3,7,10-12".  Whitespace around tokens is ignored and empty
// tokens are skipped, so "" and " " decode to an empty set.  Malformed
// numbers and inverted ranges are rejected.
func Parse(encoded string) (Set, error) {
    s := make(Set)
    for _, tok := range strings.Split(encoded, ",") {
        tok = strings.TrimSpace(tok)
        if tok == "" {
            continue
        }
        if lo, hi, ok := strings.Cut(tok, "-"); ok {
            from, err := parseSeat(lo)
            if err != nil {
                return nil, err
            }
            to, err := parseSeat(hi)
            if err != nil {
                return nil, err
            }
            if to < from {
                return nil, fmt.Errorf("inverted seat range %q", tok)
            }
            for n := from; n <= to; n++ {
                s[n] = struct{}{}
            }
            continue
        }
        n, err := parseSeat(tok)
        if err != nil {
            return nil, err
        }
        s[n] = struct{}{}
    }
    return s, nil
}

func parseSeat(tok string) (uint32, error) {
    n, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
    if err != nil {
        return 0, fmt.Errorf("invalid seat number %q", tok)
    }
    return uint32(n), nil
}

// Has reports whether n is in the set.
func (s Set) Has(n uint32) bool {
    _, ok := s[n]
    return ok
}

// Add inserts n into the set.
func (s Set) Add(n uint32) { s[n] = struct{}{} }

// Len returns the number of seats in the set.
func (s Set) Len() int { return len(s) }

// Union returns a new set containing the seats of both s and other.
func (s Set) Union(other Set) Set {
    out := make(Set, len(s)+len(other))
    for n := range s {
        out[n] = struct{}{}
    }
    for n := range other {
        out[n] = struct{}{}
    }
    return out
}

// Sorted returns the seat numbers in ascending order.
func (s Set) Sorted() []uint32 {
    out := make([]uint32, 0, len(s))
    for n := range s {
        out = append(out, n)
    }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}

// Encode renders the set back into the stored form: ascending seat
// numbers, runs of three or more collapsed into "a-b" ranges.
func (s Set) Encode() string {
    nums := s.Sorted()
    if len(nums) == 0 {
        return ""
    }
    var b strings.Builder
    for i := 0; i < len(nums); {
        j := i
        for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
            j++
        }
        if b.Len() > 0 {
            b.WriteByte(',')
        }
        switch {
        case j-i >= 2:
            fmt.Fprintf(&b, "%d-%d", nums[i], nums[j])
        case j == i+1:
            fmt.Fprintf(&b, "%d,%d", nums[i], nums[j])
        default:
            fmt.Fprintf(&b, "%d", nums[i])
        }
        i = j + 1
    }
    return b.String()
}
