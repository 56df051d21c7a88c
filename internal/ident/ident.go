// Package ident generates human-readable entity identifiers.
//
// Entity IDs are a fixed prefix, the creation timestamp, and a random suffix,
// e.g. "STU20260828143212-4821". They are unique enough in practice; callers
// retry on a primary-key conflict. Message IDs are ULIDs so they sort by
// creation time, which the chat history queries rely on.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
)

const timeLayout = "20060102150405"

// Entity prefixes.
const (
	PrefixStudent      = "STU"
	PrefixTeacher      = "TCH"
	PrefixCounsellor   = "CSL"
	PrefixCourse       = "CRS"
	PrefixClassroom    = "CLS"
	PrefixFeeReceipt   = "FEE"
	PrefixSalary       = "SAL"
	PrefixCommission   = "COM"
	PrefixEnquiry      = "ENQ"
	PrefixAnnouncement = "ANN"
)

// New returns a new entity ID with the given prefix, stamped with now (UTC).
func New(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s-%04d", prefix, now.UTC().Format(timeLayout), randInt(10000))
}

// NewMessageID returns a ULID for a chat message.
func NewMessageID() string {
	return ulid.Make().String()
}

func randInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return time.Now().UnixNano() % max
	}
	return n.Int64()
}
