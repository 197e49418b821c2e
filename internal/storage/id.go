package storage

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// DemoUserPrefix tags ephemeral demo identities. Anything carrying it is
// routed to the in-memory engine and never touches SQLite.
const DemoUserPrefix = "demo-"

// IsDemoUserID reports whether the id belongs to a demo identity.
func IsDemoUserID(id string) bool {
	return strings.HasPrefix(id, DemoUserPrefix)
}

// NewDemoUserID generates a fresh demo user id.
func NewDemoUserID() string {
	return DemoUserPrefix + uuid.NewString()[:8]
}

func newID() string {
	return uuid.NewString()
}

// inviteCodeAlphabet omits 0/O and 1/I to keep codes readable over the phone.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newInviteCode() string {
	b := make([]byte, 6)
	rand.Read(b)
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b)
}

func newSessionToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
