package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// ErrStableNodeIdentityUnavailable indicates no stable node identity is available.
var ErrStableNodeIdentityUnavailable = errors.New("uid: cannot determine stable node identity (machine-id/hostname unavailable)")

// ErrRandomUnavailable is returned when the system random source fails.
var ErrRandomUnavailable = errors.New("uid: random source unavailable")

// ObjectID generates 64-char hex identifiers carrying 112 random bits.
// They are used as opaque session IDs.
//
// Layout (32 bytes): 6 timestamp ms | 6 node | 2 pid | 4 counter | 14 random.
type ObjectID struct {
	node    [6]byte
	pid     uint16
	counter atomic.Uint32
	now     func() time.Time
}

// NewObjectID creates a generator seeded from /etc/machine-id or the hostname.
func NewObjectID() (*ObjectID, error) {
	src, err := nodeIdentity()
	if err != nil {
		return nil, err
	}

	g := &ObjectID{pid: uint16(os.Getpid()), now: time.Now} //nolint:gosec // truncation is fine for a pid tag
	sum := sha256.Sum256([]byte(src))
	copy(g.node[:], sum[:6])

	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, errors.Join(ErrRandomUnavailable, err)
	}
	g.counter.Store(binary.BigEndian.Uint32(seed[:]))

	return g, nil
}

func nodeIdentity() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}
	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}
	return "", ErrStableNodeIdentityUnavailable
}

// Generate returns a new identifier. It panics only if the system random
// source fails, which crypto/rand documents as unrecoverable.
func (g *ObjectID) Generate() string {
	var raw [32]byte

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(g.now().UnixMilli())) //nolint:gosec // epoch ms is positive
	copy(raw[0:6], ts[2:])
	copy(raw[6:12], g.node[:])
	binary.BigEndian.PutUint16(raw[12:14], g.pid)
	binary.BigEndian.PutUint32(raw[14:18], g.counter.Add(1))

	if _, err := rand.Read(raw[18:]); err != nil {
		panic(errors.Join(ErrRandomUnavailable, err))
	}

	return hex.EncodeToString(raw[:])
}
