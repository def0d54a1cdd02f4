package store

import (
	"strconv"

	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLength = 7
)

// IDGenerator returns a fresh task id on every call.
type IDGenerator func() string

// NewShortIDGenerator returns ids of the form <base36 epoch millis>-<7 random chars>.
func NewShortIDGenerator(clock Clock) (IDGenerator, error) {
	suffix, err := nanoid.CustomASCII(idAlphabet, idSuffixLength)
	if err != nil {
		return nil, err
	}
	return func() string {
		return strconv.FormatInt(clock().UnixMilli(), 36) + "-" + suffix()
	}, nil
}

// UUIDGenerator returns random RFC 4122 ids.
func UUIDGenerator() string {
	return uuid.NewString()
}
