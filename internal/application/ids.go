package application

import "github.com/google/uuid"

// IDGenerator produces identifiers for new records.
type IDGenerator func() string

// PrefixedUUID returns an IDGenerator yielding "<prefix>-<uuid>".
func PrefixedUUID(prefix string) IDGenerator {
	return func() string {
		return prefix + "-" + uuid.NewString()
	}
}

func orDefaultID(gen IDGenerator, prefix string) IDGenerator {
	if gen != nil {
		return gen
	}
	return PrefixedUUID(prefix)
}
