package session

import (
	"fmt"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

const (
	nameGeneratorWords     = 2
	nameGeneratorSeparator = "-"

	// maxNameLength is the platform's limit on training job, transform job, and model names.
	maxNameLength = 63

	nameTimestampFormat = "20060102-150405"
)

// NameFromBase derives a unique resource name of the form {base}-{UTC timestamp}-{random
// suffix}. An empty base gets a generated pet name. The base is truncated so the result stays
// within the platform's 63-character limit.
func NameFromBase(base string) string {
	if base == "" {
		base = petname.Generate(nameGeneratorWords, nameGeneratorSeparator)
	}
	suffix := fmt.Sprintf("%s-%s", time.Now().UTC().Format(nameTimestampFormat), shortID())
	if max := maxNameLength - len(suffix) - 1; len(base) > max {
		base = base[:max]
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

// shortID is the first segment of a random UUID, enough to tell apart two jobs submitted within
// the same second.
func shortID() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}
