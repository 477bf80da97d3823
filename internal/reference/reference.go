package reference

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const prefix = "BK"

// New produces a booking reference such as BK1714678925000A3F19B02:
// prefix, creation time in unix milliseconds and an 8 character random
// suffix. The timestamp keeps references roughly sortable, the random
// suffix makes collisions vanishingly unlikely.
func New() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), suffix)
}
