package mediaprobe

import (
	"github.com/simonhull/mediaprobe/internal/types"
)

// Tags holds the well-known metadata fields and all raw tags by key.
type Tags = types.Tags
