package mediaprobe

import (
	"github.com/simonhull/mediaprobe/internal/types"
)

// Chapter is a chapter marker.
type Chapter = types.Chapter
