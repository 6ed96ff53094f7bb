package mediaprobe

// Format parsers register themselves with the registry on import.
import (
	_ "github.com/simonhull/mediaprobe/internal/m4a"
	_ "github.com/simonhull/mediaprobe/internal/matroska"
	_ "github.com/simonhull/mediaprobe/internal/mp3"
)
