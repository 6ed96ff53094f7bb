package mediaprobe

import (
	"github.com/simonhull/mediaprobe/internal/types"
)

// AudioInfo holds the technical properties of the main audio stream.
type AudioInfo = types.AudioInfo

// StreamInfo describes one track of the container.
type StreamInfo = types.StreamInfo

// AudioTrack holds audio-specific stream parameters.
type AudioTrack = types.AudioTrack

// VideoTrack holds the video parameters of a stream listing.
type VideoTrack = types.VideoTrack

// TrackType is the kind of a stream.
type TrackType = types.TrackType

// Re-export all track type constants
const (
	TrackTypeUnknown  = types.TrackTypeUnknown
	TrackTypeVideo    = types.TrackTypeVideo
	TrackTypeAudio    = types.TrackTypeAudio
	TrackTypeComplex  = types.TrackTypeComplex
	TrackTypeLogo     = types.TrackTypeLogo
	TrackTypeSubtitle = types.TrackTypeSubtitle
	TrackTypeButton   = types.TrackTypeButton
	TrackTypeControl  = types.TrackTypeControl
	TrackTypeMetadata = types.TrackTypeMetadata
)
