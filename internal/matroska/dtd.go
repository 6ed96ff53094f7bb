package matroska

import "github.com/simonhull/mediaprobe/internal/ebml"

// Element IDs. See https://www.matroska.org/technical/elements.html
const (
	IDEBML               = 0x1A45DFA3
	IDEBMLVersion        = 0x4286
	IDEBMLReadVersion    = 0x42F7
	IDEBMLMaxIDLength    = 0x42F2
	IDEBMLMaxSizeLength  = 0x42F3
	IDDocType            = 0x4282
	IDDocTypeVersion     = 0x4287
	IDDocTypeReadVersion = 0x4285

	IDVoid  = 0xEC
	IDCRC32 = 0xBF

	IDSegment      = 0x18538067
	IDSeekHead     = 0x114D9B74
	IDSeek         = 0x4DBB
	IDSeekID       = 0x53AB
	IDSeekPosition = 0x53AC

	IDInfo            = 0x1549A966
	IDSegmentUID      = 0x73A4
	IDSegmentFilename = 0x7384
	IDPrevUID         = 0x3CB923
	IDNextUID         = 0x3EB923
	IDTimecodeScale   = 0x2AD7B1
	IDDuration        = 0x4489
	IDDateUTC         = 0x4461
	IDTitle           = 0x7BA9
	IDMuxingApp       = 0x4D80
	IDWritingApp      = 0x5741

	IDCluster = 0x1F43B675

	IDTracks                  = 0x1654AE6B
	IDTrackEntry              = 0xAE
	IDTrackNumber             = 0xD7
	IDTrackUID                = 0x73C5
	IDTrackType               = 0x83
	IDFlagEnabled             = 0xB9
	IDFlagDefault             = 0x88
	IDFlagForced              = 0x55AA
	IDFlagLacing              = 0x9C
	IDMinCache                = 0x6DE7
	IDMaxCache                = 0x6DF8
	IDDefaultDuration         = 0x23E383
	IDTrackTimecodeScale      = 0x23314F
	IDName                    = 0x536E
	IDLanguage                = 0x22B59C
	IDCodecID                 = 0x86
	IDCodecPrivate            = 0x63A2
	IDCodecName               = 0x258688
	IDCodecSettings           = 0x3A9697
	IDCodecDelay              = 0x56AA
	IDSeekPreRoll             = 0x56BB
	IDAttachmentLink          = 0x7446
	IDVideo                   = 0xE0
	IDFlagInterlaced          = 0x9A
	IDPixelWidth              = 0xB0
	IDPixelHeight             = 0xBA
	IDDisplayWidth            = 0x54B0
	IDDisplayHeight           = 0x54BA
	IDAudio                   = 0xE1
	IDSamplingFrequency       = 0xB5
	IDOutputSamplingFrequency = 0x78B5
	IDChannels                = 0x9F
	IDBitDepth                = 0x6264
	IDContentEncodings        = 0x6D80
	IDContentEncoding         = 0x6240
	IDContentEncodingOrder    = 0x5031
	IDContentEncodingScope    = 0x5032
	IDContentEncodingType     = 0x5033
	IDContentCompression      = 0x5034
	IDContentCompAlgo         = 0x4254
	IDContentCompSettings     = 0x4255

	IDCues                = 0x1C53BB6B
	IDCuePoint            = 0xBB
	IDCueTime             = 0xB3
	IDCueTrackPositions   = 0xB7
	IDCueTrack            = 0xF7
	IDCueClusterPosition  = 0xF1
	IDCueRelativePosition = 0xF0
	IDCueBlockNumber      = 0x5378

	IDChapters           = 0x1043A770
	IDEditionEntry       = 0x45B9
	IDEditionUID         = 0x45BC
	IDEditionFlagHidden  = 0x45BD
	IDEditionFlagDefault = 0x45DB
	IDEditionFlagOrdered = 0x45DD
	IDChapterAtom        = 0xB6
	IDChapterUID         = 0x73C4
	IDChapterStringUID   = 0x5654
	IDChapterTimeStart   = 0x91
	IDChapterTimeEnd     = 0x92
	IDChapterFlagHidden  = 0x98
	IDChapterFlagEnabled = 0x4598
	IDChapterDisplay     = 0x80
	IDChapString         = 0x85
	IDChapLanguage       = 0x437C
	IDChapCountry        = 0x437E

	IDTags             = 0x1254C367
	IDTag              = 0x7373
	IDTargets          = 0x63C0
	IDTargetTypeValue  = 0x68CA
	IDTargetType       = 0x63CA
	IDTagTrackUID      = 0x63C5
	IDTagEditionUID    = 0x63C9
	IDTagChapterUID    = 0x63C4
	IDTagAttachmentUID = 0x63C6
	IDSimpleTag        = 0x67C8
	IDTagName          = 0x45A3
	IDTagLanguage      = 0x447A
	IDTagDefault       = 0x4484
	IDTagString        = 0x4487
	IDTagBinary        = 0x4485

	IDAttachments     = 0x1941A469
	IDAttachedFile    = 0x61A7
	IDFileDescription = 0x467E
	IDFileName        = 0x466E
	IDFileMimeType    = 0x4660
	IDFileData        = 0x465C
	IDFileUID         = 0x46AE
)

// DTD is the document schema the parser walks.
//
// Cluster is absent on purpose: media blocks are skipped without being
// decoded. Void and CRC-32 are absent too and count as padding.
var DTD = buildDTD()

func buildDTD() ebml.Schema {
	// SimpleTag may nest itself.
	simpleTag := ebml.Schema{
		IDTagName:     ebml.Leaf("name", ebml.KindString),
		IDTagLanguage: ebml.Leaf("language", ebml.KindString),
		IDTagDefault:  ebml.Leaf("default", ebml.KindBool),
		IDTagString:   ebml.Leaf("string", ebml.KindString),
		IDTagBinary:   ebml.Leaf("binary", ebml.KindBinary),
	}
	simpleTag[IDSimpleTag] = ebml.MasterList("simpleTags", simpleTag)

	return ebml.Schema{
		IDEBML: ebml.Master("ebml", ebml.Schema{
			IDEBMLVersion:        ebml.Leaf("ebmlVersion", ebml.KindUInt),
			IDEBMLReadVersion:    ebml.Leaf("ebmlReadVersion", ebml.KindUInt),
			IDEBMLMaxIDLength:    ebml.Leaf("ebmlMaxIDWidth", ebml.KindUInt),
			IDEBMLMaxSizeLength:  ebml.Leaf("ebmlMaxSizeWidth", ebml.KindUInt),
			IDDocType:            ebml.Leaf("docType", ebml.KindString),
			IDDocTypeVersion:     ebml.Leaf("docTypeVersion", ebml.KindUInt),
			IDDocTypeReadVersion: ebml.Leaf("docTypeReadVersion", ebml.KindUInt),
		}),

		IDSegment: ebml.Master("segment", ebml.Schema{
			IDSeekHead: ebml.Master("seekHead", ebml.Schema{
				IDSeek: ebml.MasterList("seek", ebml.Schema{
					IDSeekID:       ebml.Leaf("seekID", ebml.KindBinary),
					IDSeekPosition: ebml.Leaf("seekPosition", ebml.KindUInt),
				}),
			}),

			IDInfo: ebml.Master("info", ebml.Schema{
				IDSegmentUID:      ebml.Leaf("uid", ebml.KindUIDBool),
				IDSegmentFilename: ebml.Leaf("filename", ebml.KindString),
				IDPrevUID:         ebml.Leaf("prevUID", ebml.KindUIDBool),
				IDNextUID:         ebml.Leaf("nextUID", ebml.KindUIDBool),
				IDTimecodeScale:   ebml.Leaf("timecodeScale", ebml.KindUInt),
				IDDuration:        ebml.Leaf("duration", ebml.KindFloat),
				IDDateUTC:         ebml.Leaf("dateUTC", ebml.KindBinary),
				IDTitle:           ebml.Leaf("title", ebml.KindString),
				IDMuxingApp:       ebml.Leaf("muxingApp", ebml.KindString),
				IDWritingApp:      ebml.Leaf("writingApp", ebml.KindString),
			}),

			IDTracks: ebml.Master("tracks", ebml.Schema{
				IDTrackEntry: ebml.MasterList("entries", ebml.Schema{
					IDTrackNumber:        ebml.Leaf("trackNumber", ebml.KindUInt),
					IDTrackUID:           ebml.Leaf("uid", ebml.KindUIDBool),
					IDTrackType:          ebml.Leaf("trackType", ebml.KindUInt),
					IDFlagEnabled:        ebml.Leaf("flagEnabled", ebml.KindBool),
					IDFlagDefault:        ebml.Leaf("flagDefault", ebml.KindBool),
					IDFlagForced:         ebml.Leaf("flagForced", ebml.KindBool),
					IDFlagLacing:         ebml.Leaf("flagLacing", ebml.KindBool),
					IDMinCache:           ebml.Leaf("minCache", ebml.KindUInt),
					IDMaxCache:           ebml.Leaf("maxCache", ebml.KindUInt),
					IDDefaultDuration:    ebml.Leaf("defaultDuration", ebml.KindUInt),
					IDTrackTimecodeScale: ebml.Leaf("trackTimecodeScale", ebml.KindFloat),
					IDName:               ebml.Leaf("name", ebml.KindString),
					IDLanguage:           ebml.Leaf("language", ebml.KindString),
					IDCodecID:            ebml.Leaf("codecID", ebml.KindString),
					IDCodecPrivate:       ebml.Leaf("codecPrivate", ebml.KindBinary),
					IDCodecName:          ebml.Leaf("codecName", ebml.KindString),
					IDCodecSettings:      ebml.Leaf("codecSettings", ebml.KindString),
					IDCodecDelay:         ebml.Leaf("codecDelay", ebml.KindUInt),
					IDSeekPreRoll:        ebml.Leaf("seekPreRoll", ebml.KindUInt),
					IDAttachmentLink:     ebml.Leaf("attachmentLink", ebml.KindUIDBool),
					IDVideo: ebml.Master("video", ebml.Schema{
						IDFlagInterlaced: ebml.Leaf("flagInterlaced", ebml.KindBool),
						IDPixelWidth:     ebml.Leaf("pixelWidth", ebml.KindUInt),
						IDPixelHeight:    ebml.Leaf("pixelHeight", ebml.KindUInt),
						IDDisplayWidth:   ebml.Leaf("displayWidth", ebml.KindUInt),
						IDDisplayHeight:  ebml.Leaf("displayHeight", ebml.KindUInt),
					}),
					IDAudio: ebml.Master("audio", ebml.Schema{
						IDSamplingFrequency:       ebml.Leaf("samplingFrequency", ebml.KindFloat),
						IDOutputSamplingFrequency: ebml.Leaf("outputSamplingFrequency", ebml.KindFloat),
						IDChannels:                ebml.Leaf("channels", ebml.KindUInt),
						IDBitDepth:                ebml.Leaf("bitDepth", ebml.KindUInt),
					}),
					IDContentEncodings: ebml.Master("contentEncodings", ebml.Schema{
						IDContentEncoding: ebml.MasterList("contentEncoding", ebml.Schema{
							IDContentEncodingOrder: ebml.Leaf("order", ebml.KindUInt),
							IDContentEncodingScope: ebml.Leaf("scope", ebml.KindBool),
							IDContentEncodingType:  ebml.Leaf("type", ebml.KindUInt),
							IDContentCompression: ebml.Master("compression", ebml.Schema{
								IDContentCompAlgo:     ebml.Leaf("algorithm", ebml.KindUInt),
								IDContentCompSettings: ebml.Leaf("settings", ebml.KindBinary),
							}),
						}),
					}),
				}),
			}),

			IDCues: ebml.Master("cues", ebml.Schema{
				IDCuePoint: ebml.MasterList("cuePoint", ebml.Schema{
					IDCueTime: ebml.Leaf("cueTime", ebml.KindUInt),
					IDCueTrackPositions: ebml.MasterList("cueTrackPositions", ebml.Schema{
						IDCueTrack:            ebml.Leaf("cueTrack", ebml.KindUInt),
						IDCueClusterPosition:  ebml.Leaf("cueClusterPosition", ebml.KindUInt),
						IDCueRelativePosition: ebml.Leaf("cueRelativePosition", ebml.KindUInt),
						IDCueBlockNumber:      ebml.Leaf("cueBlockNumber", ebml.KindUInt),
					}),
				}),
			}),

			IDChapters: ebml.Master("chapters", ebml.Schema{
				IDEditionEntry: ebml.MasterList("editions", ebml.Schema{
					IDEditionUID:         ebml.Leaf("uid", ebml.KindUIDBool),
					IDEditionFlagHidden:  ebml.Leaf("flagHidden", ebml.KindBool),
					IDEditionFlagDefault: ebml.Leaf("flagDefault", ebml.KindBool),
					IDEditionFlagOrdered: ebml.Leaf("flagOrdered", ebml.KindBool),
					IDChapterAtom: ebml.MasterList("chapters", ebml.Schema{
						IDChapterUID:         ebml.Leaf("uid", ebml.KindUIDBool),
						IDChapterStringUID:   ebml.Leaf("stringUID", ebml.KindString),
						IDChapterTimeStart:   ebml.Leaf("timeStart", ebml.KindUInt),
						IDChapterTimeEnd:     ebml.Leaf("timeEnd", ebml.KindUInt),
						IDChapterFlagHidden:  ebml.Leaf("flagHidden", ebml.KindBool),
						IDChapterFlagEnabled: ebml.Leaf("flagEnabled", ebml.KindBool),
						IDChapterDisplay: ebml.MasterList("display", ebml.Schema{
							IDChapString:   ebml.Leaf("string", ebml.KindString),
							IDChapLanguage: ebml.Leaf("language", ebml.KindString),
							IDChapCountry:  ebml.Leaf("country", ebml.KindString),
						}),
					}),
				}),
			}),

			IDTags: ebml.Master("tags", ebml.Schema{
				IDTag: ebml.MasterList("tag", ebml.Schema{
					IDTargets: ebml.Master("target", ebml.Schema{
						IDTargetTypeValue:  ebml.Leaf("targetTypeValue", ebml.KindUInt),
						IDTargetType:       ebml.Leaf("targetType", ebml.KindString),
						IDTagTrackUID:      ebml.Leaf("tagTrackUID", ebml.KindUIDBool),
						IDTagEditionUID:    ebml.Leaf("tagEditionUID", ebml.KindUIDBool),
						IDTagChapterUID:    ebml.Leaf("tagChapterUID", ebml.KindUIDBool),
						IDTagAttachmentUID: ebml.Leaf("tagAttachmentUID", ebml.KindUIDBool),
					}),
					IDSimpleTag: ebml.MasterList("simpleTags", simpleTag),
				}),
			}),

			IDAttachments: ebml.Master("attachments", ebml.Schema{
				IDAttachedFile: ebml.MasterList("attachedFiles", ebml.Schema{
					IDFileDescription: ebml.Leaf("description", ebml.KindString),
					IDFileName:        ebml.Leaf("name", ebml.KindString),
					IDFileMimeType:    ebml.Leaf("mimeType", ebml.KindString),
					IDFileData:        ebml.Leaf("data", ebml.KindBinary),
					IDFileUID:         ebml.Leaf("uid", ebml.KindUIDBool),
				}),
			}),
		}),
	}
}
