package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/simonhull/mediaprobe/internal/types"
)

var (
	errUnsupportedFrame = errors.New("unsupported frame")
	errEmptyFrame       = errors.New("empty frame body")
)

// UserText is a TXXX frame: a user-defined text field.
type UserText struct {
	Description string
	Text        []string
}

func (u UserText) String() string {
	return u.Description + "=" + strings.Join(u.Text, "; ")
}

// Comment is a COMM or USLT frame.
type Comment struct {
	Language    string
	Description string
	Text        string
}

func (c Comment) String() string {
	return c.Text
}

// FunctionList maps a role to the people credited for it (TIPL, TMCL, IPLS).
type FunctionList map[string][]string

func (f FunctionList) String() string {
	parts := make([]string, 0, len(f))
	for _, role := range slices.Sorted(maps.Keys(f)) {
		parts = append(parts, role+": "+strings.Join(f[role], ","))
	}
	return strings.Join(parts, "; ")
}

// OwnedData is a UFID or PRIV frame: an owner identifier plus opaque data.
type OwnedData struct {
	Owner string
	Data  []byte
}

func (o OwnedData) String() string {
	return o.Owner + ": " + types.TagText(o.Data)
}

// Popularimeter is a POPM frame.
type Popularimeter struct {
	Email   string
	Counter uint32
	Rating  uint8
}

func (p Popularimeter) String() string {
	return fmt.Sprintf("%s rating=%d counter=%d", p.Email, p.Rating, p.Counter)
}

// EncapsulatedObject is a GEOB frame.
type EncapsulatedObject struct {
	MIMEType    string
	Filename    string
	Description string
	Data        []byte
}

func (e EncapsulatedObject) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", e.Filename, e.MIMEType, len(e.Data))
}

// UserURL is a WXXX frame.
type UserURL struct {
	Description string
	URL         string
}

func (u UserURL) String() string {
	return u.URL
}

// SyncedLyrics is a SYLT frame.
type SyncedLyrics struct {
	Language    string
	Description string
	Lines       []SyncedLine
}

// SyncedLine is one SYLT entry. Time is in the unit given by the frame's
// timestamp format (MPEG frames or milliseconds).
type SyncedLine struct {
	Text string
	Time uint32
}

func (s SyncedLyrics) String() string {
	lines := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = l.Text
	}
	return strings.Join(lines, "\n")
}

// frameDecoder turns frame bodies into tag values for one tag version.
type frameDecoder struct {
	warn  func(format string, args ...any)
	major byte
}

// decode returns the value of frame id. errUnsupportedFrame means the
// frame is valid but not interpreted.
func (d *frameDecoder) decode(id string, b []byte) (any, error) {
	if len(b) == 0 {
		return nil, errEmptyFrame
	}
	enc := b[0]
	if enc > maxEncoding {
		enc = encISO8859
	}

	kind := id
	if id != "TXXX" && id[0] == 'T' {
		kind = "T*"
	}

	switch kind {
	case "T*", "IPLS", "MVIN", "MVNM", "PCS", "PCST":
		return d.textFrame(id, trimNulls(decodeText(b[1:], enc))), nil

	case "TXXX":
		desc, rest := readString(b[1:], enc)
		return UserText{
			Description: desc,
			Text:        d.splitValue(id, trimNulls(decodeText(rest, enc))),
		}, nil

	case "PIC", "APIC":
		return d.picture(b, enc)

	case "CNT", "PCNT":
		if len(b) < 4 {
			return nil, fmt.Errorf("%s: %d byte counter", id, len(b))
		}
		return binary.BigEndian.Uint32(b), nil

	case "SYLT":
		return syncedLyrics(b, enc)

	case "ULT", "USLT", "COM", "COMM":
		if len(b) < 4 {
			return nil, fmt.Errorf("%s: frame too short", id)
		}
		desc, rest := readString(b[4:], enc)
		return Comment{
			Language:    decodeText(b[1:4], encISO8859),
			Description: desc,
			Text:        trimNulls(decodeText(rest, enc)),
		}, nil

	case "UFID", "PRIV":
		owner, rest := latin1(b)
		return OwnedData{Owner: owner, Data: slices.Clone(rest)}, nil

	case "POPM":
		email, rest := latin1(b)
		if len(rest) == 0 {
			return nil, fmt.Errorf("%s: missing rating", id)
		}
		p := Popularimeter{Email: email, Rating: rest[0]}
		if len(rest) >= 5 {
			p.Counter = binary.BigEndian.Uint32(rest[1:5])
		}
		return p, nil

	case "GEOB":
		mimeType, rest := latin1(b[1:])
		filename, rest := readString(rest, enc)
		desc, rest := readString(rest, enc)
		return EncapsulatedObject{
			MIMEType:    mimeType,
			Filename:    filename,
			Description: desc,
			Data:        slices.Clone(rest),
		}, nil

	case "WCOM", "WCOP", "WOAF", "WOAR", "WOAS", "WORS", "WPAY", "WPUB":
		url, _ := latin1(b)
		return url, nil

	case "WXXX":
		desc, rest := readString(b[1:], enc)
		url, _ := latin1(rest)
		return UserURL{Description: desc, URL: url}, nil

	case "WFD", "WFED":
		text, _ := readString(b[1:], enc)
		return text, nil

	case "MCDI":
		return slices.Clone(b), nil
	}

	return nil, errUnsupportedFrame
}

func (d *frameDecoder) textFrame(id, text string) any {
	switch id {
	case "TMCL", "TIPL", "IPLS":
		return functionList(d.splitValue(id, text))
	case "TRK", "TRCK", "TPOS":
		return text
	case "TCOM", "TCON", "TEXT", "TOLY", "TOPE", "TPE1", "TSRC":
		return d.splitValue(id, text)
	case "PCS", "PCST":
		values := []string{text}
		if d.major >= 4 {
			values = d.splitValue(id, text)
		}
		if values[0] == "" {
			return 1
		}
		return 0
	}
	if d.major >= 4 {
		return d.splitValue(id, text)
	}
	return []string{text}
}

// splitValue splits a multi-valued text frame. v2.4 separates values with
// NUL; v2.3 uses '/', though some writers use NUL there as well.
func (d *frameDecoder) splitValue(id, text string) []string {
	values := strings.Split(text, "\x00")
	if d.major < 4 {
		if len(values) > 1 {
			d.warn("ID3v2.%d %s uses non standard null-separator", d.major, id)
		} else {
			values = strings.Split(text, "/")
		}
	}
	for i, v := range values {
		values[i] = strings.TrimSpace(trimNulls(v))
	}
	return values
}

// functionList pairs up role and names: [role, "a,b", role2, "c"].
func functionList(entries []string) FunctionList {
	res := FunctionList{}
	for i := 0; i+1 < len(entries); i += 2 {
		res[entries[i]] = append(res[entries[i]], strings.Split(entries[i+1], ",")...)
	}
	return res
}

// picture decodes PIC (v2.2) and APIC (v2.3, v2.4).
//
//	[1 byte]          text encoding
//	[3 bytes | NUL]   image format (v2.2) or MIME type
//	[1 byte]          picture type
//	[encoded, NUL]    description
//	[remaining]       picture data
func (d *frameDecoder) picture(b []byte, enc byte) (any, error) {
	var (
		format string
		rest   []byte
	)
	switch d.major {
	case 2:
		if len(b) < 4 {
			return nil, errors.New("PIC frame too short")
		}
		format, rest = decodeText(b[1:4], encISO8859), b[4:]
	case 3, 4:
		format, rest = latin1(b[1:])
	default:
		return nil, fmt.Errorf("picture frame in v2.%d: %w", d.major, types.ErrUnsupportedMajorVersion)
	}

	if len(rest) == 0 {
		return nil, errors.New("picture frame truncated after MIME type")
	}
	pictureType := rest[0]
	desc, data := readString(rest[1:], enc)

	return types.Artwork{
		MIMEType:    fixPictureMIMEType(format),
		Description: desc,
		Data:        slices.Clone(data),
		Type:        types.ArtworkType(pictureType),
	}, nil
}

func fixPictureMIMEType(format string) string {
	format = strings.ToLower(format)
	switch format {
	case "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	}
	return format
}

// syncedLyrics decodes a SYLT frame:
//
//	[1] encoding [3] language [1] timestamp format [1] content type
//	[encoded, NUL] descriptor
//	repeated: [encoded, NUL] text [4] timestamp
func syncedLyrics(b []byte, enc byte) (any, error) {
	if len(b) < 6 {
		return nil, errors.New("SYLT frame too short")
	}
	s := SyncedLyrics{Language: decodeText(b[1:4], encISO8859)}
	var rest []byte
	s.Description, rest = readString(b[6:], enc)

	for len(rest) > 0 {
		var line SyncedLine
		line.Text, rest = readString(rest, enc)
		if len(rest) < 4 {
			break
		}
		line.Time = binary.BigEndian.Uint32(rest)
		rest = rest[4:]
		s.Lines = append(s.Lines, line)
	}
	return s, nil
}
