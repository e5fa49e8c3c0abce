package audio

import (
	"fmt"
	"strings"

	"github.com/handiism/soundcloud-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParsePlaylistFormat maps a config value ("m3u", "pls", "wpl", "zpl") to a
// PlaylistFormat. Unknown values fall back to M3U and report false.
func ParsePlaylistFormat(s string) (PlaylistFormat, bool) {
	switch strings.ToLower(s) {
	case "m3u":
		return FormatM3U, true
	case "pls":
		return FormatPLS, true
	case "wpl":
		return FormatWPL, true
	case "zpl":
		return FormatZPL, true
	default:
		return FormatM3U, false
	}
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistCreator generates a playlist for a downloaded collection.
//
// Entries reference the MP3 files by name only, so the playlist must be
// written into the collection directory.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("!_likes", tracks)
//	os.WriteFile(filepath.Join(dir, "!_likes"+FormatM3U.Extension()), []byte(content), 0644)
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the configured playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist renders the playlist named name for tracks, in order.
func (p *PlaylistCreator) CreatePlaylist(name string, tracks []*model.TrackItem) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	case FormatWPL:
		return p.createSMIL("wpl", "1.0", name, tracks)
	case FormatZPL:
		return p.createSMIL("zpl", "2.0", name, tracks)
	default:
		return p.createM3U(tracks)
	}
}

// createM3U generates an M3U playlist. Durations are unknown and written
// as -1 in EXTINF lines.
//
//	#EXTM3U
//	#EXTINF:-1,Artist - Title
//	artist-title.mp3
func (p *PlaylistCreator) createM3U(tracks []*model.TrackItem) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s - %s\n", track.Username, track.Title)
		}
		sb.WriteString(fileName(track) + "\n")
	}

	return sb.String()
}

// createPLS generates an INI-style PLS playlist.
func (p *PlaylistCreator) createPLS(tracks []*model.TrackItem) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, fileName(track))
		fmt.Fprintf(&sb, "Title%d=%s - %s\n", idx, track.Username, track.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createSMIL generates the XML flavour shared by WPL and ZPL.
func (p *PlaylistCreator) createSMIL(kind, version, name string, tracks []*model.TrackItem) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<?%s version=\"%s\"?>\n", kind, version)
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(name))
	if kind == "zpl" {
		sb.WriteString("    <meta name=\"Generator\" content=\"soundcloud-downloader\"/>\n")
		fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(tracks))
	}
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")
	for _, track := range tracks {
		if kind == "zpl" {
			fmt.Fprintf(&sb, "      <media src=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
				escapeXML(fileName(track)), escapeXML(track.Title), escapeXML(track.Username))
			continue
		}
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(fileName(track)))
	}
	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func fileName(track *model.TrackItem) string {
	return track.Filename + ".mp3"
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
