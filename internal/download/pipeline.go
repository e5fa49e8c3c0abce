package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/handiism/soundcloud-downloader/internal/cache"
	ioutils "github.com/handiism/soundcloud-downloader/internal/io"
	"github.com/handiism/soundcloud-downloader/internal/ledger"
	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
)

// ImagesDirName is the subdirectory of a collection that holds artwork.
const ImagesDirName = "images"

// ErrLinkUnavailable is set on a skipped Outcome when a track has neither a
// download nor a stream link.
var ErrLinkUnavailable = errors.New("no link available")

// Skip and failure reasons reported in Outcome.Reason.
const (
	ReasonAlreadyDownloaded = "already downloaded"
	ReasonDryRun            = "dry run"
	ReasonNoLink            = "no link available"
	ReasonInvalidLink       = "invalid link"
	ReasonAudioFetch        = "audio fetch failed"
	ReasonArtworkFetch      = "artwork fetch failed"
	ReasonFilesystem        = "filesystem error"
)

// Status is the result kind of processing one track.
type Status int

const (
	StatusSkipped Status = iota
	StatusDownloaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of Pipeline.Process.
type Outcome struct {
	Status Status

	// Reason is a short human readable cause for skipped and failed items.
	Reason string

	// Err is the underlying error of a failed item, or ErrLinkUnavailable.
	Err error

	// TagErr is set when tagging failed after a successful download. The
	// item still counts as downloaded.
	TagErr error

	// LedgerErr is set when the ledger could not be saved after a
	// successful download.
	LedgerErr error

	// AudioPath is where the audio was written.
	AudioPath string

	// Tagged reports whether tags were written (stream downloads only).
	Tagged bool
}

// Fetcher downloads remote files. *http.Client implements it.
type Fetcher interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Tagger writes ID3 tags. *audio.Tagger implements it.
type Tagger interface {
	SaveTags(path string, track *model.TrackItem, artwork []byte) error
}

// Options configure a Pipeline for one collection.
type Options struct {
	// Dir is the collection directory; artwork goes to Dir/images.
	Dir string

	// ClientID is appended to audio links.
	ClientID string

	DryRun bool

	// EmbedCover enables the APIC frame on stream downloads.
	EmbedCover bool

	// CoverMaxSize bounds the embedded cover; 0 keeps the original size.
	CoverMaxSize int

	// ConvertCover re-encodes the embedded cover as JPEG.
	ConvertCover bool

	// OnProgress receives audio transfer progress. It may be nil.
	OnProgress func(written, total int64)
}

// Pipeline downloads and tags tracks one at a time, recording every success
// in a ledger.
//
// Example:
//
//	p := download.NewPipeline(httpClient, tagger, ldg, artworkCache, opts, logger)
//	for _, item := range items {
//	    out := p.Process(ctx, item)
//	    fmt.Println(item.Title, out.Status, out.Reason)
//	}
type Pipeline struct {
	fetcher Fetcher
	tagger  Tagger
	ledger  *ledger.Ledger
	artwork *cache.ArtworkCache
	images  *ioutils.ImageService
	opts    Options
	logger  zerolog.Logger
}

// NewPipeline creates a Pipeline. artwork may be nil to disable caching.
func NewPipeline(fetcher Fetcher, tagger Tagger, ldg *ledger.Ledger, artwork *cache.ArtworkCache, opts Options, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		tagger:  tagger,
		ledger:  ldg,
		artwork: artwork,
		images:  ioutils.NewImageService(),
		opts:    opts,
		logger:  logger,
	}
}

// Ledger returns the ledger the pipeline records into.
func (p *Pipeline) Ledger() *ledger.Ledger {
	return p.ledger
}

// AudioPath returns the destination of item's audio file.
func (p *Pipeline) AudioPath(item *model.TrackItem) string {
	return filepath.Join(p.opts.Dir, item.Filename+".mp3")
}

// ArtworkPath returns the destination of item's artwork file.
func (p *Pipeline) ArtworkPath(item *model.TrackItem) string {
	return filepath.Join(p.opts.Dir, ImagesDirName, item.Filename+".jpg")
}

// Process handles a single track. It never panics on a per-item problem and
// never returns an error: every failure is folded into the Outcome so the
// caller can continue with the next item.
//
// A track already in the ledger, or any track in dry run mode, is skipped
// without touching the network or the filesystem.
func (p *Pipeline) Process(ctx context.Context, item *model.TrackItem) Outcome {
	logger := p.logger.With().Str("permalink", item.Permalink).Logger()

	if p.ledger.Contains(item.Permalink) {
		return Outcome{Status: StatusSkipped, Reason: ReasonAlreadyDownloaded}
	}
	if p.opts.DryRun {
		return Outcome{Status: StatusSkipped, Reason: ReasonDryRun}
	}

	link, preTagged, err := p.link(item)
	if err != nil {
		if errors.Is(err, ErrLinkUnavailable) {
			return Outcome{Status: StatusSkipped, Reason: ReasonNoLink, Err: err}
		}
		return Outcome{Status: StatusFailed, Reason: ReasonInvalidLink, Err: err}
	}
	logger.Debug().Str("link", link).Bool("pre_tagged", preTagged).Msg("Resolved link")

	audioPath := p.AudioPath(item)
	imgPath := p.ArtworkPath(item)
	if err := ioutils.EnsureDir(filepath.Dir(imgPath)); err != nil {
		return Outcome{Status: StatusFailed, Reason: ReasonFilesystem, Err: err}
	}

	logger.Debug().Str("path", audioPath).Msg("Downloading audio")
	if err := p.fetcher.DownloadFile(ctx, link, audioPath, p.opts.OnProgress); err != nil {
		return Outcome{Status: StatusFailed, Reason: ReasonAudioFetch, Err: err, AudioPath: audioPath}
	}

	var artwork []byte
	if item.ArtworkURL != nil {
		logger.Debug().Str("url", *item.ArtworkURL).Str("path", imgPath).Msg("Downloading artwork")
		artwork, err = p.fetchArtwork(ctx, *item.ArtworkURL)
		if err != nil {
			return Outcome{Status: StatusFailed, Reason: ReasonArtworkFetch, Err: err, AudioPath: audioPath}
		}
		if err := ioutils.WriteFileAtomic(imgPath, artwork); err != nil {
			return Outcome{Status: StatusFailed, Reason: ReasonFilesystem, Err: err, AudioPath: audioPath}
		}
	}

	out := Outcome{Status: StatusDownloaded, AudioPath: audioPath}
	if preTagged {
		logger.Debug().Msg("Original upload downloaded, leaving tags untouched")
	} else {
		out.TagErr = p.tag(audioPath, item, artwork)
		out.Tagged = out.TagErr == nil
	}

	p.ledger.Put(item)
	if err := p.ledger.Save(); err != nil {
		out.LedgerErr = err
	}
	return out
}

// link picks the download link over the stream link and adds the client id.
func (p *Pipeline) link(item *model.TrackItem) (string, bool, error) {
	var (
		raw       string
		preTagged bool
	)
	switch {
	case item.DownloadURL != nil:
		raw, preTagged = *item.DownloadURL, true
	case item.StreamURL != nil:
		raw = *item.StreamURL
	default:
		return "", false, ErrLinkUnavailable
	}

	link, err := soundcloud.WithClientID(raw, p.opts.ClientID)
	if err != nil {
		return "", false, err
	}
	return link, preTagged, nil
}

func (p *Pipeline) fetchArtwork(ctx context.Context, url string) ([]byte, error) {
	fetch := func() ([]byte, error) {
		return p.fetcher.DownloadBytes(ctx, url)
	}
	if p.artwork == nil {
		return fetch()
	}
	return p.artwork.Fetch(url, fetch)
}

func (p *Pipeline) tag(audioPath string, item *model.TrackItem, artwork []byte) error {
	var cover []byte
	if p.opts.EmbedCover && artwork != nil {
		prepared, err := p.images.PrepareCover(artwork, p.opts.CoverMaxSize, p.opts.ConvertCover)
		if err != nil {
			p.logger.Warn().Err(err).Str("permalink", item.Permalink).Msg("Artwork is not a decodable image, embedding as downloaded")
			prepared = artwork
		}
		cover = prepared
	}
	return p.tagger.SaveTags(audioPath, item, cover)
}
