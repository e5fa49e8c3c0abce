package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/handiism/soundcloud-downloader/internal/audio"
	"github.com/handiism/soundcloud-downloader/internal/cache"
	"github.com/handiism/soundcloud-downloader/internal/config"
	"github.com/handiism/soundcloud-downloader/internal/http"
	ioutils "github.com/handiism/soundcloud-downloader/internal/io"
	"github.com/handiism/soundcloud-downloader/internal/ledger"
	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Job is a resolved collection with its collected tracks.
type Job struct {
	Collection soundcloud.Collection
	Dir        string
	Tracks     []*model.TrackItem
}

// Summary counts outcomes across a run.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Flagged    int
}

// Manager coordinates a run: resolve the target, collect every collection's
// tracks, then process them one at a time.
type Manager struct {
	settings *config.Settings
	client   *soundcloud.Client
	fetcher  Fetcher
	tagger   Tagger
	playlist *audio.PlaylistCreator
	artwork  *cache.ArtworkCache
	logger   zerolog.Logger

	jobs []*Job

	totalFiles     int32
	processedFiles int32
	receivedBytes  int64
	currentTotal   int64
	summary        Summary
	summaryMu      sync.Mutex

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager backed by the real HTTP client
// and ID3 tagger.
func NewManager(settings *config.Settings, logger zerolog.Logger, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(settings.RequestTimeout, settings.UserAgent)
	client := soundcloud.NewClient(httpClient, settings.APIBaseURL, settings.ClientID, logger)
	return newManager(settings, client, httpClient, audio.NewTagger(settings.ToTagConfig()), logger, onProgress)
}

func newManager(settings *config.Settings, client *soundcloud.Client, fetcher Fetcher, tagger Tagger, logger zerolog.Logger, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		client:     client,
		fetcher:    fetcher,
		tagger:     tagger,
		playlist:   settings.ToPlaylistCreator(),
		artwork:    cache.New(100),
		logger:     logger.With().Str("module", "download").Logger(),
		onProgress: onProgress,
	}
}

// Close releases the artwork cache.
func (m *Manager) Close() {
	m.artwork.Stop()
}

// Initialize resolves input and collects the tracks of every collection it
// denotes.
//
// Returns a *soundcloud.ResolutionError if input cannot be resolved. A
// collection whose pages cannot be fetched ends the run before anything is
// downloaded; the returned error wraps the page error.
func (m *Manager) Initialize(ctx context.Context, input string) error {
	target, err := soundcloud.ParseTarget(input)
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving %s (%s)", target.URL, target.Kind), Level: LevelVerbose})

	collections, err := m.client.Collections(ctx, target)
	if err != nil {
		return err
	}

	for _, coll := range collections {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Processing tracks from %s", coll.Title), Level: LevelInfo})

		tracks, skipped, err := m.client.Tracks(ctx, coll, m.settings.NumTracks, m.settings.PageCap, func(offset, requested, received int) {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Retrieved tracks %d - %d of %d (asked for %d)", offset+1, offset+received, m.settings.NumTracks, requested),
				Level:   LevelVerbose,
			})
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			m.logger.Error().Err(err).Int64("collection_id", coll.ID).Msg("Failed to collect tracks")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error collecting %s: %v", coll.Title, err), Level: LevelError})
			return fmt.Errorf("collect %s: %w", coll.Title, err)
		}
		for _, s := range skipped {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Ignoring record %d of %s: %v", s.Index+1, coll.Title, s.Err), Level: LevelWarning})
		}

		m.jobs = append(m.jobs, &Job{
			Collection: coll,
			Dir:        coll.Dir(m.settings.OutputDir),
			Tracks:     tracks,
		})
		m.totalFiles += int32(len(tracks))
		found := fmt.Sprintf("Found %d tracks in %s", len(tracks), coll.Title)
		if coll.Listed > 0 {
			found += fmt.Sprintf(" (%d listed)", coll.Listed)
		}
		m.progress(ProgressEvent{Message: found, Level: LevelInfo})
	}

	return nil
}

// StartDownloads processes every collected track in order.
//
// Per-item failures are reported and never abort the run. Only context
// cancellation stops it early; the ledger keeps its last saved state.
func (m *Manager) StartDownloads(ctx context.Context) error {
	for _, job := range m.jobs {
		if err := m.runJob(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// GetProgress returns the byte progress of the current transfer and the
// number of processed tracks.
func (m *Manager) GetProgress() (received, total int64, filesProcessed, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.currentTotal),
		atomic.LoadInt32(&m.processedFiles), m.totalFiles
}

// Jobs returns the collections found by Initialize.
func (m *Manager) Jobs() []*Job {
	return m.jobs
}

// GetCollectionNames returns a label for every collected collection.
func (m *Manager) GetCollectionNames() []string {
	names := make([]string, len(m.jobs))
	for i, job := range m.jobs {
		names[i] = fmt.Sprintf("%s (%d tracks)", job.Collection.Title, len(job.Tracks))
	}
	return names
}

// Summary returns the outcome counts so far.
func (m *Manager) Summary() Summary {
	m.summaryMu.Lock()
	defer m.summaryMu.Unlock()
	return m.summary
}

func (m *Manager) ledgerPath(job *Job) string {
	if filepath.IsAbs(m.settings.LedgerFile) {
		return m.settings.LedgerFile
	}
	return filepath.Join(job.Dir, m.settings.LedgerFile)
}

func (m *Manager) runJob(ctx context.Context, job *Job) error {
	logger := m.logger.With().Str("collection", job.Collection.Title).Logger()

	ldgPath := m.ledgerPath(job)
	logger.Debug().Str("path", ldgPath).Msg("Loading previously downloaded tracks")
	ldg, err := ledger.Load(ldgPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not load ledger, continuing with an empty one")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not load %s, continuing...", ldgPath), Level: LevelWarning})
	}

	pipeline := NewPipeline(m.fetcher, m.tagger, ldg, m.artwork, Options{
		Dir:          job.Dir,
		ClientID:     m.settings.ClientID,
		DryRun:       m.settings.DryRun,
		EmbedCover:   m.settings.SaveCoverArtInTags,
		CoverMaxSize: m.settings.CoverMaxSize(),
		ConvertCover: m.settings.ConvertCoverArtToJPG,
		OnProgress: func(written, total int64) {
			atomic.StoreInt64(&m.receivedBytes, written)
			atomic.StoreInt64(&m.currentTotal, total)
		},
	}, logger)

	before := m.Summary()
	for i, item := range job.Tracks {
		if err := ctx.Err(); err != nil {
			return err
		}
		atomic.StoreInt64(&m.receivedBytes, 0)
		atomic.StoreInt64(&m.currentTotal, 0)

		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Processing %d of %d: %s - %s", i+1, len(job.Tracks), item.Username, item.Title),
			Level:   LevelInfo,
		})
		logger.Debug().Str("track", item.String()).Msg("Processing track")

		out := pipeline.Process(ctx, item)
		atomic.AddInt32(&m.processedFiles, 1)
		m.record(item, out)
	}

	if !m.settings.DryRun {
		if err := ldg.Save(); err != nil {
			logger.Error().Err(err).Msg("Failed to save ledger")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to save download ledger: %v", err), Level: LevelError})
		}
		if m.playlist != nil {
			m.writePlaylist(job, ldg)
		}
	}

	s := m.Summary()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %s: %d downloaded, %d skipped, %d failed",
			job.Collection.Title, s.Downloaded-before.Downloaded, s.Skipped-before.Skipped, s.Failed-before.Failed),
		Level:   LevelSuccess,
	})
	return nil
}

func (m *Manager) record(item *model.TrackItem, out Outcome) {
	m.summaryMu.Lock()
	switch out.Status {
	case StatusDownloaded:
		m.summary.Downloaded++
		if out.TagErr != nil {
			m.summary.Flagged++
		}
	case StatusSkipped:
		m.summary.Skipped++
	case StatusFailed:
		m.summary.Failed++
	}
	m.summaryMu.Unlock()

	switch out.Status {
	case StatusSkipped:
		switch out.Reason {
		case ReasonAlreadyDownloaded:
			m.progress(ProgressEvent{Message: "Track already downloaded, skipping...", Level: LevelVerbose})
		case ReasonDryRun:
			m.progress(ProgressEvent{Message: fmt.Sprintf("Would download %s", item.Permalink), Level: LevelInfo})
		default:
			m.progress(ProgressEvent{Message: "Download link not available, skipping track.", Level: LevelWarning})
		}
	case StatusFailed:
		m.logger.Error().Err(out.Err).Str("permalink", item.Permalink).Str("reason", out.Reason).Msg("Track failed")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped track %s due to error: %s: %v", item.Permalink, out.Reason, out.Err), Level: LevelError})
	case StatusDownloaded:
		if out.TagErr != nil {
			m.logger.Warn().Err(out.TagErr).Str("permalink", item.Permalink).Msg("Tagging failed")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %s but tagging failed: %v", item.Filename, out.TagErr), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(out.AudioPath)), Level: LevelVerbose})
		}
	}

	if out.LedgerErr != nil {
		m.logger.Error().Err(out.LedgerErr).Msg("Failed to save ledger")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to save download ledger, tracks may be downloaded again: %v", out.LedgerErr), Level: LevelError})
	}
}

// writePlaylist lists the collection's tracks whose audio is on disk, from
// this run or an earlier one.
func (m *Manager) writePlaylist(job *Job, ldg *ledger.Ledger) {
	var tracks []*model.TrackItem
	for _, item := range job.Tracks {
		if ldg.Contains(item.Permalink) {
			tracks = append(tracks, item)
		}
	}
	if len(tracks) == 0 {
		return
	}

	name := job.Collection.Name
	path := filepath.Join(job.Dir, ioutils.SanitizeFileName(name)+m.playlist.Format().Extension())
	content := m.playlist.CreatePlaylist(name, tracks)
	if err := ioutils.WriteFileAtomic(path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", job.Collection.Title), Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
