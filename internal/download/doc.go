// Package download turns collected SoundCloud tracks into tagged MP3 files.
//
// # Pipeline
//
// Pipeline.Process handles one track and reports an Outcome instead of an
// error:
//
//  1. Skip tracks already recorded in the ledger
//  2. Skip everything in dry run mode, without touching disk or network
//  3. Pick the download link (original upload) over the stream link; skip
//     tracks with neither
//  4. Download the audio to <dir>/<filename>.mp3 and the artwork to
//     <dir>/images/<filename>.jpg
//  5. Tag stream downloads (title, artist, description, cover); original
//     uploads keep their own tags
//  6. Record the track in the ledger and save it
//
// A failure in steps 3 to 5 marks only that track as failed.
//
// # Manager
//
// The Manager drives a whole run:
//
//	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	defer manager.Close()
//
//	if err := manager.Initialize(ctx, "https://soundcloud.com/someone"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%+v\n", manager.Summary())
//
// Tracks are processed strictly one at a time. Each collection gets its own
// ledger file, by default dl_data.json inside the collection directory.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package download
