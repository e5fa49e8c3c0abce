// Package config provides configuration management for soundcloud-downloader.
//
// This package handles:
//   - Loading and saving settings from YAML files
//   - Default configuration values
//   - Environment overrides (SCDL_CLIENT_ID)
//   - Conversion to the tagger and playlist configurations
//
// # Loading from File
//
//	settings, err := config.Load("scdl.yaml")
//	if err != nil {
//	    // invalid file or values; a missing file yields the defaults
//	}
//
// # Configuration Options
//
// API:
//   - client_id: credential appended to every API and audio request
//   - api_base_url: API root (default https://api.soundcloud.com)
//   - request_timeout: per request timeout (default 60s)
//
// Collection and download:
//   - num_tracks: tracks to collect per collection (default 50)
//   - page_cap: largest page requested from the API (default 100)
//   - output_dir: root directory for downloads (default downloads)
//   - ledger_file: completion ledger, relative to each collection directory
//     unless absolute (default dl_data.json)
//   - dry_run: list tracks without downloading
//
// Cover art:
//   - save_cover_art_in_tags: embed artwork into stream downloads
//   - cover_art_in_tags_resize, cover_art_in_tags_max_size: bound the
//     embedded image
//   - convert_cover_art_to_jpg: re-encode artwork as JPEG
//
// Playlists:
//   - create_playlist, playlist_format (m3u, pls, wpl, zpl), m3u_extended
package config
