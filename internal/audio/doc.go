// Package audio writes ID3 tags to downloaded MP3 files and renders
// playlists for downloaded collections.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(mp3Path, track, coverJPEG)
//
// Only stream downloads are tagged; original uploads keep the tags they
// were uploaded with. The tagger writes:
//   - Title and Artist
//   - Track description (as unsynchronised lyrics)
//   - Cover Art
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist("!_likes", tracks)
//
// Supported formats: M3U (optionally extended), PLS, WPL and ZPL.
package audio
