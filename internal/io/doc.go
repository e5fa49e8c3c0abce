// Package ioutils provides file system and image helpers.
//
//	// Create the collection and artwork directories
//	err := ioutils.EnsureDir(filepath.Join(dir, "images"))
//
//	// Replace a file without leaving a half-written copy behind
//	err := ioutils.WriteFileAtomic("dl_data.json", data)
//
//	// Directory names derived from remote data
//	safe := ioutils.SanitizeFileName("my: playlist") // "my_ playlist"
//
// The ImageService prepares cover art before it is embedded in ID3 tags:
//
//	svc := ioutils.NewImageService()
//	cover, err := svc.PrepareCover(raw, 500, true)
package ioutils
