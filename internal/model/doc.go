// Package model defines the canonical track record used throughout
// soundcloud-downloader.
//
// # TrackItem
//
// A TrackItem is built once from an API record through the TrackSource
// capability interface and never changes afterwards:
//
//	item, err := model.NewTrackItem(src)
//	fmt.Println(item.Filename)  // "padraig-o-deja-vu"
//	fmt.Println(item.Permalink) // ledger key
//
// # Text normalization
//
// All text fields are folded to ASCII: the string is decomposed (NFD) and
// every non-ASCII rune is dropped, so diacritics disappear instead of being
// transliterated. Slugify builds filesystem-safe names from folded text:
//
//	model.Slugify("Déjà Vu!!") // "deja-vu"
package model
