// Package soundcloud resolves SoundCloud page URLs and pages through the
// collections behind them.
//
// A run starts from a Target (ParseTarget), which Client.Collections
// resolves into one or more Collection values. Client.Tracks then pages
// through a collection with the pager package and normalizes every record
// into a model.TrackItem:
//
//	target, _ := soundcloud.ParseTarget("https://soundcloud.com/someone")
//	colls, err := client.Collections(ctx, target)
//	items, skipped, err := client.Tracks(ctx, colls[0], 50, pager.DefaultPageCap, nil)
//
// Favorites are returned by the API newest first and are reversed so that
// downloads run oldest first. Playlist order is kept.
package soundcloud
