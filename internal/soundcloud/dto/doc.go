// Package dto holds the SoundCloud API resources and the adapters that expose
// them to model.NewTrackItem.
//
// Two record shapes exist: JSONTrack, decoded from a favorites page, and
// Mapping, a path-based view over raw JSON used for playlist track arrays.
// Both implement model.TrackSource and yield identical items for equivalent
// data.
package dto
