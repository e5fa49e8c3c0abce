package soundcloud

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud/dto"
)

// Normalize builds a TrackItem from a raw API record.
//
// Accepted shapes are the typed resource (dto.JSONTrack or *dto.JSONTrack)
// and the raw mapping (json.RawMessage, []byte, gjson.Result or
// map[string]any holding a JSON object). Equivalent data yields an
// identical item regardless of shape.
//
// Any other kind of value fails with model.ErrUnsupportedInputKind.
func Normalize(raw any) (*model.TrackItem, error) {
	src, err := sourceOf(raw)
	if err != nil {
		return nil, err
	}
	return model.NewTrackItem(src)
}

func sourceOf(raw any) (model.TrackSource, error) {
	switch v := raw.(type) {
	case *dto.JSONTrack:
		if v == nil {
			return nil, model.ErrUnsupportedInputKind
		}
		return v, nil
	case dto.JSONTrack:
		return &v, nil
	case *dto.Mapping:
		if v == nil {
			return nil, model.ErrUnsupportedInputKind
		}
		return v, nil
	case gjson.Result:
		if !v.IsObject() {
			return nil, fmt.Errorf("%w: JSON %s", model.ErrUnsupportedInputKind, v.Type)
		}
		return dto.NewMapping(v), nil
	case json.RawMessage:
		return parseMapping(v)
	case []byte:
		return parseMapping(v)
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedInputKind, err)
		}
		return parseMapping(b)
	default:
		return nil, fmt.Errorf("%w: %T", model.ErrUnsupportedInputKind, raw)
	}
}

func parseMapping(b []byte) (model.TrackSource, error) {
	m, ok := dto.ParseMapping(b)
	if !ok {
		return nil, fmt.Errorf("%w: not a JSON object", model.ErrUnsupportedInputKind)
	}
	return m, nil
}
