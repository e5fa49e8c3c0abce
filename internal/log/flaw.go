package log

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/xeptore/flaw/v8"
)

// Flaw renders err into a log event. Flaw errors are expanded into their
// records and stack trace; anything else is logged with Err.
//
//	logger.Error().Func(log.Flaw(err)).Msg("Failed to collect tracks")
func Flaw(err error) func(e *zerolog.Event) {
	return func(e *zerolog.Event) {
		flawErr := new(flaw.Flaw)
		if !errors.As(err, &flawErr) {
			e.Err(err)
			return
		}

		e.Dict(
			"error",
			zerolog.
				Dict().
				Str("message", flawErr.Inner).
				Str("type_name", flawErr.InnerType),
		)

		records := zerolog.Arr()
		for _, v := range flawErr.Records {
			b, err := json.MarshalWithOption(v.Payload, json.UnorderedMap(), json.DisableHTMLEscape())
			if err != nil {
				records.Dict(zerolog.Dict().Str("function", v.Function).Str("payload", fmt.Sprintf("%#+v", v.Payload)))
				continue
			}
			records.Dict(zerolog.Dict().Str("function", v.Function).RawJSON("payload", b))
		}
		e.Array("records", records)

		stackTraces := zerolog.Arr()
		for _, v := range flawErr.StackTrace {
			stackTraces.Str(fmt.Sprintf("%s:%d %s", v.File, v.Line, v.Function))
		}
		e.Array("stack_traces", stackTraces)
	}
}
