package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/xeptore/flaw/v8"

	"github.com/handiism/soundcloud-downloader/internal/download"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
)

func TestSummaryLine(t *testing.T) {
	assert.Equal(t,
		"Done. 2 downloaded, 1 skipped, 0 failed.",
		summaryLine(download.Summary{Downloaded: 2, Skipped: 1}))
	assert.Equal(t,
		"Done. 2 downloaded, 0 skipped, 1 failed. 1 downloaded without tags, see the log file.",
		summaryLine(download.Summary{Downloaded: 2, Failed: 1, Flagged: 1}))
}

func TestFatal_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"resolution", &soundcloud.ResolutionError{URL: "https://soundcloud.com/x", Err: errors.New("404")}, resolutionFailedMessage},
		{"invalid target", soundcloud.ErrInvalidTarget, resolutionFailedMessage},
		{"interrupted", context.Canceled, "Interrupted."},
		{"page error", fmt.Errorf("collect likes of u: %w", flaw.From(errors.New("failed to fetch collection page"))), "ERROR: collect likes of u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fatal(zerolog.Nop(), tt.err)
			var exitErr cli.ExitCoder
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 1, exitErr.ExitCode())
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
