package commands

import (
	"bytes"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/trio/internal/printer"
	"github.com/dyluth/trio/pkg/scoreboard"
	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// capturePrinter redirects printer output for the duration of a test.
func capturePrinter(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr, prevNoColor := printer.Out, printer.ErrOut, color.NoColor
	printer.Out, printer.ErrOut, color.NoColor = out, errOut, true
	t.Cleanup(func() {
		printer.Out, printer.ErrOut, color.NoColor = prevOut, prevErr, prevNoColor
	})
	return out, errOut
}

// startRedis returns a miniredis URL and a reader client for instance.
func startRedis(t *testing.T, instance string) (string, *scoreboard.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := scoreboard.NewClient(&redis.Options{Addr: mr.Addr()}, instance)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return "redis://" + mr.Addr() + "/0", client
}
