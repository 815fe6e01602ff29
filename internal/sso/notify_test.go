package sso

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterNotifier{W: &buf}.Notify(context.Background(), "https://verification-url.com"))
	assert.Contains(t, buf.String(), "https://verification-url.com")
}

func TestBrowserNotifier(t *testing.T) {
	var opened string
	n := BrowserNotifier{Open: func(url string) error {
		opened = url
		return nil
	}}
	require.NoError(t, n.Notify(context.Background(), "https://verification-url.com"))
	assert.Equal(t, "https://verification-url.com", opened)

	failing := BrowserNotifier{Open: func(string) error { return errors.New("no display") }}
	require.EqualError(t, failing.Notify(context.Background(), "https://verification-url.com"), "failed to open browser: no display")
}

func TestMultiNotifierStopsAtFirstError(t *testing.T) {
	first := &recordingNotifier{}
	boom := errors.New("boom")
	second := &recordingNotifier{err: boom}
	third := &recordingNotifier{}

	err := MultiNotifier{first, second, third}.Notify(context.Background(), "https://verification-url.com")
	require.Same(t, boom, err)
	assert.Len(t, first.urls, 1)
	assert.Len(t, second.urls, 1)
	assert.Empty(t, third.urls)
}
