package sso

import (
	"context"
	"fmt"
	"io"

	"github.com/chukul/ssoctl/internal"
)

// UserNotifier hands the verification URL to the user so they can approve
// the request out of band. Flow calls it exactly once per Resolve.
type UserNotifier interface {
	Notify(ctx context.Context, verificationURL string) error
}

// NotifierFunc adapts a plain function to UserNotifier.
type NotifierFunc func(ctx context.Context, verificationURL string) error

func (f NotifierFunc) Notify(ctx context.Context, verificationURL string) error {
	return f(ctx, verificationURL)
}

// WriterNotifier prints the verification URL.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, verificationURL string) error {
	_, err := fmt.Fprintf(n.W, "🌐 Approve this login in your browser:\n   %s\n", verificationURL)
	return err
}

// BrowserNotifier opens the verification URL. Open defaults to internal.OpenURL.
type BrowserNotifier struct {
	Open func(url string) error
}

func (n BrowserNotifier) Notify(_ context.Context, verificationURL string) error {
	open := n.Open
	if open == nil {
		open = internal.OpenURL
	}
	if err := open(verificationURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// MultiNotifier calls each notifier in order and stops at the first error.
type MultiNotifier []UserNotifier

func (m MultiNotifier) Notify(ctx context.Context, verificationURL string) error {
	for _, n := range m {
		if err := n.Notify(ctx, verificationURL); err != nil {
			return err
		}
	}
	return nil
}
