package api

import (
	"context"
	"net/http"

	"github.com/bugsnag/bugsnag-go/v2"
)

// Reporter forwards server-side failures to an error tracker.
type Reporter interface {
	Report(ctx context.Context, err error, r *http.Request, meta map[string]any)
}

// BugsnagReporter notifies Bugsnag. bugsnag.Configure must have been called.
type BugsnagReporter struct{}

// Report sends err to Bugsnag with the request and meta attached.
func (BugsnagReporter) Report(ctx context.Context, err error, r *http.Request, meta map[string]any) {
	md := bugsnag.MetaData{}
	for k, v := range meta {
		md.Add("request", k, v)
	}
	_ = bugsnag.Notify(err, ctx, r, bugsnag.SeverityError, md)
}

type noopReporter struct{}

func (noopReporter) Report(context.Context, error, *http.Request, map[string]any) {}
