package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics exposes the prometheus metrics on addr until the returned
// function is called. An empty addr disables the endpoint.
func serveMetrics(addr string) (stop func()) {
	if addr == "" {
		return func() {}
	}

	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: &mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics endpoint failed: %s", err)
		}
	}()
	logger.Noticef("serving metrics on http://%s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
