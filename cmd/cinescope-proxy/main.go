// Command cinescope-proxy is a small same-origin proxy for the catalog API.
// It strips the /api prefix and forwards everything else to the upstream,
// keeping session cookies on a single origin for browser-based frontends.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	listen := pflag.String("listen", ":8080", "address to listen on")
	upstream := pflag.String("upstream", "https://cinemaguide.skillbox.cc", "catalog API origin to forward to")
	pflag.Parse()

	target, err := url.Parse(*upstream)
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, "/api")
			if pr.Out.URL.Path == "" {
				pr.Out.URL.Path = "/"
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream request failed", "path", r.URL.Path, "error", err)
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		},
	}

	router := mux.NewRouter()
	router.PathPrefix("/api/").Handler(proxy)
	router.Use(loggingMiddleware(logger))

	srv := &http.Server{
		Addr:         *listen,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logger.Info("proxy listening", "addr", *listen, "upstream", target.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
