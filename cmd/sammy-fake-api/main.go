// Command sammy-fake-api serves an in-memory SAMmy API for local development
// and end-to-end testing of clients.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/sammy-project/sammy-client-go/cmd/internal/util"
	"github.com/sammy-project/sammy-client-go/registry"
)

func main() {
	var (
		listenAddr     string
		allowedOrigins string
		development    bool
	)
	flag.StringVar(&listenAddr, "listen-addr", "localhost:8000", "Listen address of the fake API.")
	flag.StringVar(&allowedOrigins, "allowed-origins", registry.DefaultAllowedOrigin, "Comma-separated list of origins allowed by CORS.")
	flag.BoolVar(&development, "development", false, "Use human-readable development logging.")
	flag.Parse()

	l := util.FatalLogr{Logger: util.NewLogger("sammy-fake-api", os.Stderr, development)}

	reg := registry.New()
	reg.Log = l.WithName("registry")
	reg.AllowedOrigins = splitOrigins(allowedOrigins)

	l.Info("starting http server", "listen-addr", listenAddr, "allowed-origins", reg.AllowedOrigins)
	if err := http.ListenAndServe(listenAddr, reg.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal(err, "http server failed")
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
