package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/fremvaerk/horalis/internal/metrics"
)

// newWebHandler routes gRPC-web, cleartext HTTP/2 gRPC and /metrics on one
// listener.
func newWebHandler(grpcServer *grpc.Server, allowedOrigins []string) http.Handler {
	wrapped := grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(originAllowed(allowedOrigins)),
		grpcweb.WithAllowedRequestHeaders([]string{"*"}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case wrapped.IsGrpcWebRequest(r), wrapped.IsAcceptableGrpcCorsRequest(r):
			wrapped.ServeHTTP(w, r)
		case isNativeGRPC(r):
			grpcServer.ServeHTTP(w, r)
		default:
			mux.ServeHTTP(w, r)
		}
	})
	return h2c.NewHandler(handler, &http2.Server{})
}

func isNativeGRPC(r *http.Request) bool {
	return r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc")
}

func originAllowed(allowed []string) func(string) bool {
	return func(origin string) bool {
		return len(allowed) == 0 || slices.Contains(allowed, origin)
	}
}
