package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/handlers"
)

const (
	wildcard              = "*"
	requestMethodHeader   = "Access-Control-Request-Method"
	requestHeadersHeader  = "Access-Control-Request-Headers"
	preflightStatusCode   = http.StatusOK
	preflightMaxAgeSecond = 600
)

// wildcardMethods is what a "*" method entry expands to.
var wildcardMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// corsHandler adapts gorilla's CORS handler, which compares methods and
// headers literally, to lists that may contain "*". A wildcard header list
// admits whatever the preflight asks for. A wildcard origin list with
// credentials echoes the caller's origin instead of "*".
func corsHandler(cfg CORSConfig) func(http.Handler) http.Handler {
	anyOrigin := slices.Contains(cfg.AllowedOrigins, wildcard)
	anyHeader := slices.Contains(cfg.AllowedHeaders, wildcard)

	methods := cfg.AllowedMethods
	if len(methods) == 0 || slices.Contains(methods, wildcard) {
		methods = wildcardMethods
	}

	base := []handlers.CORSOption{
		handlers.AllowedMethods(methods),
		handlers.OptionStatusCode(preflightStatusCode),
		handlers.MaxAge(preflightMaxAgeSecond),
	}
	reflect := anyOrigin && cfg.AllowCredentials
	switch {
	case reflect:
		base = append(base, handlers.AllowedOriginValidator(func(string) bool { return true }))
	case len(cfg.AllowedOrigins) > 0:
		base = append(base, handlers.AllowedOrigins(cfg.AllowedOrigins))
	}
	if cfg.AllowCredentials {
		base = append(base, handlers.AllowCredentials())
	}
	var listed []string
	for _, h := range cfg.AllowedHeaders {
		if h != wildcard {
			listed = append(listed, h)
		}
	}
	if len(listed) > 0 {
		base = append(base, handlers.AllowedHeaders(listed))
	}

	return func(next http.Handler) http.Handler {
		static := handlers.CORS(base...)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Origin") == "" {
				next.ServeHTTP(w, r)
				return
			}
			if reflect {
				w.Header().Add("Vary", "Origin")
			}
			requested := r.Header.Get(requestHeadersHeader)
			if !anyHeader || r.Method != http.MethodOptions || requested == "" || r.Header.Get(requestMethodHeader) == "" {
				static.ServeHTTP(w, r)
				return
			}
			opts := slices.Clone(base)
			opts = append(opts, handlers.AllowedHeaders(splitHeaderList(requested)))
			handlers.CORS(opts...)(next).ServeHTTP(w, r)
		})
	}
}

func splitHeaderList(v string) []string {
	var out []string
	for _, h := range strings.Split(v, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
