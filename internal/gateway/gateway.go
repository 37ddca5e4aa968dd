// Package gateway exposes the ICAP client over HTTP: upload a file,
// get the scan verdict back as JSON. Verdicts are cached by payload
// hash so identical content is only submitted to the server once.
package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/imicap/icap"
	verdictstore "github.com/imicap/icap/pkg/verdict-store"
)

// DefaultMaxUploadBytes caps scan uploads at 100 MiB unless
// overridden.
const DefaultMaxUploadBytes = 100 << 20

// ScanFunc submits one payload for adaptation and returns the verdict.
type ScanFunc func(payload icap.Payload) (icap.Verdict, error)

// Config configures the gateway.
type Config struct {
	ICAP           icap.ServiceConfig
	Store          verdictstore.StoreProvider
	MaxUploadBytes int64

	// Scan overrides how payloads are scanned. When nil, the gateway
	// dials the configured ICAP service for each scan; one connection
	// carries one transaction, so concurrent uploads never share a
	// socket.
	Scan ScanFunc
}

// Result is the JSON scan result.
// Status is "OK" (allowed), "FOUND" (blocked), "UNDETERMINED"
// (unrecognized server status) or "ERROR".
type Result struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

type Gateway struct {
	store     verdictstore.StoreProvider
	scan      ScanFunc
	maxUpload int64
}

// New creates a gateway instance.
func New(config Config) *Gateway {
	g := &Gateway{
		store:     config.Store,
		scan:      config.Scan,
		maxUpload: config.MaxUploadBytes,
	}
	if g.store == nil {
		g.store = verdictstore.NewMemStore()
	}
	if g.maxUpload == 0 {
		g.maxUpload = DefaultMaxUploadBytes
	}
	if g.scan == nil {
		settings := config.ICAP.Settings()
		g.scan = func(payload icap.Payload) (icap.Verdict, error) {
			client, err := icap.DialSettings(settings)
			if err != nil {
				return icap.Undetermined, err
			}
			defer client.Close()
			return client.ScanVerdict(payload)
		}
	}
	return g
}

// Handler returns the HTTP handler for the gateway.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestID)
	r.Get("/healthz", g.health)
	r.Post("/scan", g.handleScan)
	return r
}

// requestID tags every request log line with a fresh UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r).With().Str("request-id", uuid.NewString()).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func (g *Gateway) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Result{Status: "OK"})
}

func (g *Gateway) handleScan(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, g.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Status: "ERROR", Message: "missing file upload"})
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Status: "ERROR", Message: "could not read upload"})
		return
	}

	key := verdictstore.Key(payload)
	if record, ok, err := g.store.Get(key); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Could not read from store")
	} else if ok {
		logger.Trace().Str("key", key).Msg("Store hit and serving")
		writeJSON(w, http.StatusOK, result(record.Verdict, header.Filename, true))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	verdict, err := g.scan(icap.NewBytesPayload(payload, contentType))
	if err != nil {
		logger.Error().Err(err).Str("filename", header.Filename).Msg("Scan failed")
		writeJSON(w, http.StatusBadGateway, Result{Status: "ERROR", Message: err.Error(), Filename: header.Filename})
		return
	}

	if err := g.store.Put(key, verdictstore.Record{Verdict: verdict, Scanned: time.Now()}); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Could not write to store")
	}
	logger.Debug().Str("filename", header.Filename).Stringer("verdict", verdict).Msg("Scan done")
	writeJSON(w, http.StatusOK, result(verdict, header.Filename, false))
}

func result(verdict icap.Verdict, filename string, cached bool) Result {
	res := Result{Filename: filename, Cached: cached}
	switch verdict {
	case icap.Allowed:
		res.Status = "OK"
	case icap.Blocked:
		res.Status = "FOUND"
		res.Message = "content blocked by adaptation server"
	default:
		res.Status = "UNDETERMINED"
		res.Message = "server returned an unrecognized status"
	}
	return res
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
