package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"printd/internal/jobs"
	"printd/internal/printqueue"
	"printd/pkg/types"
)

// uploadField is the multipart field carrying the image.
const uploadField = "image"

const msgAccepted = "Print request received successfully."

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Submit(u jobs.Upload) (*printqueue.Result, error)
	Status() types.StatusResponse
	Pause()
	Resume()
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, access log, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5, "application/json"))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/print", submitHandler(svc))

		r.Get("/queue", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.Status())
		})
		r.Post("/queue/pause", func(w http.ResponseWriter, r *http.Request) {
			svc.Pause()
			writeJSON(w, http.StatusOK, svc.Status())
		})
		r.Post("/queue/resume", func(w http.ResponseWriter, r *http.Request) {
			svc.Resume()
			writeJSON(w, http.StatusOK, svc.Status())
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// submitHandler accepts one multipart image, queues it and answers without
// waiting for the printer unless ?wait=1 is given.
func submitHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, hdr, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				countSubmission("too_large")
				writeJSONError(w, http.StatusRequestEntityTooLarge, "upload too large")
				return
			}
			countSubmission("no_file")
			writeJSONError(w, http.StatusBadRequest, "No file uploaded.")
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			countSubmission("read_error")
			writeJSONError(w, http.StatusBadRequest, "failed to read upload")
			return
		}

		res, err := svc.Submit(jobs.Upload{Name: hdr.Filename, Data: data})
		if err != nil {
			if jobs.IsNoFile(err) {
				countSubmission("no_file")
				writeJSONError(w, http.StatusBadRequest, "No file uploaded.")
				return
			}
			countSubmission("error")
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		countSubmission("accepted")
		zlog.Info().Str("job_id", res.ID()).Str("file", hdr.Filename).Int("size", len(data)).
			Str("request_id", middleware.GetReqID(r.Context())).Msg("print job queued")

		if !wantWait(r) {
			go watch(res, hdr.Filename)
			writeJSON(w, http.StatusOK, types.PrintResponse{Message: msgAccepted, JobID: res.ID()})
			return
		}

		ctx, cancel := waitContext(r)
		defer cancel()
		v, err := res.Wait(ctx)
		switch classifyWait(ctx, r, err) {
		case waitClientGone:
			// nobody to answer; the job still runs
			go watch(res, hdr.Filename)
			return
		case waitShutdown:
			go watch(res, hdr.Filename)
			writeJSONError(w, http.StatusServiceUnavailable, "server shutting down; job "+res.ID()+" still queued")
			return
		case waitTimedOut:
			go watch(res, hdr.Filename)
			writeJSONError(w, http.StatusGatewayTimeout, "job "+res.ID()+" still queued")
			return
		}
		if err != nil {
			zlog.Error().Err(err).Str("job_id", res.ID()).Str("file", hdr.Filename).Msg("print job failed")
			var he HTTPError
			if errors.As(err, &he) {
				writeJSONError(w, he.StatusCode(), he.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, types.PrintResponse{Message: "Print job completed.", JobID: res.ID(), Result: v})
	}
}

func wantWait(r *http.Request) bool {
	v := r.URL.Query().Get("wait")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// watch logs the outcome of a job nobody is waiting on, so payload errors
// are not lost when the submitter has already been answered.
func watch(res *printqueue.Result, name string) {
	<-res.Done()
	if _, err := res.Wait(context.Background()); err != nil {
		zlog.Error().Err(err).Str("job_id", res.ID()).Str("file", name).Msg("print job failed")
		return
	}
	zlog.Info().Str("job_id", res.ID()).Str("file", name).Msg("print job completed")
}
