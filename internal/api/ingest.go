package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/obddrive/obd-core/internal/ingest"
)

// handleUpload processes one telemetry frame. The response bodies are
// fixed by the uploader protocol: "OK!" for accepted frames, "IGNORED"
// for filtered ones, 404 while the endpoint is disabled, and a plain
// 500 "Error" for anything unexpected.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := s.flattenParams(r)
	if err != nil {
		s.logger.Error("reading upload frame", "error", err)
		s.countFrame(FrameResultError)
		writePlain(w, http.StatusInternalServerError, "Error")
		return
	}

	result, err := s.ingest.Process(r.Context(), params)
	if s.metrics != nil {
		s.metrics.UploadDuration.Observe(time.Since(start).Seconds())
	}

	switch {
	case errors.Is(err, ingest.ErrInactive):
		s.countFrame(FrameResultInactive)
		writePlain(w, http.StatusNotFound, "Not Found")
	case err != nil:
		s.logger.Error("processing upload frame", "error", err)
		s.countFrame(FrameResultError)
		writePlain(w, http.StatusInternalServerError, "Error")
	case result == ingest.ResultAccepted:
		s.countFrame(FrameResultAccepted)
		s.countUnknown()
		writePlain(w, http.StatusOK, "OK!")
	default:
		s.countFrame(FrameResultIgnored)
		writePlain(w, http.StatusOK, "IGNORED")
	}
}

// handleUploadProbe answers the app's reachability check.
func (s *Server) handleUploadProbe(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// flattenParams merges the request's parameter sources into one map.
// For POST, body keys win: the body is tried as JSON regardless of
// Content-Type, then as form fields, and query parameters fill in
// whatever is still missing. GET uses the query alone.
func (s *Server) flattenParams(r *http.Request) (map[string]string, error) {
	params := make(map[string]string)

	if r.Method == http.MethodPost {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		var body map[string]any
		if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
			for k, v := range body {
				params[k] = stringifyParam(v)
			}
		} else {
			r.Body = io.NopCloser(bytes.NewReader(raw))
			if err := r.ParseForm(); err == nil {
				for k, vs := range r.PostForm {
					if _, ok := params[k]; !ok && len(vs) > 0 {
						params[k] = vs[0]
					}
				}
			}
		}
	}

	for k, vs := range r.URL.Query() {
		if _, ok := params[k]; !ok && len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	return params, nil
}

// stringifyParam flattens a JSON value to the string form the decoder
// expects. Numbers keep their shortest representation.
func stringifyParam(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// handleLastSession exposes the most recently accepted session for
// debugging uploader configuration.
func (s *Server) handleLastSession(w http.ResponseWriter, _ *http.Request) {
	last := s.ingest.LastSession()
	if last == nil {
		writeNotFound(w, "no session received yet")
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) countFrame(result string) {
	if s.metrics != nil {
		s.metrics.FramesTotal.WithLabelValues(result).Inc()
	}
}

func (s *Server) countUnknown() {
	if s.metrics == nil {
		return
	}
	if last := s.ingest.LastSession(); last != nil {
		s.metrics.UnknownCodes.Add(float64(len(last.Unknown)))
	}
}
