/*
Copyright © 2024 the Exposure authors.
This file is part of Exposure.

Exposure is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Exposure is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Exposure.  If not, see <http://www.gnu.org/licenses/>.
*/

package exposureutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/exposure"
	"github.com/spf13/cast"
)

// Server answers exposure scenario requests over HTTP. A POST to the
// server with form-encoded or JSON-object inputs, keyed by the form keys,
// returns the JSON encoding of the exposure.Response.
type Server struct {
	// Options are applied to every simulation after the per-request
	// observer and seed.
	Options []exposure.Option

	// Timeout limits the duration of each simulation. Zero means no limit.
	Timeout time.Duration

	Log logrus.FieldLogger
}

// maxBodyBytes limits the size of a request body.
const maxBodyBytes = 1 << 20

// NewServer returns a server that logs to the standard logger.
func NewServer(timeout time.Duration, opts ...exposure.Option) *Server {
	return &Server{
		Options: opts,
		Timeout: timeout,
		Log:     logrus.StandardLogger(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Log.WithFields(logrus.Fields{
		"url":    r.URL.String(),
		"addr":   r.RemoteAddr,
		"method": r.Method,
	}).Info("exposure request")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, exposure.Response{Err: errors.New("method not allowed; use POST")})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	values, err := requestValues(r)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, exposure.Response{Err: err})
		return
	}

	ctx := r.Context()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	opts := append([]exposure.Option{
		exposure.WithObserver(exposure.LogObserver(s.Log)),
		exposure.WithSeed(uint64(time.Now().UnixNano())),
	}, s.Options...)
	resp := exposure.Evaluate(ctx, values, opts...)

	status := http.StatusOK
	switch {
	case resp.Err == nil:
	case errors.Is(resp.Err, exposure.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(resp.Err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	if resp.Err != nil {
		s.Log.WithError(resp.Err).Warn("exposure request failed")
	}
	writeJSON(w, status, resp)
}

// requestValues reads the scenario inputs from the body of r. Bodies over
// the size limit return the *http.MaxBytesError.
func requestValues(r *http.Request) (map[string]string, error) {
	values := make(map[string]string)
	var tooLarge *http.MaxBytesError
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if errors.As(err, &tooLarge) {
				return nil, tooLarge
			}
			return nil, &exposure.ValidationError{Field: "body"}
		}
		for k, v := range body {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, &exposure.ValidationError{Field: k}
			}
			values[k] = s
		}
		return values, nil
	}
	if err := r.ParseForm(); err != nil {
		if errors.As(err, &tooLarge) {
			return nil, tooLarge
		}
		return nil, &exposure.ValidationError{Field: "body"}
	}
	for _, k := range exposure.FormKeys {
		values[k] = r.PostForm.Get(k)
	}
	return values, nil
}

func writeJSON(w http.ResponseWriter, status int, resp exposure.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
