// Package server exposes the descriptors held by a registry over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/JiscSD/openenum/openenum"
	"github.com/JiscSD/openenum/registry"
)

// Enums is the read side of registry.Registry.
type Enums interface {
	Get(name string) (*openenum.Descriptor, bool)
	Record(name string) (registry.Record, bool)
	Names() []string
}

// Server answers enum lookups.
type Server struct {
	logger       logrus.FieldLogger
	enums        Enums
	decoder      *schema.Decoder
	lookups      prometheus.Counter
	unrecognized prometheus.Counter
}

// New returns a Server. Its counters are registered with reg when reg is not
// nil.
func New(logger logrus.FieldLogger, enums Enums, reg prometheus.Registerer) (*Server, error) {
	s := &Server{
		logger:  logger,
		enums:   enums,
		decoder: schema.NewDecoder(),
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "openenum",
			Name:      "lookups_total",
			Help:      "The total number of enum lookups served.",
		}),
		unrecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "openenum",
			Name:      "unrecognized_decodes_total",
			Help:      "The total number of decoded numbers that open enums did not declare.",
		}),
	}
	s.decoder.IgnoreUnknownKeys(true)
	if reg != nil {
		for _, c := range []prometheus.Collector{s.lookups, s.unrecognized} {
			if err := reg.Register(c); err != nil {
				return nil, errors.Wrap(err, "metrics registration failed")
			}
		}
	}
	return s, nil
}

// Routes registers the API on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /enums", s.listEnums)
	mux.HandleFunc("GET /enums/{name}", s.getEnum)
	mux.HandleFunc("GET /enums/{name}/values", s.listValues)
	mux.HandleFunc("GET /enums/{name}/decode", s.decode)
}

// Handler returns a mux serving the API only.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)
	return mux
}

type enumResponse struct {
	Name    string          `json:"name"`
	Syntax  string          `json:"syntax"`
	Values  []valueResponse `json:"values"`
	Source  string          `json:"source,omitempty"`
	Updated time.Time       `json:"updated"`
}

// valueResponse describes a variant. Number is null for the UNRECOGNIZED
// sentinel.
type valueResponse struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	Number  *int32 `json:"number"`
}

type decodeResponse struct {
	Enum         string `json:"enum"`
	Ordinal      int    `json:"ordinal"`
	Name         string `json:"name"`
	Number       int32  `json:"number"`
	Unrecognized bool   `json:"unrecognized"`
}

type decodeQuery struct {
	Number int32 `schema:"number,required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listEnums(w http.ResponseWriter, r *http.Request) {
	names := s.enums.Names()
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) getEnum(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	resp := enumResponse{
		Name:   d.FullName(),
		Syntax: d.Syntax().String(),
		Values: variants(d),
	}
	if rec, ok := s.enums.Record(d.FullName()); ok {
		resp.Source = rec.Source
		resp.Updated = rec.Updated
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listValues(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, variants(d))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := decodeQuery{}
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid query"))
		return
	}
	v, err := d.Decode(openenum.Number(q.Number))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if v.Unrecognized() {
		s.unrecognized.Inc()
	}
	s.writeJSON(w, http.StatusOK, decodeResponse{
		Enum:         d.FullName(),
		Ordinal:      v.Ordinal(),
		Name:         v.Variant().Name(),
		Number:       int32(v.Raw()),
		Unrecognized: v.Unrecognized(),
	})
}

// lookup resolves the enum named in the path and counts the lookup.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*openenum.Descriptor, bool) {
	s.lookups.Inc()
	name := r.PathValue("name")
	d, ok := s.enums.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.Errorf("enum %s not found", name))
		return nil, false
	}
	return d, true
}

func variants(d *openenum.Descriptor) []valueResponse {
	vs := d.Variants()
	resp := make([]valueResponse, len(vs))
	for i, v := range vs {
		resp[i] = valueResponse{Ordinal: v.Ordinal(), Name: v.Name()}
		if n, err := v.Number(); err == nil {
			num := int32(n)
			resp[i].Number = &num
		}
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.WithField("status", status).Debug(err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Response could not be written: ", err)
	}
}
