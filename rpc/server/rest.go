package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/go-chi/chi/v5"
)

// --------------------------------------------------------------------------
// REST api (mounted on transports implementing transport.IRouteRegistrar)
// --------------------------------------------------------------------------

// restRoutes returns a function mounting the REST api of s on a chi router:
//
//	PUT    /key/{key}?value=<v>
//	GET    /key/{key}
//	DELETE /key/{key}
//	GET    /scan
func restRoutes(s store.IStore) func(r chi.Router) {
	return func(r chi.Router) {
		r.Put("/key/{key}", func(w http.ResponseWriter, req *http.Request) {
			query := req.URL.Query()
			if !query.Has("value") {
				http.Error(w, "Missing 'value' parameter", http.StatusBadRequest)
				return
			}
			res, err := s.Put(chi.URLParam(req, "key"), []byte(query.Get("value")))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, res)
		})

		r.Get("/key/{key}", func(w http.ResponseWriter, req *http.Request) {
			value, found, err := s.Get(chi.URLParam(req, "key"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			if !found {
				http.Error(w, "Key not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(value)
		})

		r.Delete("/key/{key}", func(w http.ResponseWriter, req *http.Request) {
			res, err := s.Delete(chi.URLParam(req, "key"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, res)
		})

		r.Get("/scan", func(w http.ResponseWriter, _ *http.Request) {
			entries, err := s.Scan()
			if err != nil {
				writeStoreError(w, err)
				return
			}
			out := make(map[string]string, len(entries))
			for k, v := range entries {
				out[k] = string(v)
			}
			writeJSON(w, out)
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Warningf("Failed to write response: %v", err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	var kvErr *store.Error
	if errors.As(err, &kvErr) && kvErr.Code == store.RetCInvalidOperation {
		http.Error(w, kvErr.Msg, http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
