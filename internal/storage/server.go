package storage

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/apex/log"
)

// StorageServer exposes a Storage over HTTP so that dumps held on one machine
// can be scanned from another.
type StorageServer struct {
	storage Storage
}

func NewStorageServer(storage Storage) *StorageServer {
	return &StorageServer{
		storage: storage,
	}
}

func (s *StorageServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /storage/{$}", s.handleList)
	mux.HandleFunc("GET /storage/{name...}", s.handleGet)

	return mux
}

func (s *StorageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

func (s *StorageServer) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.storage.List(r.Context())
	if err != nil {
		log.WithError(err).Warn("list failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (s *StorageServer) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.storage.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("name", name).Warn("get failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer data.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, data)
}
