package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/quadtree_viewer/scene"
	"github.com/mogaika/quadtree_viewer/status"
)

// SnapshotSource gives the last published frame, nil before the first one.
type SnapshotSource interface {
	Snapshot() *scene.Snapshot
}

type Server struct {
	src SnapshotSource
	hub *status.Hub
	log *log.Entry
}

func NewServer(src SnapshotSource, hub *status.Hub) *Server {
	return &Server{
		src: src,
		hub: hub,
		log: log.WithField("module", "web"),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerJsonScene).Methods(http.MethodGet)
	r.HandleFunc("/json/node/{path}", s.HandlerJsonNode).Methods(http.MethodGet)
	r.HandleFunc("/dump/node/{path}", s.HandlerDumpNode).Methods(http.MethodGet)
	r.HandleFunc("/export/scene.gltf", s.HandlerExportScene(false)).Methods(http.MethodGet)
	r.HandleFunc("/export/scene.glb", s.HandlerExportScene(true)).Methods(http.MethodGet)
	if s.hub != nil {
		r.HandleFunc("/ws/status", s.hub.ServeWS)
	}
	return r
}

// Handler returns router wrapped with panic recovery and access log.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.log),
		handlers.PrintRecoveryStack(true),
	)(s.Router())
	return handlers.LoggingHandler(s.log.WriterLevel(log.DebugLevel), h)
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server %v", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "web server %v", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrapf(err, "Failed to shutdown web server")
		}
		return nil
	}
}
