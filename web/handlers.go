package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/quadtree_viewer/export"
	"github.com/mogaika/quadtree_viewer/scene"
	"github.com/mogaika/quadtree_viewer/utils"
	"github.com/mogaika/quadtree_viewer/webutils"
)

var errNoFrame = errors.New("no frame rendered yet")

func (s *Server) snapshot(w http.ResponseWriter) *scene.Snapshot {
	snap := s.src.Snapshot()
	if snap == nil {
		webutils.WriteError(w, http.StatusServiceUnavailable, errNoFrame)
	}
	return snap
}

func (s *Server) node(w http.ResponseWriter, r *http.Request) *scene.NodeSnapshot {
	snap := s.snapshot(w)
	if snap == nil {
		return nil
	}
	path := mux.Vars(r)["path"]
	n, ok := snap.Find(path)
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("node %q not found", path))
		return nil
	}
	return n
}

func (s *Server) HandlerJsonScene(w http.ResponseWriter, r *http.Request) {
	if snap := s.snapshot(w); snap != nil {
		webutils.WriteJson(w, snap)
	}
}

func (s *Server) HandlerJsonNode(w http.ResponseWriter, r *http.Request) {
	if n := s.node(w, r); n != nil {
		webutils.WriteJson(w, n)
	}
}

func (s *Server) HandlerDumpNode(w http.ResponseWriter, r *http.Request) {
	if n := s.node(w, r); n != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		webutils.WriteResult(w, []byte(utils.SDump(n)))
	}
}

func (s *Server) HandlerExportScene(binary bool) http.HandlerFunc {
	name, contentType := "scene.gltf", "model/gltf+json"
	if binary {
		name, contentType = "scene.glb", "model/gltf-binary"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.snapshot(w)
		if snap == nil {
			return
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, export.SceneToGLTF(snap), binary); err != nil {
			webutils.WriteError(w, http.StatusInternalServerError, err)
			return
		}
		s.log.Debugf("exported frame %d as %s (%d bytes)", snap.Frame, strings.TrimPrefix(name, "scene."), buf.Len())
		webutils.WriteFile(w, &buf, name, contentType)
	}
}
