// Package archive persists generated meshes as a zip file with one gob
// encoded entry per mesh.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/achilleasa/autolod/asset"
	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/scene"
	"github.com/google/uuid"
)

// The extension of mesh entries.
const EntryExt = ".mesh"

var (
	ErrCorruptEntry = errors.New("archive: corrupt entry")
)

// FileName returns the archive name used for the HLOD meshes of a scene.
func FileName(sceneName string) string {
	return sceneName + "_HLOD.zip"
}

// Write stores meshes into a zip file at path, replacing any existing file.
func Write(path string, meshes map[uuid.UUID]*scene.Mesh) error {
	logger := log.New("archive")
	start := time.Now()

	ids := make([]uuid.UUID, 0, len(meshes))
	for id := range meshes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	for _, id := range ids {
		w, err := zw.Create(id.String() + EntryExt)
		if err != nil {
			tmp.Close()
			return err
		}
		if err = gob.NewEncoder(w).Encode(meshes[id]); err != nil {
			tmp.Close()
			return fmt.Errorf("archive: failed to encode mesh %s: %w", id, err)
		}
	}
	if err = zw.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	logger.Noticef("wrote %d meshes to %q in %d ms", len(ids), path, time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Read loads the meshes stored in an archive resource.
func Read(res *asset.Resource) (map[uuid.UUID]*scene.Mesh, error) {
	logger := log.New("archive")
	start := time.Now()

	// zip needs an io.ReaderAt so the archive is buffered in memory.
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	meshes := make(map[uuid.UUID]*scene.Mesh, len(zr.File))
	for _, f := range zr.File {
		id, err := uuid.Parse(strings.TrimSuffix(f.Name, EntryExt))
		if err != nil || !strings.HasSuffix(f.Name, EntryExt) {
			logger.Warningf("unknown file %s in mesh archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		mesh := new(scene.Mesh)
		err = gob.NewDecoder(rc).Decode(mesh)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w %s: %s", ErrCorruptEntry, f.Name, err)
		}
		meshes[id] = mesh
	}

	logger.Noticef("loaded %d meshes from %q in %d ms", len(meshes), res.Path(), time.Since(start).Nanoseconds()/1e6)
	return meshes, nil
}

// ReadFile loads the meshes stored in an archive file.
func ReadFile(path string) (map[uuid.UUID]*scene.Mesh, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return Read(res)
}
