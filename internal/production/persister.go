// Package production provides the integrations a long-running arbiter needs:
// snapshot persistence, control-event publishing and visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/arbiterx/internal/core"
)

var ErrNoArbiterID = errors.New("production: snapshot has no arbiter ID")

type codec struct {
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	jsonCodec = codec{
		ext:       ".json",
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
	yamlCodec = codec{ext: ".yaml", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
)

// filePersister stores one file per arbiter ID under dir.
type filePersister struct {
	dir   string
	codec codec
}

func newFilePersister(dir string, c codec) (filePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filePersister{}, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return filePersister{dir: dir, codec: c}, nil
}

func (p filePersister) path(id string) string {
	return filepath.Join(p.dir, id+p.codec.ext)
}

// Save writes the snapshot atomically: a partially written file is never
// visible under the final name.
func (p filePersister) Save(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.ArbiterID == "" {
		return ErrNoArbiterID
	}
	data, err := p.codec.marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	fn := p.path(snap.ArbiterID)
	tmp, err := os.CreateTemp(p.dir, snap.ArbiterID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", fn, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fn); err != nil {
		return fmt.Errorf("rename to %s: %w", fn, err)
	}
	return nil
}

// Load reads the snapshot saved for arbiterID. A missing file is reported
// with os.ErrNotExist.
func (p filePersister) Load(ctx context.Context, arbiterID string) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	fn := p.path(arbiterID)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Snapshot{}, fmt.Errorf("arbiter %q: %w", arbiterID, os.ErrNotExist)
		}
		return core.Snapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snap core.Snapshot
	if err := p.codec.unmarshal(data, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode %s: %w", fn, err)
	}
	snap.ArbiterID = arbiterID
	return snap, nil
}

// List returns the saved arbiter IDs in lexical order.
func (p filePersister) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", p.dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), p.codec.ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), p.codec.ext))
	}
	sort.Strings(ids)
	return ids, nil
}

// JSONPersister stores snapshots as indented JSON files.
type JSONPersister struct{ filePersister }

// NewJSONPersister creates a JSONPersister, ensuring dir exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	fp, err := newFilePersister(dir, jsonCodec)
	if err != nil {
		return nil, err
	}
	return &JSONPersister{fp}, nil
}

// YAMLPersister stores snapshots as YAML files.
type YAMLPersister struct{ filePersister }

// NewYAMLPersister creates a YAMLPersister, ensuring dir exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	fp, err := newFilePersister(dir, yamlCodec)
	if err != nil {
		return nil, err
	}
	return &YAMLPersister{fp}, nil
}

// NewPersister picks a persister by format name, "json" or "yaml".
func NewPersister(format, dir string) (core.Persister, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONPersister(dir)
	case "yaml", "yml":
		return NewYAMLPersister(dir)
	default:
		return nil, fmt.Errorf("production: unknown snapshot format %q", format)
	}
}

var (
	_ core.Persister = (*JSONPersister)(nil)
	_ core.Persister = (*YAMLPersister)(nil)
)
