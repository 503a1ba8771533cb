package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type snapshot struct {
	Currencies map[string]string `json:"currencies"`
}

// SnapshotStore keeps the known currency list in a JSON file.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load returns the stored currencies. A missing file yields an empty set.
func (s *SnapshotStore) Load() (map[string]string, error) {
	buf, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", s.path).Msg("no currency snapshot yet")
		return map[string]string{}, nil
	}
	if err != nil {
		err = fmt.Errorf("error reading snapshot %w", err)
		log.Error().Err(err).Str("path", s.path).Send()
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		err = fmt.Errorf("error decoding snapshot %w", err)
		log.Error().Err(err).Str("path", s.path).Send()
		return nil, err
	}

	if snap.Currencies == nil {
		snap.Currencies = map[string]string{}
	}

	log.Debug().Str("path", s.path).Int("count", len(snap.Currencies)).Msg("loaded currency snapshot")

	return snap.Currencies, nil
}

// Save writes to a uniquely named temp file next to the target and renames it over the snapshot.
func (s *SnapshotStore) Save(currencies map[string]string) error {
	buf, err := json.MarshalIndent(snapshot{Currencies: currencies}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding snapshot %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(s.path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), id.String()))

	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		removeTempFile(tmp)
		err = fmt.Errorf("error replacing snapshot %w", err)
		log.Error().Err(err).Send()
		return err
	}

	log.Debug().Str("path", s.path).Int("count", len(currencies)).Msg("saved currency snapshot")

	return nil
}

func removeTempFile(path string) {
	err := os.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}
