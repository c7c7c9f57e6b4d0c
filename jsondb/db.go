package jsondb

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// maxUpgradePasses caps successive record upgrades to break version cycles,
// e.g. an upgrader that bounces between v1 and v2 forever
const maxUpgradePasses = 100

// Upgrader parses stored records and migrates them up to the bucket's version
type Upgrader interface {
	// Parse decodes a raw record stored at 'dataVersion'
	Parse(dataVersion, id string, data json.RawMessage) (interface{}, error)
	// Upgrade migrates 'data' one step closer to the target version.
	// Called repeatedly until the returned version matches the bucket's version.
	Upgrade(dataVersion, id string, data interface{}) (newVersion string, newData interface{}, err error)
}

// DB opens buckets of versioned JSON records
type DB interface {
	io.Closer
	// Bucket returns the bucket stored at 'name.json', upgraded to 'version'
	Bucket(name, version string, upgrader Upgrader) (Bucket, error)
}

type database struct {
	path    string
	buckets map[string]*bucket
	saver   func(*bucket) error
}

// Open creates or opens a database directory at 'path'
func Open(path string, opts ...DBOpt) (DB, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, err
	}
	db := &database{
		path:    path,
		buckets: make(map[string]*bucket),
		saver:   saveBucket,
	}
	for _, opt := range opts {
		if err := opt.do(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *database) Bucket(name, version string, upgrader Upgrader) (Bucket, error) {
	return db.bucket(name, version, upgrader, ioutil.ReadFile, db.saver)
}

func (db *database) bucket(
	name, version string,
	upgrader Upgrader,
	readFile func(string) ([]byte, error),
	saver func(*bucket) error,
) (Bucket, error) {
	if upgrader == nil {
		return nil, errors.New("Upgrader must not be nil")
	}
	if b, exists := db.buckets[name]; exists {
		return b, nil
	}

	path := filepath.Join(db.path, name+".json")
	rawBytes, err := readFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	if len(rawBytes) == 0 {
		rawBytes = []byte(`{}`)
	}

	var stored storedBucket
	if err := json.Unmarshal(rawBytes, &stored); err != nil {
		return nil, errors.Wrapf(err, "Malformed bucket file: %s", path)
	}

	data := make(map[string]interface{}, len(stored.Data))
	for id, raw := range stored.Data {
		data[id], err = upgrader.Parse(stored.Version, id, raw)
		if err != nil {
			return nil, err
		}
	}

	if stored.Version != version {
		if err := upgradeRecords(name, stored.Version, version, upgrader, data); err != nil {
			return nil, err
		}
	}

	b := &bucket{
		name:    name,
		path:    path,
		saveFn:  saver,
		version: version,
		data:    data,
	}
	db.buckets[name] = b
	return b, nil
}

func upgradeRecords(name, fromVersion, toVersion string, upgrader Upgrader, data map[string]interface{}) error {
	for id := range data {
		currentVersion := fromVersion
		passes := 0
		for currentVersion != toVersion {
			if passes > maxUpgradePasses {
				return errors.Errorf("Too many upgrade passes for bucket %q: stuck at version %q upgrading to %q", name, currentVersion, toVersion)
			}
			passes++
			newVersion, newData, err := upgrader.Upgrade(currentVersion, id, data[id])
			if err != nil {
				return err
			}
			if newVersion == currentVersion {
				return errors.Errorf("Upgrade for bucket %q did not progress past version %q: %+v", name, currentVersion, data[id])
			}
			currentVersion = newVersion
			data[id] = newData
		}
	}
	return nil
}

// Close locks all buckets so no further writes can begin. Use after Close is undefined
func (db *database) Close() error {
	if db == nil {
		return nil
	}
	for _, b := range db.buckets {
		b.mu.Lock()
	}
	return nil
}
