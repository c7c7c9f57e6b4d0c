package jsondb

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// MockDB is a DB with additional mocking utilities
type MockDB interface {
	DB
	// Dump serializes a bucket created by this MockDB, for asserting on stored contents
	Dump(Bucket) string
}

// MockConfig contains stubs for a full MockDB
type MockConfig struct {
	FileReader func(path string) ([]byte, error)
	Saver      func(Bucket) error
}

type mockDatabase struct {
	database
	MockConfig
}

// NewMockDB creates a DB without a backing file store, to be used in tests
func NewMockDB(conf MockConfig) MockDB {
	if conf.FileReader == nil {
		conf.FileReader = func(string) ([]byte, error) { return nil, nil }
	}
	if conf.Saver == nil {
		conf.Saver = func(Bucket) error { return nil }
	}
	return &mockDatabase{
		database: database{
			path:    "mock",
			buckets: map[string]*bucket{},
		},
		MockConfig: conf,
	}
}

func (db *mockDatabase) Bucket(name, version string, upgrader Upgrader) (Bucket, error) {
	return db.bucket(name, version, upgrader, db.FileReader, func(b *bucket) error { return db.Saver(b) })
}

func (db *mockDatabase) Dump(b Bucket) string {
	bucketStruct, ok := b.(*bucket)
	if !ok {
		panic(fmt.Sprintf("Invalid bucket struct for MockDB.Dump: %T", b))
	}
	if filepath.Dir(bucketStruct.path) != db.path {
		panic("Invalid bucket for MockDB.Dump: Bucket was not created by this MockDB")
	}
	buf, err := json.MarshalIndent(marshalBucket{
		Version: bucketStruct.version,
		Data:    bucketStruct.data,
	}, "", "    ")
	if err != nil {
		panic(err)
	}
	return string(buf)
}
