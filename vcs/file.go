package vcs

import (
	"io/ioutil"
)

// File is a version-controlled file. Writes commit to the backing repository
type File interface {
	Read() ([]byte, error)
	Write(b []byte) error
}

type file struct {
	path string
	repo Repository
}

func (repo *syncRepo) File(path string) File {
	return &file{
		path: path,
		repo: repo,
	}
}

func (f *file) Read() ([]byte, error) {
	return ioutil.ReadFile(f.path)
}

func (f *file) Write(b []byte) error {
	return f.repo.CommitFiles(diskWriter(f.path, b), "Update "+f.path, f.path)
}

func diskWriter(path string, b []byte) func() error {
	return func() error {
		return ioutil.WriteFile(path, b, 0600)
	}
}
