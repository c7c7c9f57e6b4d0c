package jsondb

import (
	"github.com/pvminh/tally/vcs"
)

// DBOpt configures the DB built by Open
type DBOpt interface {
	do(*database) error
}

type dbOpt func(*database) error

func (opt dbOpt) do(db *database) error {
	return opt(db)
}

// VersionControl keeps the database directory in a git repo, committing every bucket save.
// The opened repository is assigned to 'setRepo' so callers can version their own files too.
func VersionControl(setRepo *vcs.Repository) DBOpt {
	return dbOpt(func(db *database) error {
		repo, err := vcs.Open(db.path)
		if err != nil {
			return err
		}
		*setRepo = repo
		db.saver = func(b *bucket) error {
			return repo.CommitFiles(func() error {
				return saveBucket(b)
			}, "Update "+b.name, b.path)
		}
		return nil
	})
}
