package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/log"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	pageKeyPrefix   = "page:" // Prefix for page URL keys
	visionKeyPrefix = "img:"  // Prefix for vision results, keyed by image URL hash
)

// BadgerStore implements RunStore on an in-memory BadgerDB instance.
// Nothing touches disk, so two runs never share state.
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64 // page keys only
}

// NewBadgerStore opens a fresh in-memory database
func NewBadgerStore(logger *logrus.Entry) (*BadgerStore, error) {
	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening in-memory badger database: %w", utils.ErrDatabase, err)
	}
	logger.Debug("In-memory visited store opened")
	return &BadgerStore{db: db, log: logger}, nil
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

func (s *BadgerStore) MarkPageVisited(normalizedPageURL string) (bool, error) {
	added := false
	key := []byte(pageKeyPrefix + normalizedPageURL)

	err := s.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			// Empty value = pending
			if errSet := txn.SetEntry(badger.NewEntry(key, []byte{})); errSet != nil {
				return errSet
			}
			added = true
			return nil
		}
		return errGet
	})
	if err != nil {
		return false, fmt.Errorf("%w: marking page key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if added {
		s.keyCount.Add(1)
	}
	return added, nil
}

func (s *BadgerStore) CheckPageStatus(normalizedPageURL string) (models.PageStatus, *models.PageDBEntry, error) {
	status := models.PageStatusNotFound
	var entry *models.PageDBEntry
	key := []byte(pageKeyPrefix + normalizedPageURL)

	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: getting page key '%s': %w", utils.ErrDatabase, string(key), errGet)
		}
		return item.Value(func(val []byte) error {
			if len(val) == 0 {
				status = models.PageStatusPending
				return nil
			}
			var decoded models.PageDBEntry
			if errJSON := json.Unmarshal(val, &decoded); errJSON != nil {
				s.log.Warnf("Failed to unmarshal PageDBEntry for key '%s': %v. Treating as 'pending'.", string(key), errJSON)
				status = models.PageStatusPending
				return nil
			}
			entry = &decoded
			status = decoded.Status
			return nil
		})
	})
	if errView != nil {
		return models.PageStatusDBError, nil, errView
	}
	return status, entry, nil
}

func (s *BadgerStore) UpdatePageStatus(normalizedPageURL string, entry *models.PageDBEntry) error {
	key := []byte(pageKeyPrefix + normalizedPageURL)
	entryBytes, errJSON := json.Marshal(entry)
	if errJSON != nil {
		return fmt.Errorf("%w: marshal PageDBEntry JSON for key '%s': %w", utils.ErrParsing, string(key), errJSON)
	}

	isNew := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		if _, errGet := txn.Get(key); errors.Is(errGet, badger.ErrKeyNotFound) {
			isNew = true
		}
		return txn.SetEntry(badger.NewEntry(key, entryBytes))
	})
	if err != nil {
		return fmt.Errorf("%w: setting page status for key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if isNew {
		s.keyCount.Add(1)
	}
	s.log.Debugf("Page status for '%s' set to '%s'", normalizedPageURL, entry.Status)
	return nil
}

func visionKey(imageURL string) []byte {
	return []byte(visionKeyPrefix + utils.CalculateStringSHA256(imageURL))
}

func (s *BadgerStore) GetVisionResult(imageURL string) (*models.VisionResult, bool, error) {
	var result *models.VisionResult
	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(visionKey(imageURL))
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return errGet
		}
		return item.Value(func(val []byte) error {
			var decoded models.VisionResult
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("%w: vision result JSON: %w", utils.ErrParsing, err)
			}
			result = &decoded
			return nil
		})
	})
	if errView != nil {
		return nil, false, fmt.Errorf("%w: reading vision result for '%s': %w", utils.ErrDatabase, imageURL, errView)
	}
	return result, result != nil, nil
}

func (s *BadgerStore) PutVisionResult(imageURL string, result *models.VisionResult) error {
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: marshal vision result JSON: %w", utils.ErrParsing, err)
	}
	if err := s.dbUpdate(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(visionKey(imageURL), val))
	}); err != nil {
		return fmt.Errorf("%w: storing vision result for '%s': %w", utils.ErrDatabase, imageURL, err)
	}
	return nil
}

func (s *BadgerStore) GetVisitedCount() (int, error) {
	return int(s.keyCount.Load()), nil
}

func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: closing badger database: %w", utils.ErrDatabase, err)
	}
	return nil
}
