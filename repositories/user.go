//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	SaveUser(user domain.User) error
	FindUserByID(id string) (domain.User, error)
	FindUserByEmail(email string) (domain.User, error)
	FindUsersByRole(role domain.Role) ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// Key layout:
//
//	user:{id}               -> user record
//	user_email:{email}      -> id (email lower-cased, unique)
//	user_role:{role}:{id}   -> empty
func userKey(id string) []byte { return []byte("user:" + id) }

func emailKey(email string) []byte {
	return []byte("user_email:" + strings.ToLower(strings.TrimSpace(email)))
}

func roleKey(role domain.Role, id string) []byte {
	return []byte(fmt.Sprintf("user_role:%s:%s", role, id))
}

// SaveUser inserts or updates a user together with its email and role
// indexes in a single transaction. An email already owned by another user
// fails with ErrUserAlreadyExists.
func (u *UserRepository) SaveUser(user domain.User) error {
	err := u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(user.Email))
		switch {
		case err == nil:
			owner, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if string(owner) != user.ID {
				return errors.ErrUserAlreadyExists
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		previous, err := getUser(txn, user.ID)
		switch {
		case err == nil:
			if previous.Role != user.Role {
				if err := txn.Delete(roleKey(previous.Role, user.ID)); err != nil {
					return err
				}
			}
			if !strings.EqualFold(previous.Email, user.Email) {
				if err := txn.Delete(emailKey(previous.Email)); err != nil {
					return err
				}
			}
		case !errors.Is(err, errors.ErrUserNotFound):
			return err
		}

		if err := txn.Set(userKey(user.ID), encodeUser(user)); err != nil {
			return err
		}
		if err := txn.Set(emailKey(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(roleKey(user.Role, user.ID), nil)
	})
	if err != nil && !errors.Is(err, errors.ErrUserAlreadyExists) {
		return fmt.Errorf("%w: save user %s: %v", errors.ErrPersistence, user.ID, err)
	}
	return err
}

func (u *UserRepository) FindUserByID(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	return user, wrapLookup(err)
}

func (u *UserRepository) FindUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = getUser(txn, string(id))
		return err
	})
	return user, wrapLookup(err)
}

// FindUsersByRole scans the role index, ordered by user id.
func (u *UserRepository) FindUsersByRole(role domain.Role) ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("user_role:%s:", role))
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			user, err := getUser(txn, id)
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: find users by role %s: %v", errors.ErrPersistence, role, err)
	}
	return users, nil
}

func getUser(txn *badger.Txn, id string) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	err = item.Value(func(val []byte) error {
		user, err = decodeUser(val)
		return err
	})
	return user, err
}

// wrapLookup keeps not-found errors as they are and flags everything else
// as a storage failure.
func wrapLookup(err error) error {
	if err == nil || errors.Is(err, errors.ErrUserNotFound) || errors.Is(err, errors.ErrMessageNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
}
