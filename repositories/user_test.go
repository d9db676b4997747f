package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUser(name string, role domain.Role) domain.User {
	return domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestUserRepository_Save_And_Find(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	alice := newUser("alice", domain.RoleUser)

	// Given a stored user
	req.NoError(repo.SaveUser(alice))

	// Then it can be found by id and by email, in any case
	byID, err := repo.FindUserByID(alice.ID)
	req.NoError(err)
	req.Equal(alice, byID)

	byEmail, err := repo.FindUserByEmail("ALICE@example.com")
	req.NoError(err)
	req.Equal(alice.ID, byEmail.ID)
}

func TestUserRepository_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.FindUserByID(uuid.NewString())
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repo.FindUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	alice := newUser("alice", domain.RoleUser)
	req.NoError(repo.SaveUser(alice))

	// When another user claims the same email
	impostor := newUser("alice", domain.RoleUser)
	err := repo.SaveUser(impostor)

	// Then the second registration is refused
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
	_, err = repo.FindUserByID(impostor.ID)
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_Update_Keeps_Role_Index_Consistent(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	bob := newUser("bob", domain.RoleUser)
	req.NoError(repo.SaveUser(bob))

	// When bob is promoted
	bob.Role = domain.RoleAdmin
	req.NoError(repo.SaveUser(bob))

	// Then he only appears under his new role
	users, err := repo.FindUsersByRole(domain.RoleUser)
	req.NoError(err)
	req.Empty(users)

	admins, err := repo.FindUsersByRole(domain.RoleAdmin)
	req.NoError(err)
	req.Len(admins, 1)
	req.Equal(bob.ID, admins[0].ID)
}

func TestUserRepository_FindUsersByRole(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	for _, u := range []domain.User{
		newUser("alice", domain.RoleUser),
		newUser("bob", domain.RoleUser),
		newUser("root", domain.RoleAdmin),
	} {
		req.NoError(repo.SaveUser(u))
	}

	users, err := repo.FindUsersByRole(domain.RoleUser)
	req.NoError(err)
	req.Len(users, 2)
	for _, u := range users {
		req.Equal(domain.RoleUser, u.Role)
	}
}
