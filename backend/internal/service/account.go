package service

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
)

type Account struct {
	storage     AccountStorage
	invitations InvitationResolver
}

type AccountStorage interface {
	CreateUserFromInvitation(ctx context.Context, user domain.User, code domain.InvitationCode) (domain.UserId, error)
	CreateFirstUser(ctx context.Context, user domain.User) (domain.UserId, error)
	User(ctx context.Context, name domain.UserName) (domain.User, error)
	UserNames(ctx context.Context) ([]domain.UserName, error)
	CountUsers(ctx context.Context) (int, error)
	DeleteUser(ctx context.Context, name domain.UserName) (bool, error)
}

// InvitationResolver is the read-or-reclaim side of the invitation service.
type InvitationResolver interface {
	ResolveEmail(ctx context.Context, code domain.InvitationCode) (domain.Email, error)
	ResolveRole(ctx context.Context, code domain.InvitationCode) (string, error)
}

func NewAccount(storage AccountStorage, invitations InvitationResolver) *Account {
	return &Account{storage: storage, invitations: invitations}
}

// Redeem creates an account from a valid invitation code and consumes the
// code in the same transaction. False when the code is unknown, expired or
// consumed by a concurrent redeem.
func (a *Account) Redeem(ctx context.Context, code domain.InvitationCode, acc domain.NewAccount) (bool, error) {
	acc = trimAccount(acc)
	if err := utils.Validate(acc); err != nil {
		return false, err
	}

	email, err := a.invitations.ResolveEmail(ctx, code)
	if err != nil || email == "" {
		return false, err
	}
	rolesCSV, err := a.invitations.ResolveRole(ctx, code)
	if err != nil || rolesCSV == "" {
		return false, err
	}
	roles, err := domain.ParseRoles(rolesCSV)
	if err != nil {
		return false, internal_errors.NewValidationError("Invitation carries %s", err.Error())
	}

	user, err := newUser(acc, email, roles)
	if err != nil {
		return false, err
	}
	id, err := a.storage.CreateUserFromInvitation(ctx, user, code)
	if err != nil {
		return false, err
	}
	if id == domain.InvalidId {
		return false, nil
	}
	logger.Log.Info("account created from invitation", "user", user.UserName, "roles", roles.String())
	return true, nil
}

// BootstrapAdmin creates the first account, with the admin role. It does
// nothing once any user exists.
func (a *Account) BootstrapAdmin(ctx context.Context, acc domain.NewAccount, email domain.Email) (bool, error) {
	acc = trimAccount(acc)
	if err := utils.Validate(acc); err != nil {
		return false, err
	}
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return false, err
	}
	user, err := newUser(acc, email, domain.Roles{Admin: true})
	if err != nil {
		return false, err
	}
	id, err := a.storage.CreateFirstUser(ctx, user)
	if err != nil {
		return false, err
	}
	return id != domain.InvalidId, nil
}

func (a *Account) Get(ctx context.Context, name domain.UserName) (domain.User, error) {
	return a.storage.User(ctx, name)
}

func (a *Account) Names(ctx context.Context) ([]domain.UserName, error) {
	return a.storage.UserNames(ctx)
}

func (a *Account) Count(ctx context.Context) (int, error) {
	return a.storage.CountUsers(ctx)
}

func (a *Account) Delete(ctx context.Context, name domain.UserName) (bool, error) {
	return a.storage.DeleteUser(ctx, name)
}

func trimAccount(acc domain.NewAccount) domain.NewAccount {
	acc.UserName = strings.TrimSpace(acc.UserName)
	acc.FirstName = strings.TrimSpace(acc.FirstName)
	acc.MiddleName = strings.TrimSpace(acc.MiddleName)
	acc.LastName = strings.TrimSpace(acc.LastName)
	acc.PreferredFirstName = strings.TrimSpace(acc.PreferredFirstName)
	return acc
}

func newUser(acc domain.NewAccount, email domain.Email, roles domain.Roles) (domain.User, error) {
	hash, err := utils.HashPassword(acc.Password)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		UserName:           acc.UserName,
		PassHash:           hash,
		FirstName:          acc.FirstName,
		MiddleName:         acc.MiddleName,
		LastName:           acc.LastName,
		PreferredFirstName: acc.PreferredFirstName,
		Email:              email,
		Roles:              roles,
	}, nil
}
