package auth

import "errors"

var (
	// ErrAuthenticationRequired is returned when an anonymous principal requests a protected action.
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")

	// ErrPermissionDenied is returned when an authenticated principal lacks the permission for an action.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	// ErrNoProfile is returned when a user has no Profile and therefore no role.
	ErrNoProfile = errors.New("user has no profile")

	// ErrInvalidToken is returned when an API token is unknown or belongs to a disabled user.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned when a group name does not exist.
	ErrGroupNotFound = errors.New("group not found")
)
