package handlers

import (
	"net/http"

	"socialcal/services"
)

var errorMessages = map[services.Kind]string{
	services.Unauthenticated:    "Authentication required.",
	services.InvalidToken:       "Authentication required.",
	services.UserNotFound:       "User not found.",
	services.TargetNotFound:     "Target user not found.",
	services.NotFound:           "Not found.",
	services.InvalidCredentials: "Invalid email or password.",
	services.ValidationError:    "Invalid arguments.",
	services.SelfRequest:        "This action cannot target yourself.",
	services.NotFriends:         "You are not friends with this user.",
	services.DuplicateEmail:     "This email is already registered.",
	services.DuplicateNickname:  "This nickname is already taken.",
	services.AmbiguousNickname:  "More than one user has this nickname.",
	services.StoreFailure:       "Internal server error.",
}

// errorResponse maps a failure kind to a status and a fixed message. Every
// failure at the authentication gate reads as UNAUTHENTICATED so a caller
// cannot tell a bad token from a deleted account. This includes
// USER_NOT_FOUND raised by the gate for a token whose account is gone; the
// same kind raised by an operation keeps its own code and 404.
func errorResponse(kind services.Kind, gate bool) (int, ErrorBody) {
	if gate && kind != services.StoreFailure {
		return http.StatusUnauthorized, ErrorBody{
			Code:    string(services.Unauthenticated),
			Message: errorMessages[services.Unauthenticated],
		}
	}

	body := ErrorBody{Code: string(kind), Message: errorMessages[kind]}
	if body.Message == "" {
		body.Message = errorMessages[services.StoreFailure]
	}

	switch kind {
	case services.Unauthenticated, services.InvalidToken, services.InvalidCredentials:
		return http.StatusUnauthorized, body
	case services.UserNotFound, services.TargetNotFound, services.NotFound:
		return http.StatusNotFound, body
	case services.ValidationError, services.SelfRequest:
		return http.StatusBadRequest, body
	case services.NotFriends:
		return http.StatusForbidden, body
	case services.DuplicateEmail, services.DuplicateNickname, services.AmbiguousNickname:
		return http.StatusConflict, body
	}
	return http.StatusInternalServerError, body
}
