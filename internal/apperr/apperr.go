package apperr

import (
	"fmt"
	"net/http"
)

// Error is a domain error with a stable machine-readable code and the HTTP
// status it translates to. Services raise these at the point of detection and
// they propagate unmodified up to the response writer.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by code, so errors.Is works across Wrap copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap returns a copy of base carrying the underlying cause.
func Wrap(base *Error, cause error) *Error {
	return &Error{Code: base.Code, Status: base.Status, Message: base.Message, Err: cause}
}

// WithMessage returns a copy of base with a more specific message. The code
// and status stay the same so clients keep matching on the code.
func WithMessage(base *Error, message string) *Error {
	return &Error{Code: base.Code, Status: base.Status, Message: message}
}

var (
	UserNotFound    = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	PostNotFound    = New("POST_NOT_FOUND", http.StatusNotFound, "post not found")
	CommentNotFound = New("COMMENT_NOT_FOUND", http.StatusNotFound, "comment not found")

	NotPostOwner    = New("NOT_POST_OWNER", http.StatusForbidden, "post does not belong to the requesting user")
	NotCommentOwner = New("NOT_COMMENT_OWNER", http.StatusForbidden, "comment does not belong to the requesting user")

	EmailAlreadyExists    = New("EMAIL_ALREADY_EXISTS", http.StatusConflict, "email is already registered")
	NicknameAlreadyExists = New("NICKNAME_ALREADY_EXISTS", http.StatusConflict, "nickname is already taken")

	InvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "email or password is incorrect")

	TokenNotFound       = New("TOKEN_NOT_FOUND", http.StatusUnauthorized, "authorization token is missing")
	InvalidToken        = New("INVALID_TOKEN", http.StatusUnauthorized, "token is invalid")
	AccessTokenExpired  = New("ACCESS_TOKEN_EXPIRED", http.StatusUnauthorized, "access token has expired")
	RefreshTokenExpired = New("REFRESH_TOKEN_EXPIRED", http.StatusUnauthorized, "refresh token has expired")

	ImageRequired     = New("IMAGE_REQUIRED", http.StatusBadRequest, "a post needs at least one image")
	ImageUploadFailed = New("IMAGE_UPLOAD_FAILED", http.StatusInternalServerError, "image upload failed")
	ImageDeleteFailed = New("IMAGE_DELETE_FAILED", http.StatusInternalServerError, "image deletion failed")

	InvalidInput     = New("INVALID_INPUT", http.StatusBadRequest, "invalid request")
	MethodNotAllowed = New("METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "method not allowed")
	Internal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)
