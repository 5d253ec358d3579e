package service

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeNotAuthorized   ErrorCode = "NOT_AUTHORIZED"
	ErrorCodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	ErrorCodeAlreadyResolved ErrorCode = "ALREADY_RESOLVED"
	ErrorCodeAlreadyFriends  ErrorCode = "ALREADY_FRIENDS"
	ErrorCodeAlreadyMember   ErrorCode = "ALREADY_MEMBER"
	ErrorCodeAlreadyOnTeam   ErrorCode = "ALREADY_ON_TEAM"
	ErrorCodeSelfTarget      ErrorCode = "SELF_TARGET"
	ErrorCodeInvalidScore    ErrorCode = "INVALID_SCORE"
	ErrorCodeUnspecified     ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
