package service

type ErrorCode string

const (
	// ErrorCodeForbidden: the acting user is not the team leader.
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrorCodeValidation: a membership precondition does not hold.
	ErrorCodeValidation       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRequestNotFound  ErrorCode = "REQUEST_NOT_FOUND"
	ErrorCodeTeamNotFound     ErrorCode = "TEAM_NOT_FOUND"
	ErrorCodeConcurrentUpdate ErrorCode = "CONCURRENT_UPDATE"
	ErrorCodeUnspecified      ErrorCode = "UNSPECIFIED"
	ErrorCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrorCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrorCodeRateLimited      ErrorCode = "RATE_LIMITED"
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
