package errors

type ErrCoder interface {
	GetErrCode() ErrCode
}

type ErrCode int32

const (
	ErrNoCode        ErrCode = -2
	ErrUnknown       ErrCode = -1
	ErrNoError       ErrCode = 0
	ErrHashFailure   ErrCode = 45001
	ErrFetch         ErrCode = 45002
	ErrFormat        ErrCode = 45003
	ErrInvalidParams ErrCode = 45004
)

var ErrCode2Str = map[ErrCode]string{
	ErrNoCode:        "No error code",
	ErrUnknown:       "Unknown error",
	ErrNoError:       "Not an error",
	ErrHashFailure:   "Block hash could not be computed",
	ErrFetch:         "Peer chain could not be fetched",
	ErrFormat:        "Peer chain could not be parsed",
	ErrInvalidParams: "Invalid parameters",
}

func (err ErrCode) Error() string {
	if s, ok := ErrCode2Str[err]; ok {
		return s
	}

	return "Unknown error"
}

// GetErrCode returns the code carried by err or by any error it wraps.
func GetErrCode(err error) ErrCode {
	for err != nil {
		if coder, ok := err.(ErrCoder); ok {
			return coder.GetErrCode()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if err == nil {
		return ErrNoError
	}
	return ErrUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code ErrCode) bool {
	return err != nil && GetErrCode(err) == code
}
