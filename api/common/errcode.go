package common

import (
	"net/http"

	"github.com/nknorg/powledger/errors"
)

var httpStatus = map[errors.ErrCode]int{
	errors.ErrNoError:       http.StatusOK,
	errors.ErrInvalidParams: http.StatusBadRequest,
	errors.ErrFormat:        http.StatusBadRequest,
	errors.ErrFetch:         http.StatusBadGateway,
	errors.ErrHashFailure:   http.StatusInternalServerError,
}

// HTTPStatus returns the status an api handler answers err with.
func HTTPStatus(err error) int {
	if status, ok := httpStatus[errors.GetErrCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
