package common

import (
	"github.com/nknorg/powledger/errors"
)

// ResponsePack builds the envelope pushed to websocket clients.
func ResponsePack(action string, result interface{}, code errors.ErrCode) map[string]interface{} {
	resp := map[string]interface{}{
		"Action":  action,
		"Result":  result,
		"Error":   code,
		"Desc":    "",
		"Version": 1,
	}
	if code != errors.ErrNoError {
		resp["Desc"] = code.Error()
	}
	return resp
}

// ErrorPack builds the json body of a failed http request.
func ErrorPack(err error) map[string]interface{} {
	return map[string]interface{}{
		"message": err.Error(),
		"error":   errors.GetErrCode(err),
	}
}
