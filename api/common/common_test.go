package common

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/nknorg/powledger/errors"
	"github.com/stretchr/testify/require"
)

func TestResponsePack(t *testing.T) {
	resp := ResponsePack("blockMined", 2, errors.ErrNoError)
	require.Equal(t, "blockMined", resp["Action"])
	require.Equal(t, 2, resp["Result"])
	require.Equal(t, "", resp["Desc"])

	resp = ResponsePack("resolve", nil, errors.ErrFetch)
	require.Equal(t, errors.ErrFetch.Error(), resp["Desc"])
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(errors.NewDetailErrf(errors.ErrInvalidParams, "bad")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.NewDetailErrf(errors.ErrHashFailure, "nil block")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
	require.Equal(t, http.StatusOK, HTTPStatus(nil))
}

func TestErrorPack(t *testing.T) {
	resp := ErrorPack(errors.NewDetailErrf(errors.ErrInvalidParams, "Missing values"))
	require.Equal(t, "Missing values", resp["message"])
	require.Equal(t, errors.ErrInvalidParams, resp["error"])
}
