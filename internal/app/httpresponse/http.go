package httpresponse

import (
	"fmt"
	"net/http"

	"github.com/form3tech-oss/pact-consumer/internal/app/engine"
	"github.com/form3tech-oss/pact-consumer/pkg/consumer"
	"github.com/form3tech-oss/pact-consumer/pkg/engineclient"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func Error(error string) *engineclient.APIError {
	log.Error(error)
	return &engineclient.APIError{
		ErrorMessage: error,
	}
}

func Errorf(error string, a ...interface{}) *engineclient.APIError {
	return Error(fmt.Sprintf(error, a...))
}

// FromEngine maps an engine error to the status code and body returned to clients.
func FromEngine(err error) (int, *engineclient.APIError) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrUnknownHandle):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrWrongKind):
		status = http.StatusConflict
	case errors.Is(err, consumer.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	return status, Error(err.Error())
}
