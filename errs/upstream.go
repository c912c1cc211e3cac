package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Blog data source errors. None of these reach HTTP clients directly: the blog
// service logs them and falls back to cached or placeholder posts.
var (
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrUpstreamStatus     = errors.New("unexpected upstream status")
	ErrJSONUnmarshal      = errors.New("JSON unmarshal error")
	ErrPayloadShape       = errors.New("unexpected payload shape")
	ErrConfigMissing      = errors.New("configuration missing")
)

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

func NewUpstreamStatusError(service string, status int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamStatus,
		Details:    fmt.Sprintf("Service %s responded with status %d", service, status),
	}
}

func NewJSONUnmarshalError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrJSONUnmarshal,
		Details:    fmt.Sprintf("JSON unmarshal error in %s", operation),
		Cause:      cause,
		Field:      "json",
	}
}

func NewPayloadShapeError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrPayloadShape,
		Details:    fmt.Sprintf("Unexpected payload shape in %s", operation),
		Cause:      cause,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsUpstreamStatusError(err error) bool {
	return errors.Is(err, ErrUpstreamStatus)
}

func IsJSONUnmarshalError(err error) bool {
	return errors.Is(err, ErrJSONUnmarshal)
}

func IsPayloadShapeError(err error) bool {
	return errors.Is(err, ErrPayloadShape)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
