package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"

	"github.com/bestravelplan/trip-planning-service/internal/pkg/exception"
)

type DecodeRequestFunc func(ctx context.Context, req *http.Request) (interface{}, error)

type EncodeResponseFunc func(ctx context.Context, respWriter http.ResponseWriter, response interface{}) error

// MakeHandlerFunc adapts an endpoint into a net/http handler: decode, invoke,
// encode, with every failure funneled through ErrorResponse.
func MakeHandlerFunc(endpt endpoint.Endpoint,
	dec DecodeRequestFunc,
	enc EncodeResponseFunc,
) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		request, err := dec(ctx, req)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		response, err := endpt(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := enc(ctx, respWriter, response); err != nil {
			ErrorResponse(ctx, err, respWriter)
		}
	}
}

// DecodeRequest decodes a JSON body into T and runs its Bind validation. Any
// decode or validation failure renders as a 400 unless it already carries its
// own status.
func DecodeRequest[T any](_ context.Context, req *http.Request) (interface{}, error) {
	request := new(T)

	binder, ok := any(request).(render.Binder)
	if !ok {
		return nil, errors.New("request type does not implement render.Binder")
	}

	if err := render.Bind(req, binder); err != nil {
		var appErr exception.ApplicationError
		if errors.As(err, &appErr) {
			return nil, err
		}

		return nil, exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return request, nil
}

// NopRequest is the decoder for endpoints that take no input.
func NopRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}
