package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questparty/backend/pkg/errorx"
	"github.com/questparty/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	befores := router.befores
	afters := router.afters
	closers := router.closers

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := xcontext.WithHTTPRequest(r.Context(), r)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithErrorHolder(ctx)

		defer func() {
			handleResponse(ctx)
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		var err error
		for _, m := range befores {
			if ctx, err = m(ctx); err != nil {
				xcontext.SetError(ctx, err)
				return
			}
		}

		var req Request
		if err := bindRequest(r, method, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.SetError(ctx, err)
			return
		}
		xcontext.SetResponse(ctx, resp)

		for _, m := range afters {
			if ctx, err = m(ctx); err != nil {
				xcontext.SetError(ctx, err)
				return
			}
		}
	}
}

func wrapRawHandler(router *Router, handler RawHandlerFunc) http.HandlerFunc {
	befores := router.befores
	closers := router.closers

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.Context(), r)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithErrorHolder(ctx)

		defer func() {
			handleResponse(ctx)
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		var err error
		for _, m := range befores {
			if ctx, err = m(ctx); err != nil {
				xcontext.SetError(ctx, err)
				return
			}
		}

		if err := handler(ctx); err != nil {
			xcontext.SetError(ctx, err)
		}
	}
}

func bindRequest(r *http.Request, method string, out any) error {
	if method == http.MethodGet {
		return bindQuery(r, out)
	}

	if err := json.NewDecoder(r.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func bindQuery(r *http.Request, out any) error {
	values := map[string]string{}
	for key, value := range r.URL.Query() {
		if len(value) > 0 {
			values[key] = value[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}
