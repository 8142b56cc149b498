package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/florist/internal/common"
	"github.com/Alturino/florist/internal/common/constants"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	commonHttp "github.com/Alturino/florist/internal/common/http"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

// Error is returned for every non 2xx answer of the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf(
		"%s %s returned statusCode=%d message=%s",
		e.Method,
		e.Path,
		e.StatusCode,
		e.Message,
	)
}

func (e *Error) Unwrap() error {
	return commonErrors.ErrUnexpectedStatus
}

// Client talks to the storefront HTTP JSON API. It never retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	identity   common.Identity
}

func NewClient(cfg config.Api) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed parsing baseURL=%s with error=%w", cfg.BaseURL, err)
	}

	identity, err := common.IdentityFromToken(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed reading api token with error=%w", err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		identity: identity,
	}, nil
}

func (cl *Client) Identity() common.Identity {
	return cl.identity
}

func (cl *Client) endpoint(path string, query url.Values) string {
	u := *cl.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends body as json and decodes the answer into out when out is not nil.
func (cl *Client) do(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body any,
	out any,
) error {
	requestID := log.RequestIDFromContext(c)
	if requestID == "" {
		requestID = uuid.NewString()
		c = log.AttachRequestIDToContext(c, requestID)
	}

	c, span := otel.Tracer.Start(
		c,
		"storefront Client do",
		trace.WithAttributes(
			attribute.String(log.KeyRequestID, requestID),
			attribute.String(log.KeyRequestMethod, method),
			attribute.String(log.KeyRequestURI, path),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client do").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURI, path).
		Logger()

	var reader io.Reader
	if body != nil {
		logger = logger.With().Str(log.KeyProcess, "encoding request body").Logger()
		logger.Trace().Msg("encoding request body")
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		reader = buf
		logger.Trace().Msg("encoded request body")
	}

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	req, err := http.NewRequestWithContext(c, method, cl.endpoint(path, query), reader)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(constants.HeaderRequestID, requestID)
	req.Header.Set("Accept", commonHttp.HeaderValueJson)
	if body != nil {
		req.Header.Set(commonHttp.HeaderContentType, commonHttp.HeaderValueJson)
	}
	if !cl.identity.IsAnonymous() {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+cl.identity.Token)
	}

	logger.Debug().Msg("sending request")
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	logger = logger.With().Int(log.KeyStatusCode, resp.StatusCode).Logger()
	logger.Debug().Msg("sent request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err = &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if out == nil {
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "decoding response body").Logger()
	logger.Trace().Msg("decoding response body")
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("decoded response body")

	return nil
}
