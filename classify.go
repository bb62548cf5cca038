package lettermint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

var errNotObject = errors.New("response body is not a JSON object")

// defaultAPIErrorType is used for 422 responses that name no error type.
const defaultAPIErrorType = "validation_error"

// classifyResponse turns a received response into a result or an *Error.
func classifyResponse(resp *Response) (*SendEmailResponse, error) {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		out, err := decodeSendResponse(code, resp.Body)
		if err != nil {
			return nil, &Error{
				Kind:       KindHTTPRequest,
				Source:     SourceAPI,
				StatusCode: code,
				Message:    "malformed response body",
				Body:       resp.Body,
				Err:        err,
			}
		}
		return out, nil

	case code == http.StatusUnprocessableEntity:
		fields := apiErrorFields(resp.Body)
		errType := fields.ErrorType
		if errType == "" {
			errType = fields.Error
		}
		if errType == "" {
			errType = defaultAPIErrorType
		}
		return nil, &Error{
			Kind:       KindValidation,
			Source:     SourceAPI,
			Code:       errType,
			StatusCode: code,
			Message:    fields.Message,
			Body:       resp.Body,
		}

	case code >= 400 && code < 500:
		fields := apiErrorFields(resp.Body)
		msg := fields.Message
		if msg == "" {
			msg = fields.Error
		}
		return nil, &Error{
			Kind:       KindClient,
			Source:     SourceAPI,
			Code:       fields.ErrorType,
			StatusCode: code,
			Message:    msg,
			Body:       resp.Body,
		}

	default:
		return nil, &Error{
			Kind:       KindHTTPRequest,
			Source:     SourceAPI,
			StatusCode: code,
			Message:    "unexpected response status",
			Body:       resp.Body,
		}
	}
}

// classifyTransportError maps a failure to obtain a response.
func classifyTransportError(err error, timeout time.Duration) error {
	if errors.Is(err, ErrClientClosed) {
		return &Error{Kind: KindHTTPRequest, Source: SourceLocal, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Kind:    KindTimeout,
			Source:  SourceLocal,
			Message: fmt.Sprintf("no response within %s", timeout),
			Err:     err,
		}
	}

	return &Error{Kind: KindHTTPRequest, Source: SourceLocal, Message: "request failed", Err: err}
}

type apiError struct {
	ErrorType string `json:"error_type"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// apiErrorFields extracts the well-known string fields of an error body.
// Bodies that are not JSON objects, or fields of other types, yield zero
// values.
func apiErrorFields(body []byte) apiError {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiError{}
	}
	str := func(k string) string {
		s, _ := raw[k].(string)
		return s
	}
	return apiError{ErrorType: str("error_type"), Error: str("error"), Message: str("message")}
}
