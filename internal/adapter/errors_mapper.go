package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-field-sync/models"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := errorMessage(resp.Body())

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusConflict:
		return conflictError(resp.Body(), body)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrBadGateway, body)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, body)
	case http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrGatewayTimeout, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

// errorMessage prefers the "message" field of a JSON error body.
func errorMessage(raw []byte) string {
	if gjson.ValidBytes(raw) {
		if msg := gjson.GetBytes(raw, "message"); msg.Exists() {
			return msg.String()
		}
	}
	return strings.TrimSpace(string(raw))
}

func conflictError(raw []byte, message string) error {
	var descriptor models.ConflictDescriptor
	if gjson.GetBytes(raw, "entityId").Exists() && json.Unmarshal(raw, &descriptor) == nil {
		return &ConflictError{Descriptor: descriptor}
	}
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

func isTransientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
