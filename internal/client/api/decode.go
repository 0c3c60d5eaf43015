package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/blogmanager/internal/models"
)

// envelope is the {success, data} wrapper some endpoints put around their
// payload. Other endpoints return the resource bare. The API is inconsistent
// about this and both shapes are accepted.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// unwrap decodes body into T, trying the enveloped shape first and falling back
// to the whole body.
func unwrap[T any](op operation, body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, &DecodeFailedError{Op: op.name, Err: errors.New("empty body")}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Success != nil && !*env.Success {
			msg := clip(firstNonEmpty(env.Message, env.Error, op.failure))
			return out, &RequestFailedError{Op: op.name, Status: 200, Message: msg}
		}
		if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			if err := json.Unmarshal(env.Data, &out); err != nil {
				return out, &DecodeFailedError{Op: op.name, Err: err}
			}
			return out, nil
		}
		if env.Success != nil {
			return out, &DecodeFailedError{Op: op.name, Err: errors.New("envelope without data")}
		}
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &DecodeFailedError{Op: op.name, Err: err}
	}
	return out, nil
}

// one decodes a single resource and requires a positive id.
func one[T any](op operation, body []byte, id func(T) int64) (T, error) {
	out, err := unwrap[T](op, body)
	if err != nil {
		return out, err
	}
	if id(out) < 1 {
		return out, &DecodeFailedError{Op: op.name, Err: fmt.Errorf("missing id")}
	}
	return out, nil
}

// many decodes a list of resources. A missing list is an error, an empty one
// is not.
func many[T any](op operation, body []byte) ([]T, error) {
	out, err := unwrap[[]T](op, body)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &DecodeFailedError{Op: op.name, Err: errors.New("missing list")}
	}
	return out, nil
}

// decodePage decodes the paginated article listing. The list is mandatory.
func decodePage(op operation, body []byte) (models.Page[models.Article], error) {
	var raw struct {
		Success    *bool             `json:"success"`
		Message    string            `json:"message"`
		Data       *[]models.Article `json:"data"`
		Total      int               `json:"total"`
		Page       int               `json:"page"`
		Limit      int               `json:"limit"`
		TotalPages int               `json:"totalPages"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.Page[models.Article]{}, &DecodeFailedError{Op: op.name, Err: err}
	}
	if raw.Success != nil && !*raw.Success {
		msg := clip(firstNonEmpty(raw.Message, op.failure))
		return models.Page[models.Article]{}, &RequestFailedError{Op: op.name, Status: 200, Message: msg}
	}
	if raw.Data == nil {
		return models.Page[models.Article]{}, &DecodeFailedError{Op: op.name, Err: errors.New("missing list")}
	}
	if raw.Total < 0 {
		return models.Page[models.Article]{}, &DecodeFailedError{Op: op.name, Err: fmt.Errorf("negative total %d", raw.Total)}
	}
	items := *raw.Data
	if items == nil {
		items = []models.Article{}
	}
	return models.Page[models.Article]{
		Items:      items,
		Total:      raw.Total,
		Page:       raw.Page,
		Limit:      raw.Limit,
		TotalPages: raw.TotalPages,
	}, nil
}
