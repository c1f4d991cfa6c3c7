package work

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/shagor/portfolio-core/internal/models"
)

// toolList accepts a JSON array or a single comma-separated string.
type toolList models.StringArray

func (l *toolList) UnmarshalJSON(b []byte) error {
	v, err := decodeList(b, ",", "tools")
	*l = toolList(v)
	return err
}

// featureList accepts a JSON array or a single newline-separated string.
type featureList models.StringArray

func (l *featureList) UnmarshalJSON(b []byte) error {
	v, err := decodeList(b, "\n", "features")
	*l = featureList(v)
	return err
}

func decodeList(b []byte, sep, field string) (models.StringArray, error) {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return models.StringArray{}, nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		return models.SplitList(s, sep), nil
	case b[0] == '[':
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, err
		}
		return models.CleanList(items), nil
	}
	kind := "number"
	switch b[0] {
	case '{':
		kind = "object"
	case 't', 'f':
		kind = "bool"
	}
	return nil, &json.UnmarshalTypeError{
		Value: kind,
		Type:  reflect.TypeOf(models.StringArray{}),
		Field: field,
	}
}

type CreateWorkDTO struct {
	Title         string      `json:"title"    binding:"required"`
	Category      string      `json:"category" binding:"required"`
	Image         string      `json:"image"`
	Likes         *int        `json:"likes"`
	Link          string      `json:"link"`
	Description   string      `json:"description"`
	Role          string      `json:"role"`
	Tools         toolList    `json:"tools"`
	Features      featureList `json:"features"`
	LiveDemoURL   string      `json:"liveDemoUrl"`
	SourceCodeURL string      `json:"sourceCodeUrl"`
}

type UpdateWorkDTO struct {
	Title         *string      `json:"title"`
	Category      *string      `json:"category"`
	Image         *string      `json:"image"`
	Likes         *int         `json:"likes"`
	Link          *string      `json:"link"`
	Description   *string      `json:"description"`
	Role          *string      `json:"role"`
	Tools         *toolList    `json:"tools"`
	Features      *featureList `json:"features"`
	LiveDemoURL   *string      `json:"liveDemoUrl"`
	SourceCodeURL *string      `json:"sourceCodeUrl"`
}

const (
	defaultImage = "gradient-1"
	defaultLink  = "#"
)

var (
	errWorkNotFound = errors.New("work not found")
	errWorkRequired = errors.New("title and category are required")
)
