package domain

import (
	"database/sql/driver"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ImageList is an ordered sequence of media path references persisted as a
// JSON array column. Empty and null are both rendered as [] on the wire.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, errors.Wrap(err, "marshal image list")
	}
	return string(data), nil
}

func (l *ImageList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported image list column type %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return errors.Wrap(err, "unmarshal image list")
	}
	*l = vals
	return nil
}
