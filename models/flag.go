package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Flag is a boolean persisted as a 0/1 smallint and rendered as a JSON boolean.
type Flag bool

func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

func (f *Flag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case int64:
		*f = v != 0
	case int32:
		*f = v != 0
	case int16:
		*f = v != 0
	case bool:
		*f = Flag(v)
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("models: cannot scan %T into Flag", src)
	}
	return nil
}

func (f *Flag) parse(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		b, berr := strconv.ParseBool(s)
		if berr != nil {
			return fmt.Errorf("models: cannot scan %q into Flag", s)
		}
		*f = Flag(b)
		return nil
	}
	*f = n != 0
	return nil
}

func (Flag) GormDataType() string {
	return "smallint"
}
