package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// timeLayouts are the textual timestamp forms returned by the supported drivers.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// normalize turns driver byte slices into strings.
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// AsInt64 converts a scanned value to int64.
func AsInt64(v interface{}) (int64, error) {
	switch x := normalize(v).(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err == nil {
			return n, nil
		}
		d, _, derr := apd.NewFromString(strings.TrimSpace(x))
		if derr != nil {
			return 0, fmt.Errorf("cannot convert %q to int: %w", x, err)
		}
		return d.Int64()
	case *apd.Decimal:
		return x.Int64()
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

// AsFloat64 converts a scanned value to float64.
func AsFloat64(v interface{}) (float64, error) {
	switch x := normalize(v).(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float: %w", x, err)
		}
		return f, nil
	case *apd.Decimal:
		return x.Float64()
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// AsDecimal converts a scanned value to an arbitrary precision decimal.
func AsDecimal(v interface{}) (*apd.Decimal, error) {
	switch x := normalize(v).(type) {
	case *apd.Decimal:
		return x, nil
	case int64:
		return apd.New(x, 0), nil
	case int:
		return apd.New(int64(x), 0), nil
	case float64:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(x); err != nil {
			return nil, fmt.Errorf("cannot convert %v to decimal: %w", x, err)
		}
		return d, nil
	case string:
		d, _, err := apd.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to decimal: %w", x, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to decimal", v)
	}
}

// AsString converts a scanned value to its textual form.
func AsString(v interface{}) string {
	switch x := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case *apd.Decimal:
		return x.Text('f')
	default:
		return fmt.Sprintf("%v", x)
	}
}

// AsBool converts a scanned value to bool. Y/N flags are accepted.
func AsBool(v interface{}) (bool, error) {
	switch x := normalize(v).(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case string:
		switch strings.TrimSpace(x) {
		case "Y", "y":
			return true, nil
		case "N", "n", "":
			return false, nil
		}
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to bool: %w", x, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}
}

// AsTime converts a scanned value to time.Time.
func AsTime(v interface{}) (time.Time, error) {
	switch x := normalize(v).(type) {
	case time.Time:
		return x, nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse time %q", x)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time.Time", v)
	}
}
