package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/regelwerk/backend/pkg/utils"
)

// timeNow is swapped for a fixed clock in tests
var timeNow = time.Now

// Fixed format patterns, anchored like the rest of the pattern checks
var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	urlPattern   = regexp.MustCompile(`^https?://.+`)
)

const isoDateLayout = "2006-01-02"

// Result is the outcome of validating one value: overall validity and the
// accumulated human-readable messages of every violated rule.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (r *Result) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// Validate checks a value against every configured rule category and
// unions the outcomes. Rules never short-circuit each other: a value
// violating both a length and a pattern rule reports both messages.
func Validate(value interface{}, cfg Config) Result {
	result := Result{Valid: true, Errors: []string{}}

	// Empty values pass everything; requiredness is enforced by the caller.
	if value == nil || value == "" {
		return result
	}

	if cfg.String != nil {
		validateString(value, cfg.String, &result)
	}
	if cfg.Number != nil {
		validateNumber(value, cfg.Number, &result)
	}
	if cfg.Date != nil {
		validateDate(value, cfg.Date, &result)
	}
	if cfg.File != nil {
		validateFile(value, cfg.File, &result)
	}
	// cfg.Custom is a reserved no-op, see CustomRules

	return result
}

func validateString(value interface{}, rules *StringRules, result *Result) {
	str := utils.ToString(value)

	if rules.MinLength != nil && len([]rune(str)) < *rules.MinLength {
		result.fail(fmt.Sprintf("Minimum length is %d characters", *rules.MinLength))
	}
	if rules.MaxLength != nil && len([]rune(str)) > *rules.MaxLength {
		result.fail(fmt.Sprintf("Maximum length is %d characters", *rules.MaxLength))
	}

	if rules.Pattern != nil {
		matched, ok := matchAtStart(*rules.Pattern, str)
		switch {
		case !ok:
			// Broken regex is a configuration error, not a mismatch
			result.fail("Invalid pattern configuration")
		case !matched:
			if rules.PatternError != nil && *rules.PatternError != "" {
				result.fail(*rules.PatternError)
			} else {
				result.fail("Value does not match required pattern")
			}
		}
	}

	if rules.Format != nil {
		switch *rules.Format {
		case "email":
			if !emailPattern.MatchString(str) {
				result.fail("Invalid email format")
			}
		case "phone":
			if !phonePattern.MatchString(str) {
				result.fail("Invalid phone number format")
			}
		case "url":
			if !urlPattern.MatchString(str) {
				result.fail("Invalid URL format")
			}
		}
	}
}

func validateNumber(value interface{}, rules *NumberRules, result *Result) {
	num, ok := parseNumber(value)
	if !ok {
		// No point running range checks against garbage
		result.fail("Invalid number format")
		return
	}

	if rules.MinValue != nil && num < *rules.MinValue {
		result.fail(fmt.Sprintf("Minimum value is %v", *rules.MinValue))
	}
	if rules.MaxValue != nil && num > *rules.MaxValue {
		result.fail(fmt.Sprintf("Maximum value is %v", *rules.MaxValue))
	}

	if rules.IntegerOnly && math.Trunc(num) != num {
		result.fail("Value must be an integer")
	}

	if rules.MaxDecimalPlaces != nil && decimalPlaces(num) > *rules.MaxDecimalPlaces {
		result.fail(fmt.Sprintf("Maximum %d decimal places allowed", *rules.MaxDecimalPlaces))
	}
}

// parseNumber applies form-input number semantics: strings with a decimal
// point parse as floats, without one as integers, anything else is rejected.
func parseNumber(value interface{}) (float64, bool) {
	if s, ok := value.(string); ok {
		if strings.Contains(s, ".") {
			f, err := strconv.ParseFloat(s, 64)
			return f, err == nil
		}
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return float64(i), err == nil
	}
	return utils.ToFloat64(value)
}

// decimalPlaces counts significant fractional digits via the shortest
// exact decimal representation, so 10.50 counts one place, not two.
func decimalPlaces(num float64) int {
	s := strconv.FormatFloat(num, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func validateDate(value interface{}, rules *DateRules, result *Result) {
	layout := isoDateLayout
	if rules.Format != nil && *rules.Format != "" {
		layout = *rules.Format
	}

	var dateValue time.Time
	switch v := value.(type) {
	case time.Time:
		dateValue = v
	case string:
		parsed, err := time.Parse(layout, v)
		if err != nil {
			result.fail("Invalid date format")
			return
		}
		dateValue = parsed
	default:
		result.fail("Invalid date format")
		return
	}
	dateValue = truncateToDay(dateValue)

	if rules.MinDate != nil {
		minDate, err := time.Parse(isoDateLayout, *rules.MinDate)
		if err != nil {
			result.fail("Invalid date format")
			return
		}
		if dateValue.Before(minDate) {
			result.fail(fmt.Sprintf("Date must be after %s", *rules.MinDate))
		}
	}
	if rules.MaxDate != nil {
		maxDate, err := time.Parse(isoDateLayout, *rules.MaxDate)
		if err != nil {
			result.fail("Invalid date format")
			return
		}
		if dateValue.After(maxDate) {
			result.fail(fmt.Sprintf("Date must be before %s", *rules.MaxDate))
		}
	}

	today := truncateToDay(timeNow())
	if rules.NoFutureDates && dateValue.After(today) {
		result.fail("Future dates are not allowed")
	}
	if rules.NoPastDates && dateValue.Before(today) {
		result.fail("Past dates are not allowed")
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateFile(value interface{}, rules *FileRules, result *Result) {
	file, ok := asFileValue(value)
	if !ok {
		// Not an upload-shaped value; file rules do not apply
		return
	}

	if rules.MaxSizeMB != nil && file.Size != nil {
		maxBytes := *rules.MaxSizeMB * 1024 * 1024
		if float64(*file.Size) > maxBytes {
			result.fail(fmt.Sprintf("File size exceeds %vMB", *rules.MaxSizeMB))
		}
	}

	if len(rules.AllowedExtensions) > 0 && file.Filename != "" {
		filename := strings.ToLower(file.Filename)
		ext := ""
		if i := strings.LastIndexByte(filename, '.'); i >= 0 {
			ext = filename[i+1:]
		}

		allowed := false
		for _, e := range rules.AllowedExtensions {
			if ext != "" && strings.ToLower(e) == ext {
				allowed = true
				break
			}
		}
		if !allowed {
			result.fail("File type not allowed. Allowed: " + strings.Join(rules.AllowedExtensions, ", "))
		}
	}

	if len(rules.AllowedMimeTypes) > 0 && file.ContentType != "" {
		allowed := false
		for _, m := range rules.AllowedMimeTypes {
			if m == file.ContentType {
				allowed = true
				break
			}
		}
		if !allowed {
			result.fail("File type not allowed")
		}
	}
}

// asFileValue duck-types the submitted value as upload metadata: either a
// FileValue directly or the JSON object shape {size, filename, content_type}.
func asFileValue(value interface{}) (FileValue, bool) {
	switch v := value.(type) {
	case FileValue:
		return v, true
	case *FileValue:
		return *v, true
	case map[string]interface{}:
		var file FileValue
		found := false
		if raw, ok := v["size"]; ok {
			if f, numOK := utils.ToFloat64(raw); numOK {
				size := int64(f)
				file.Size = &size
				found = true
			}
		}
		if raw, ok := v["filename"].(string); ok {
			file.Filename = raw
			found = true
		}
		if raw, ok := v["content_type"].(string); ok {
			file.ContentType = raw
			found = true
		}
		return file, found
	}
	return FileValue{}, false
}

// matchAtStart reports whether the pattern matches at the beginning of s,
// like an implicitly anchored search. The second return is false when the
// pattern itself does not compile.
func matchAtStart(pattern, s string) (matched bool, ok bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, false
	}
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0, true
}
