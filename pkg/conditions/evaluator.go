// Package conditions evaluates field-dependency conditions against the
// submitted form values. Evaluation is total: coercion failures, broken
// regexes and unknown operators all resolve to false instead of erroring.
package conditions

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
	"github.com/regelwerk/backend/pkg/utils"
)

// Evaluate resolves a single condition against the current field values.
// A condition on a field whose value was never submitted is false: the
// form cannot prove the premise, so the dependent field stays hidden.
func Evaluate(cond models.Condition, fieldValues map[string]interface{}) bool {
	current, ok := fieldValues[cond.FieldID]
	if !ok {
		return false
	}

	operator := constants.ConditionOperator(cond.Operator)
	if cond.Operator == "" {
		operator = constants.OperatorEquals
	}
	expected := cond.ConditionValue

	switch operator {
	case constants.OperatorEquals:
		return reflect.DeepEqual(current, expected)

	case constants.OperatorNotEquals:
		return !reflect.DeepEqual(current, expected)

	case constants.OperatorIn:
		list, ok := AsList(expected)
		if !ok {
			return false
		}
		return containsValue(list, current)

	case constants.OperatorNotIn:
		list, ok := AsList(expected)
		if !ok {
			// No collection to be excluded from
			return true
		}
		return !containsValue(list, current)

	case constants.OperatorContains:
		return strings.Contains(
			strings.ToLower(utils.ToString(current)),
			strings.ToLower(utils.ToString(expected)),
		)

	case constants.OperatorGreaterThan:
		cur, curOK := utils.ToFloat64(current)
		exp, expOK := utils.ToFloat64(expected)
		if !curOK || !expOK {
			log.Printf("Condition on %s: non-numeric comparison operands", cond.FieldID)
			return false
		}
		return cur > exp

	case constants.OperatorLessThan:
		cur, curOK := utils.ToFloat64(current)
		exp, expOK := utils.ToFloat64(expected)
		if !curOK || !expOK {
			log.Printf("Condition on %s: non-numeric comparison operands", cond.FieldID)
			return false
		}
		return cur < exp

	case constants.OperatorRegexMatch:
		return matchesAtStart(utils.ToString(expected), utils.ToString(current))

	case constants.OperatorIsEmpty:
		return utils.IsEmptyValue(current)

	case constants.OperatorIsNotEmpty:
		return !utils.IsEmptyValue(current)

	default:
		log.Printf("Unknown condition operator: %s", cond.Operator)
		return false
	}
}

// matchesAtStart applies the pattern anchored at the beginning of the
// value. Broken patterns resolve to false.
func matchesAtStart(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		log.Printf("Invalid condition regex %q: %v", pattern, err)
		return false
	}
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

// AsList normalizes list-shaped values to []interface{}
func AsList(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		list := make([]interface{}, len(v))
		for i, s := range v {
			list[i] = s
		}
		return list, true
	}
	return nil, false
}

func containsValue(list []interface{}, value interface{}) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}
